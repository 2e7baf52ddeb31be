package stats

// streakMilestones is the fixed ladder surfaced on the streak endpoint.
var streakMilestones = []int{3, 7, 14, 30, 50, 100}

// Milestones splits the ladder into thresholds already reached (judged
// against the longest streak ever held) and the next target relative to the
// current streak. next is nil past the top of the ladder.
func Milestones(current, longest int) (achieved []int, next *int) {
	for _, m := range streakMilestones {
		if m <= longest {
			achieved = append(achieved, m)
		}
	}
	for _, m := range streakMilestones {
		if m > current {
			n := m
			return achieved, &n
		}
	}
	return achieved, nil
}
