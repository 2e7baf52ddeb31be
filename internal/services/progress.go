package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
	"lockin-backend/internal/stats"
)

// ProgressService records study activity and serves the analytics views
// built on top of the append-only log.
type ProgressService struct {
	activityRepo *repository.ActivityRepo
	sessionRepo  *repository.SessionRepo
	badges       *BadgeService
}

func NewProgressService(activityRepo *repository.ActivityRepo, sessionRepo *repository.SessionRepo, badges *BadgeService) *ProgressService {
	return &ProgressService{
		activityRepo: activityRepo,
		sessionRepo:  sessionRepo,
		badges:       badges,
	}
}

// RecordResult is the response for a progress write: the stored event plus
// any badges the write caused the user to cross.
type RecordResult struct {
	Event             *models.ActivityEvent `json:"event"`
	NewlyEarnedBadges []models.EarnedBadge  `json:"newly_earned_badges"`
}

func (s *ProgressService) RecordFlashcard(ctx context.Context, req models.RecordFlashcardRequest) (*RecordResult, error) {
	fieldErrors := make(map[string]string)
	if req.UserID == uuid.Nil {
		fieldErrors["user_id"] = "user_id is required"
	}
	if req.StudySetID == uuid.Nil {
		fieldErrors["study_set_id"] = "study_set_id is required"
	}
	if req.CardIndex == nil {
		fieldErrors["card_index"] = "card_index is required"
	}
	if req.IsCorrect == nil {
		fieldErrors["is_correct"] = "is_correct is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	event := &models.ActivityEvent{
		UserID:     req.UserID,
		StudySetID: req.StudySetID,
		Kind:       models.ActivityFlashcard,
		CardIndex:  req.CardIndex,
		IsCorrect:  req.IsCorrect,
		DurationMs: req.DurationMs,
		SessionID:  req.SessionID,
	}
	if err := s.activityRepo.Insert(ctx, event); err != nil {
		return nil, err
	}

	return &RecordResult{
		Event:             event,
		NewlyEarnedBadges: s.evaluateBadges(ctx, req.UserID),
	}, nil
}

func (s *ProgressService) RecordQuiz(ctx context.Context, req models.RecordQuizRequest) (*RecordResult, error) {
	fieldErrors := make(map[string]string)
	if req.UserID == uuid.Nil {
		fieldErrors["user_id"] = "user_id is required"
	}
	if req.StudySetID == uuid.Nil {
		fieldErrors["study_set_id"] = "study_set_id is required"
	}
	if req.Score == nil {
		fieldErrors["score"] = "score is required"
	} else if *req.Score < 0 || *req.Score > 100 {
		fieldErrors["score"] = "score must be between 0 and 100"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	event := &models.ActivityEvent{
		UserID:     req.UserID,
		StudySetID: req.StudySetID,
		Kind:       models.ActivityQuiz,
		Score:      req.Score,
		DurationMs: req.DurationMs,
		SessionID:  req.SessionID,
	}
	if err := s.activityRepo.Insert(ctx, event); err != nil {
		return nil, err
	}

	return &RecordResult{
		Event:             event,
		NewlyEarnedBadges: s.evaluateBadges(ctx, req.UserID),
	}, nil
}

// evaluateBadges runs a badge check after a progress write. The write has
// already been committed, so an evaluation failure is logged and the
// response just carries an empty badge list.
func (s *ProgressService) evaluateBadges(ctx context.Context, userID uuid.UUID) []models.EarnedBadge {
	newly, err := s.badges.CheckAndAward(ctx, userID)
	if err != nil {
		log.Printf("badge evaluation failed for user %s: %v", userID, err)
		return []models.EarnedBadge{}
	}
	if newly == nil {
		return []models.EarnedBadge{}
	}
	return newly
}

func (s *ProgressService) Daily(ctx context.Context, userID uuid.UUID, asOf time.Time) (*stats.Aggregate, error) {
	events, err := s.activityRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	start, end := stats.DayRange(asOf)
	agg := stats.AggregateRange(events, start, end)
	return &agg, nil
}

func (s *ProgressService) Weekly(ctx context.Context, userID uuid.UUID, asOf time.Time) (*stats.Aggregate, error) {
	events, err := s.activityRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	start, end := stats.WeekRange(asOf)
	agg := stats.AggregateRange(events, start, end)
	return &agg, nil
}

// AllTime aggregates the full event log, optionally clipped to a date range.
// A nil bound leaves that side open.
func (s *ProgressService) AllTime(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*stats.Aggregate, error) {
	events, err := s.activityRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if start == nil && end == nil {
		agg := stats.AggregateAll(events)
		return &agg, nil
	}

	var from time.Time
	if start != nil {
		from, _ = stats.DayRange(*start)
	}
	to := time.Now()
	if end != nil {
		to = stats.EndOfDay(*end)
	}
	agg := stats.AggregateRange(events, from, to)
	return &agg, nil
}

// ProgressSummary is the dashboard view: streak state, per-period stat
// blocks, total study time, and the milestone ladder position.
type ProgressSummary struct {
	CurrentStreak      int                  `json:"current_streak"`
	LongestStreak      int                  `json:"longest_streak"`
	LastStudyDate      *time.Time           `json:"last_study_date,omitempty"`
	TotalStudyDays     int                  `json:"total_study_days"`
	Today              stats.Aggregate      `json:"today"`
	ThisWeek           stats.Aggregate      `json:"this_week"`
	AllTime            stats.Aggregate      `json:"all_time"`
	StudyTime          stats.StudyTimeTotal `json:"study_time"`
	AchievedMilestones []int                `json:"achieved_milestones"`
	NextMilestone      *int                 `json:"next_milestone,omitempty"`
	TotalSessions      int                  `json:"total_sessions"`
}

func (s *ProgressService) Summary(ctx context.Context, userID uuid.UUID, asOf time.Time) (*ProgressSummary, error) {
	events, err := s.activityRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	closedSessions, err := s.sessionRepo.CountClosed(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildSummary(events, closedSessions, asOf), nil
}

// buildSummary assembles the dashboard payload from an event snapshot.
func buildSummary(events []models.ActivityEvent, closedSessions int, asOf time.Time) *ProgressSummary {
	streak := stats.ComputeStreak(events, asOf)
	achieved, next := stats.Milestones(streak.CurrentStreak, streak.LongestStreak)

	dayStart, dayEnd := stats.DayRange(asOf)
	weekStart, weekEnd := stats.WeekRange(asOf)

	return &ProgressSummary{
		CurrentStreak:      streak.CurrentStreak,
		LongestStreak:      streak.LongestStreak,
		LastStudyDate:      streak.LastActiveDate,
		TotalStudyDays:     stats.TotalStudyDays(events),
		Today:              stats.AggregateRange(events, dayStart, dayEnd),
		ThisWeek:           stats.AggregateRange(events, weekStart, weekEnd),
		AllTime:            stats.AggregateAll(events),
		StudyTime:          stats.StudyTime(events),
		AchievedMilestones: achieved,
		NextMilestone:      next,
		TotalSessions:      closedSessions,
	}
}

// DailyChart returns the trailing seven day buckets, oldest first.
func (s *ProgressService) DailyChart(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]stats.DayBucket, error) {
	events, err := s.activityRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.DailyChart(events, asOf, 7), nil
}

// KindProgress lists a user's raw events of one kind with the matching
// all-time aggregate.
type KindProgress struct {
	Events    []models.ActivityEvent `json:"events"`
	Aggregate stats.Aggregate        `json:"aggregate"`
}

func (s *ProgressService) ByKind(ctx context.Context, userID uuid.UUID, kind string) (*KindProgress, error) {
	if kind != models.ActivityFlashcard && kind != models.ActivityQuiz {
		return nil, &ValidationError{Fields: map[string]string{"kind": "kind must be flashcard or quiz"}}
	}

	events, err := s.activityRepo.ListByUserAndKind(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	return &KindProgress{
		Events:    events,
		Aggregate: stats.AggregateAll(events),
	}, nil
}

// StreakOverview is the streak widget payload.
type StreakOverview struct {
	CurrentStreak      int                    `json:"current_streak"`
	LongestStreak      int                    `json:"longest_streak"`
	LastStudyDate      *time.Time             `json:"last_study_date,omitempty"`
	TotalStudyDays     int                    `json:"total_study_days"`
	RecentActivity     []models.ActivityEvent `json:"recent_activity"`
	AchievedMilestones []int                  `json:"achieved_milestones"`
	NextMilestone      *int                   `json:"next_milestone,omitempty"`
}

func (s *ProgressService) Streak(ctx context.Context, userID uuid.UUID, asOf time.Time) (*StreakOverview, error) {
	events, err := s.activityRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	streak := stats.ComputeStreak(events, asOf)
	achieved, next := stats.Milestones(streak.CurrentStreak, streak.LongestStreak)

	return &StreakOverview{
		CurrentStreak:      streak.CurrentStreak,
		LongestStreak:      streak.LongestStreak,
		LastStudyDate:      streak.LastActiveDate,
		TotalStudyDays:     stats.TotalStudyDays(events),
		RecentActivity:     recentEvents(events, 10),
		AchievedMilestones: achieved,
		NextMilestone:      next,
	}, nil
}

// recentEvents returns the newest n events, newest first. The repo hands
// events back oldest first.
func recentEvents(events []models.ActivityEvent, n int) []models.ActivityEvent {
	recent := make([]models.ActivityEvent, 0, n)
	for i := len(events) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, events[i])
	}
	return recent
}
