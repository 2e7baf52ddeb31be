package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"lockin-backend/internal/repository"
	"lockin-backend/internal/stats"
)

const (
	reminderPollInterval = 1 * time.Hour
	deadlineWindow       = 24 * time.Hour
)

// ReminderScheduler emails users about upcoming task deadlines and streaks
// at risk of breaking. Redis keys deduplicate sends across restarts and
// multiple instances.
type ReminderScheduler struct {
	taskRepo     *repository.TaskRepo
	activityRepo *repository.ActivityRepo
	email        *EmailService
	redis        *redis.Client
	stopChan     chan struct{}
}

func NewReminderScheduler(taskRepo *repository.TaskRepo, activityRepo *repository.ActivityRepo, email *EmailService, redisClient *redis.Client) *ReminderScheduler {
	return &ReminderScheduler{
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		email:        email,
		redis:        redisClient,
		stopChan:     make(chan struct{}),
	}
}

func (s *ReminderScheduler) Start() {
	if s.taskRepo == nil || s.email == nil {
		return
	}

	go s.loop(func(ctx context.Context, now time.Time) {
		s.sendDeadlineReminders(ctx, now)
	})
	go s.loop(func(ctx context.Context, now time.Time) {
		s.sendStreakReminders(ctx, now)
	})

	log.Printf("Reminder scheduler started")
}

func (s *ReminderScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *ReminderScheduler) loop(runFn func(ctx context.Context, now time.Time)) {
	// Run on startup as well as by interval.
	runFn(context.Background(), time.Now())

	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			runFn(context.Background(), time.Now())
		}
	}
}

func (s *ReminderScheduler) sendDeadlineReminders(ctx context.Context, now time.Time) {
	due, err := s.taskRepo.ListDueBetween(ctx, now, now.Add(deadlineWindow))
	if err != nil {
		log.Printf("deadline reminders: failed to list due tasks: %v", err)
		return
	}

	for _, rem := range due {
		dedupeKey := fmt.Sprintf("deadline_reminder:%s", rem.Task.ID)
		sent, err := s.redis.SetNX(ctx, dedupeKey, "1", deadlineWindow).Result()
		if err != nil || !sent {
			continue
		}

		if err := s.email.SendDeadlineReminderEmail(rem.Email, rem.FullName, rem.Task.ClassName, rem.Task.Assignment, *rem.Task.Deadline); err != nil {
			log.Printf("deadline reminders: failed to send to %s: %v", rem.Email, err)
			s.redis.Del(ctx, dedupeKey)
		}
	}
}

// Streak reminders only go out in the evening, when the day is nearly over
// and the user still hasn't studied.
func (s *ReminderScheduler) sendStreakReminders(ctx context.Context, now time.Time) {
	if now.Hour() < 18 {
		return
	}

	candidates, err := s.activityRepo.ListStreakReminderCandidates(ctx)
	if err != nil {
		log.Printf("streak reminders: failed to list candidates: %v", err)
		return
	}

	for _, c := range candidates {
		dedupeKey := fmt.Sprintf("streak_reminder:%s:%s", c.UserID, now.Format("2006-01-02"))
		sent, err := s.redis.SetNX(ctx, dedupeKey, "1", 24*time.Hour).Result()
		if err != nil || !sent {
			continue
		}

		events, err := s.activityRepo.ListByUser(ctx, c.UserID)
		if err != nil {
			log.Printf("streak reminders: failed to load events for user %s: %v", c.UserID, err)
			continue
		}

		streak := stats.ComputeStreak(events, now)
		if streak.CurrentStreak == 0 {
			continue
		}

		if err := s.email.SendStreakReminderEmail(c.Email, c.FullName, streak.CurrentStreak); err != nil {
			log.Printf("streak reminders: failed to send to %s: %v", c.Email, err)
			s.redis.Del(ctx, dedupeKey)
		}
	}
}
