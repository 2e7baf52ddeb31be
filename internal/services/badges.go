package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
	"lockin-backend/internal/stats"
)

// BadgeService evaluates the badge catalog against a user's study log and
// persists awards. Evaluation is idempotent: the unique (user, badge) row
// plus the earned-set check mean a badge can never be awarded twice.
type BadgeService struct {
	badgeRepo    *repository.BadgeRepo
	activityRepo *repository.ActivityRepo
	redis        *redis.Client
}

func NewBadgeService(badgeRepo *repository.BadgeRepo, activityRepo *repository.ActivityRepo, redisClient *redis.Client) *BadgeService {
	return &BadgeService{
		badgeRepo:    badgeRepo,
		activityRepo: activityRepo,
		redis:        redisClient,
	}
}

func (s *BadgeService) Catalog(ctx context.Context) ([]models.Badge, error) {
	return s.badgeRepo.ListCatalog(ctx)
}

func (s *BadgeService) UserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error) {
	return s.badgeRepo.ListEarned(ctx, userID)
}

// BadgeProgressReport is the badge page payload: per-badge progress plus
// overall totals and the stat snapshot the values came from.
type BadgeProgressReport struct {
	Badges      []models.BadgeProgress `json:"badges"`
	TotalBadges int                    `json:"total_badges"`
	EarnedCount int                    `json:"earned_count"`
	UserStats   stats.UserStats        `json:"user_stats"`
}

// Progress returns every catalog badge with the user's current value toward
// it, earned or not.
func (s *BadgeService) Progress(ctx context.Context, userID uuid.UUID) (*BadgeProgressReport, error) {
	catalog, err := s.badgeRepo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}

	earned, err := s.badgeRepo.ListEarned(ctx, userID)
	if err != nil {
		return nil, err
	}
	earnedByID := make(map[uuid.UUID]models.UserBadge, len(earned))
	for _, ub := range earned {
		earnedByID[ub.BadgeID] = ub
	}

	events, err := s.activityRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	userStats := stats.CollectUserStats(events, time.Now())

	progress := make([]models.BadgeProgress, 0, len(catalog))
	for _, b := range catalog {
		value := stats.BadgeValue(b.RequirementType, userStats)

		pct := 0.0
		if b.RequirementValue > 0 {
			pct = float64(value) / float64(b.RequirementValue) * 100
			if pct > 100 {
				pct = 100
			}
		}

		p := models.BadgeProgress{
			Badge:              b,
			CurrentValue:       value,
			ProgressPercentage: pct,
		}
		if ub, ok := earnedByID[b.ID]; ok {
			p.Earned = true
			earnedAt := ub.EarnedAt
			p.EarnedAt = &earnedAt
			p.IsNew = ub.IsNew
		}
		progress = append(progress, p)
	}

	return &BadgeProgressReport{
		Badges:      progress,
		TotalBadges: len(catalog),
		EarnedCount: len(earned),
		UserStats:   userStats,
	}, nil
}

func (s *BadgeService) MarkViewed(ctx context.Context, userID, badgeID uuid.UUID) error {
	found, err := s.badgeRepo.MarkViewed(ctx, userID, badgeID)
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Message: "Badge not found for user"}
	}
	return nil
}

// CheckAndAward runs a full badge evaluation for the user and persists any
// newly crossed badges. Each award is also pushed to the user's WebSocket
// channel.
func (s *BadgeService) CheckAndAward(ctx context.Context, userID uuid.UUID) ([]models.EarnedBadge, error) {
	events, err := s.activityRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.badgeRepo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}

	earnedIDs, err := s.badgeRepo.EarnedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	userStats := stats.CollectUserStats(events, time.Now())
	crossed := stats.EvaluateBadges(userStats, catalog, earnedIDs)

	newlyEarned := make([]models.EarnedBadge, 0, len(crossed))
	for _, b := range crossed {
		value := stats.BadgeValue(b.RequirementType, userStats)
		awarded, earnedAt, awardErr := s.badgeRepo.Award(ctx, userID, b.ID, value)
		if awardErr != nil {
			return newlyEarned, awardErr
		}
		if !awarded {
			// Lost the race to a concurrent evaluation.
			continue
		}

		newlyEarned = append(newlyEarned, models.EarnedBadge{
			Badge:         b,
			EarnedAt:      earnedAt,
			ProgressValue: value,
		})
		s.publishBadgeEarned(ctx, userID, b, earnedAt)
	}

	return newlyEarned, nil
}

func (s *BadgeService) publishBadgeEarned(ctx context.Context, userID uuid.UUID, badge models.Badge, earnedAt time.Time) {
	msg := models.WSMessage{
		Type: "badge_earned",
		Payload: map[string]interface{}{
			"badge":     badge,
			"earned_at": earnedAt,
		},
	}
	data, _ := json.Marshal(msg)
	if err := s.redis.Publish(ctx, fmt.Sprintf("user_updates:%s", userID.String()), string(data)).Err(); err != nil {
		log.Printf("failed to publish badge award for user %s: %v", userID, err)
	}
}
