package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
	"lockin-backend/internal/services"
)

const generationQueue = "queue:study-set-generation"

// Pool consumes study-set generation jobs from Redis and runs them through
// the Gemini service. Multiple instances can share the queue; a per-job
// SetNX lock keeps duplicate deliveries from being processed twice.
type Pool struct {
	redis        *redis.Client
	gemini       *services.GeminiService
	studySetRepo *repository.StudySetRepo
	workerCount  int
	stopChan     chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	gemini *services.GeminiService,
	studySetRepo *repository.StudySetRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:        redisClient,
		gemini:       gemini,
		studySetRepo: studySetRepo,
		workerCount:  workerCount,
		stopChan:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout so shutdown is noticed
		result, err := p.redis.BLPop(ctx, 30*time.Second, generationQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.GenerationJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (study set %s)", id, job.ID, job.StudySetID)

		if err := p.gemini.GenerateStudySet(ctx, &job); err != nil {
			p.handleFailure(ctx, &job, err)
		}

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) handleFailure(ctx context.Context, job *models.GenerationJob, err error) {
	job.RetryCount++
	errMsg := err.Error()

	if job.RetryCount < 3 {
		log.Printf("Job %s failed (attempt %d): %s — retrying", job.ID, job.RetryCount, errMsg)

		// Re-queue after backoff
		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), generationQueue, string(jobBytes))
		})
		return
	}

	log.Printf("Job %s failed permanently: %s", job.ID, errMsg)

	if markErr := p.studySetRepo.MarkFailed(ctx, job.StudySetID); markErr != nil {
		log.Printf("Failed to mark study set %s as failed: %v", job.StudySetID, markErr)
	}

	p.gemini.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "study_set_failed",
		Payload: map[string]interface{}{
			"job_id":       job.ID,
			"study_set_id": job.StudySetID,
			"error":        errMsg,
		},
	})
}
