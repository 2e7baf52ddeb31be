package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"google.golang.org/api/option"

	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
)

type GeminiService struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	studySetRepo *repository.StudySetRepo
	redis        *redis.Client
	rateChan     chan struct{} // Token bucket
}

func NewGeminiService(
	apiKey string,
	concurrentReqs int,
	studySetRepo *repository.StudySetRepo,
	redisClient *redis.Client,
) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:       client,
		model:        model,
		studySetRepo: studySetRepo,
		redis:        redisClient,
		rateChan:     rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// PublishUpdate sends a WebSocket update via Redis pub/sub
func (s *GeminiService) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, _ := json.Marshal(msg)
	s.redis.Publish(ctx, fmt.Sprintf("user_updates:%s", userID.String()), string(data))
}

// GenerateStudySet runs one queued generation job end to end: prompt the
// model, extract the item array from whatever shape came back, and store
// the completed set. The model decides whether the prompt wants flashcards
// or a quiz; the stored kind comes from the shape of what it returned.
func (s *GeminiService) GenerateStudySet(ctx context.Context, job *models.GenerationJob) error {
	if err := s.acquireRate(ctx); err != nil {
		return err
	}
	defer s.releaseRate()

	prompt := buildStudySetPrompt(job.Prompt)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Printf("WARNING: Gemini candidate %d stopped due to %s", i, cand.FinishReason)
		}
	}

	rawText := extractText(resp)
	if rawText == "" {
		return fmt.Errorf("Gemini returned empty response")
	}

	items, err := extractItems(rawText)
	if err != nil {
		return fmt.Errorf("failed to extract items: %w", err)
	}

	itemsJSON, kind, count, err := validateItems(items)
	if err != nil {
		return err
	}

	// Quiz sets get a share code so results can be linked
	var shareCode *string
	if kind == models.ActivityQuiz {
		code, err := generateToken(4)
		if err != nil {
			return err
		}
		shareCode = &code
	}

	if err := s.studySetRepo.Complete(ctx, job.StudySetID, kind, itemsJSON, count, shareCode); err != nil {
		return fmt.Errorf("failed to store study set: %w", err)
	}

	payload := map[string]interface{}{
		"study_set_id": job.StudySetID,
		"kind":         kind,
		"item_count":   count,
	}
	if shareCode != nil {
		payload["share_code"] = *shareCode
	}
	s.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type:    "study_set_ready",
		Payload: payload,
	})

	log.Printf("Generated %s study set %s (%d items)", kind, job.StudySetID, count)
	return nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func buildStudySetPrompt(userRequest string) string {
	var b strings.Builder

	b.WriteString(userRequest)
	b.WriteString("\n")
	b.WriteString(`You are an advanced AI study assistant that creates either flashcards or a multiple-choice quiz based on the user's request to help with exam preparation.

Instructions:
- Decide whether to create flashcards or a quiz based on the user's request context.
- Determine the appropriate number of items based on the user's request (aim for 5-15 items unless specifically requested otherwise).
- Respond with ONLY a valid JSON array (no prose, no code fences, no surrounding text). The array must contain at least 10 items.
- Use one of the following object shapes for each item:

Flashcard item example (as plain JSON object, not code-fenced):
{
  "front": "Question or prompt goes here",
  "back": "Answer or explanation goes here",
  "difficulty": "easy|medium|hard",
  "cognitive_skill": "recall|comprehension|application|analysis"
}

Quiz question item example (as plain JSON object, not code-fenced):
{
  "question": "The question text goes here",
  "options": [
    "A) First option",
    "B) Second option",
    "C) Third option",
    "D) Fourth option"
  ],
  "correct": "A|B|C|D",
  "difficulty": "easy|medium|hard",
  "cognitive_skill": "recall|comprehension|application|analysis"
}

Requirements:
- Ensure valid JSON syntax that can be parsed directly.
- Vary difficulty levels and cognitive skills across items.
- Ensure content is accurate and aligned with typical exam expectations.
- Do not include any commentary, explanations, tags, or code fences.
`)

	return b.String()
}
