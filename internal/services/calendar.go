package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
)

var calendarScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
}

// CalendarService syncs task deadlines to the user's Google Calendar. Tokens
// obtained through the consent flow are stored per user; refreshed access
// tokens are written back as they rotate.
type CalendarService struct {
	userRepo *repository.UserRepo
	taskRepo *repository.TaskRepo
	oauth    *oauth2.Config
}

func NewCalendarService(userRepo *repository.UserRepo, taskRepo *repository.TaskRepo, clientID, clientSecret, backendURL string) *CalendarService {
	return &CalendarService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  backendURL + "/api/v1/calendar/oauth/callback",
			Scopes:       calendarScopes,
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *CalendarService) Configured() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != ""
}

// ConsentURL builds the Google consent page URL. prompt=consent forces a
// refresh token on every grant; the user ID rides in the state parameter.
func (s *CalendarService) ConsentURL(userID uuid.UUID) (string, error) {
	if !s.Configured() {
		return "", &ValidationError{Fields: map[string]string{"calendar": "Google Calendar integration is not configured"}}
	}
	return s.oauth.AuthCodeURL(userID.String(),
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// HandleCallback exchanges the authorization code and stores the tokens for
// the user named in state.
func (s *CalendarService) HandleCallback(ctx context.Context, code, state string) error {
	userID, err := uuid.Parse(state)
	if err != nil {
		return &ValidationError{Fields: map[string]string{"state": "Invalid state parameter"}}
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "User not found"}
		}
		return err
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	var refresh *string
	if token.RefreshToken != "" {
		refresh = &token.RefreshToken
	}

	return s.userRepo.SetGoogleTokens(ctx, userID, token.AccessToken, refresh)
}

// PermissionStatus mirrors what the frontend needs to decide whether to show
// the connect button.
type PermissionStatus struct {
	HasPermissions      bool `json:"has_permissions"`
	CalendarPermissions bool `json:"calendar_permissions"`
	HasTokens           bool `json:"has_tokens"`
}

func (s *CalendarService) Permissions(ctx context.Context, userID uuid.UUID) (*PermissionStatus, error) {
	granted, err := s.userRepo.HasCalendarPermissions(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}

	access, refresh, err := s.userRepo.GetGoogleTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	hasTokens := access != nil && refresh != nil
	return &PermissionStatus{
		HasPermissions:      granted && access != nil,
		CalendarPermissions: granted,
		HasTokens:           hasTokens,
	}, nil
}

func (s *CalendarService) Disconnect(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.ClearCalendarAccess(ctx, userID)
}

// SyncTaskRequest carries the event timing for a task sync.
type SyncTaskRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	TimeZone  string    `json:"time_zone"`
}

// SyncTask creates or updates a calendar event for the task's deadline. If
// the task already points at an event that no longer exists, a fresh event
// is created in its place.
func (s *CalendarService) SyncTask(ctx context.Context, userID, taskID uuid.UUID, req SyncTaskRequest) (*calendar.Event, *models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, &NotFoundError{Message: "Task not found"}
		}
		return nil, nil, err
	}
	if task.UserID != userID {
		return nil, nil, &NotFoundError{Message: "Task not found"}
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, nil, &ValidationError{Fields: map[string]string{
			"start_time": "start_time and end_time are required for calendar sync",
		}}
	}

	svc, err := s.calendarClient(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	tz := req.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	description := "Task: " + task.Assignment
	if task.Description != nil && *task.Description != "" {
		description = *task.Description
	}

	event := &calendar.Event{
		Summary:     task.Assignment,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: req.StartTime.Format(time.RFC3339), TimeZone: tz},
		End:         &calendar.EventDateTime{DateTime: req.EndTime.Format(time.RFC3339), TimeZone: tz},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 10},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	var saved *calendar.Event
	if task.CalendarEventID != nil {
		saved, err = svc.Events.Update("primary", *task.CalendarEventID, event).Context(ctx).Do()
		if err != nil {
			// The event may have been deleted out from under us
			log.Printf("failed to update calendar event %s, creating a new one: %v", *task.CalendarEventID, err)
			saved, err = svc.Events.Insert("primary", event).Context(ctx).Do()
		}
	} else {
		saved, err = svc.Events.Insert("primary", event).Context(ctx).Do()
	}
	if err != nil {
		return nil, nil, s.handleCalendarError(ctx, userID, err)
	}

	if err := s.taskRepo.SetCalendarEventID(ctx, task.ID, saved.Id); err != nil {
		return nil, nil, err
	}
	task.CalendarEventID = &saved.Id

	return saved, task, nil
}

// Unsync deletes the task's calendar event (best effort) and clears the link.
func (s *CalendarService) Unsync(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Task not found"}
		}
		return nil, err
	}
	if task.UserID != userID {
		return nil, &NotFoundError{Message: "Task not found"}
	}

	if task.CalendarEventID != nil {
		if svc, clientErr := s.calendarClient(ctx, userID); clientErr == nil {
			if delErr := svc.Events.Delete("primary", *task.CalendarEventID).Context(ctx).Do(); delErr != nil {
				log.Printf("failed to delete calendar event %s (may already be gone): %v", *task.CalendarEventID, delErr)
			}
		}
	}

	if err := s.taskRepo.ClearCalendarEventID(ctx, task.ID); err != nil {
		return nil, err
	}
	task.CalendarEventID = nil

	return task, nil
}

// calendarClient builds a Calendar API client backed by the user's stored
// tokens. Access tokens refreshed by the token source are persisted.
func (s *CalendarService) calendarClient(ctx context.Context, userID uuid.UUID) (*calendar.Service, error) {
	granted, err := s.userRepo.HasCalendarPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.userRepo.GetGoogleTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !granted || access == nil {
		return nil, &ForbiddenError{Message: "Calendar permissions required"}
	}

	token := &oauth2.Token{AccessToken: *access}
	if refresh != nil {
		token.RefreshToken = *refresh
	}
	// Force a refresh check on first use; stored access tokens are usually stale.
	token.Expiry = time.Now().Add(-time.Minute)

	ts := &persistingTokenSource{
		base:     s.oauth.TokenSource(ctx, token),
		userRepo: s.userRepo,
		userID:   userID,
		current:  token.AccessToken,
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return svc, nil
}

// handleCalendarError maps a failed API call. Auth failures clear the stored
// grant so the frontend re-runs the consent flow.
func (s *CalendarService) handleCalendarError(ctx context.Context, userID uuid.UUID, err error) error {
	if isAuthError(err) {
		if clearErr := s.userRepo.ClearCalendarAccess(ctx, userID); clearErr != nil {
			log.Printf("failed to clear calendar access for user %s: %v", userID, clearErr)
		}
		return &ForbiddenError{Message: "Calendar authorization expired. Please re-authorize Google Calendar."}
	}
	return fmt.Errorf("calendar API error: %w", err)
}

func isAuthError(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}

// persistingTokenSource writes refreshed access tokens back to the user row
// so the next request starts from the newest token.
type persistingTokenSource struct {
	base     oauth2.TokenSource
	userRepo *repository.UserRepo
	userID   uuid.UUID
	current  string
}

func (ts *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.base.Token()
	if err != nil {
		return nil, err
	}

	if token.AccessToken != ts.current {
		ts.current = token.AccessToken
		if saveErr := ts.userRepo.SetGoogleTokens(context.Background(), ts.userID, token.AccessToken, nil); saveErr != nil {
			log.Printf("failed to persist refreshed calendar token for user %s: %v", ts.userID, saveErr)
		}
	}

	return token, nil
}
