package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lockin-backend/internal/models"
	"lockin-backend/internal/services"
)

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"email": "required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "taken"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "missing"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "bad creds"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "no access"}, http.StatusForbidden, "FORBIDDEN"},
		{"rate limited", &services.RateLimitError{Message: "slow down"}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("X-Request-ID", "req-123")

			handleServiceError(w, r, tc.err)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error envelope: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("Expected code %q, got %q", tc.wantCode, resp.Error.Code)
			}
			if resp.Error.RequestID != "req-123" {
				t.Errorf("Expected request ID to be echoed, got %q", resp.Error.RequestID)
			}
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	handleServiceError(w, r, &services.ValidationError{Fields: map[string]string{"password": "too short"}})

	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	if resp.Error.Fields["password"] != "too short" {
		t.Errorf("Expected field error to survive, got %v", resp.Error.Fields)
	}
}

func TestValidateTaskRequest(t *testing.T) {
	t.Run("missing required fields", func(t *testing.T) {
		req := models.TaskRequest{}
		errs := validateTaskRequest(&req)
		if errs["class_name"] == "" || errs["assignment"] == "" {
			t.Errorf("Expected class_name and assignment errors, got %v", errs)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		req := models.TaskRequest{ClassName: "CS101", Assignment: "HW1"}
		errs := validateTaskRequest(&req)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if req.Status != "todo" || req.Priority != "medium" {
			t.Errorf("Expected defaults todo/medium, got %s/%s", req.Status, req.Priority)
		}
	})

	t.Run("rejects unknown enum values", func(t *testing.T) {
		req := models.TaskRequest{ClassName: "CS101", Assignment: "HW1", Status: "archived", Priority: "urgent"}
		errs := validateTaskRequest(&req)
		if errs["status"] == "" || errs["priority"] == "" {
			t.Errorf("Expected status and priority errors, got %v", errs)
		}
	})
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "ok"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
}
