package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lockin-backend/internal/middleware"
	"lockin-backend/internal/models"
	"lockin-backend/internal/repository"
)

type TaskHandler struct {
	taskRepo *repository.TaskRepo
}

func NewTaskHandler(taskRepo *repository.TaskRepo) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

var (
	validTaskStatuses   = map[string]bool{"todo": true, "in_progress": true, "done": true}
	validTaskPriorities = map[string]bool{"low": true, "medium": true, "high": true}
)

func validateTaskRequest(req *models.TaskRequest) map[string]string {
	fieldErrors := make(map[string]string)
	if req.ClassName == "" {
		fieldErrors["class_name"] = "class_name is required"
	}
	if req.Assignment == "" {
		fieldErrors["assignment"] = "assignment is required"
	}
	if req.Status == "" {
		req.Status = "todo"
	} else if !validTaskStatuses[req.Status] {
		fieldErrors["status"] = "status must be todo, in_progress, or done"
	}
	if req.Priority == "" {
		req.Priority = "medium"
	} else if !validTaskPriorities[req.Priority] {
		fieldErrors["priority"] = "priority must be low, medium, or high"
	}
	return fieldErrors
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fieldErrors := validateTaskRequest(&req); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	task := &models.Task{
		UserID:      middleware.GetUserID(r.Context()),
		ClassName:   req.ClassName,
		Assignment:  req.Assignment,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	}

	if err := h.taskRepo.Create(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create task", r))
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	tasks, err := h.taskRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch tasks", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fieldErrors := validateTaskRequest(&req); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	task.ClassName = req.ClassName
	task.Assignment = req.Assignment
	task.Description = req.Description
	task.Status = req.Status
	task.Priority = req.Priority
	task.Deadline = req.Deadline

	if err := h.taskRepo.Update(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update task", r))
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// UpdateStatus moves a task between board columns.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if !validTaskStatuses[req.Status] {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"status": "status must be todo, in_progress, or done"}, r))
		return
	}

	if err := h.taskRepo.UpdateStatus(r.Context(), task.ID, task.UserID, req.Status); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update task status", r))
		return
	}

	task.Status = req.Status
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(r.Context(), task.ID, task.UserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete task", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// ownedTask resolves the {id} path param to a task owned by the caller,
// writing the error response itself when that fails.
func (h *TaskHandler) ownedTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid task ID", r))
		return nil, false
	}

	task, err := h.taskRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Task not found", r))
		return nil, false
	}

	if task.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return nil, false
	}

	return task, true
}
