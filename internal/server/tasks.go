package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/task-tracker/internal/domain"
	"github.com/Tomlord1122/task-tracker/internal/service"
	"github.com/Tomlord1122/task-tracker/internal/validation"
)

const (
	msgValidationFailed = "Validation failed"
	msgInvalidTaskID    = "Invalid task ID"
)

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest
	if issue := decodeJSONBody(w, r, &req); issue != nil {
		s.respondWithServiceError(w, r, domain.NewValidationError(msgValidationFailed, []domain.Issue{*issue}))
		return
	}

	if issues := validation.ValidateTask(req.Title, req.Description); len(issues) > 0 {
		s.respondWithServiceError(w, r, domain.NewValidationError(msgValidationFailed, issues))
		return
	}

	task, err := s.taskService.CreateTask(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, task)
}

func (s *Server) getRecentTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.taskService.GetRecentTasks(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, issues := validation.ParseTaskID(chi.URLParam(r, "id"))
	if issues != nil {
		s.respondWithServiceError(w, r, domain.NewValidationError(msgInvalidTaskID, issues))
		return
	}

	task, err := s.taskService.GetTask(r.Context(), id)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) completeTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, issues := validation.ParseTaskID(chi.URLParam(r, "id"))
	if issues != nil {
		s.respondWithServiceError(w, r, domain.NewValidationError(msgInvalidTaskID, issues))
		return
	}

	task, err := s.taskService.CompleteTask(r.Context(), id)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}
