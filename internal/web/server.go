// Package web serves the single-page task frontend backed by a store.Store.
package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tomlord1122/task-tracker/internal/client"
	"github.com/Tomlord1122/task-tracker/internal/config"
	"github.com/Tomlord1122/task-tracker/internal/store"
	"github.com/Tomlord1122/task-tracker/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	msgCreated        = "Task created successfully!"
	msgCreateFailed   = "Failed to create task."
	msgCompleted      = "Task marked as done!"
	msgCompleteFailed = "Failed to complete task."
	msgInFlight       = "That task is already being completed."
	msgRetrying       = "Retrying to load tasks..."
)

type Server struct {
	sessions *sessions
}

// NewServer returns the frontend *http.Server listening on the configured web
// port. Each browser session gets its own store backed by api.
func NewServer(cfg *config.Config, api store.API) *http.Server {
	s := newServer(api)
	return &http.Server{
		Addr:         cfg.WebAddr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func newServer(api store.API) *Server {
	return &Server{sessions: newSessions(api)}
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.indexHandler)
	r.Post("/tasks", s.createTaskHandler)
	r.Post("/tasks/{id}/complete", s.completeTaskHandler)
	r.Post("/retry", s.retryHandler)
	r.Post("/dismiss", s.dismissHandler)

	return r
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.storeFor(w, r)
	_ = st.FetchTasks(r.Context())
	render(w, st, http.StatusOK, formView{}, nil)
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.storeFor(w, r)
	if err := r.ParseForm(); err != nil {
		render(w, st, http.StatusBadRequest, formView{}, &flash{Kind: flashError, Message: msgCreateFailed})
		return
	}
	form := formView{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
	}

	if issues := validation.ValidateTask(form.Title, form.Description); len(issues) > 0 {
		form.Errors = validation.FieldErrors(issues)
		render(w, st, http.StatusBadRequest, form, nil)
		return
	}

	input := client.CreateTaskInput{Title: form.Title, Description: form.Description}
	if err := st.CreateTask(r.Context(), input); err != nil {
		log.Printf("[%s] create task: %v", middleware.GetReqID(r.Context()), err)
		render(w, st, http.StatusOK, form, &flash{Kind: flashError, Message: msgCreateFailed})
		return
	}

	render(w, st, http.StatusOK, formView{}, &flash{Kind: flashSuccess, Message: msgCreated})
}

func (s *Server) completeTaskHandler(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.storeFor(w, r)
	id := chi.URLParam(r, "id")

	err := st.CompleteTask(r.Context(), id)
	switch {
	case err == nil:
		render(w, st, http.StatusOK, formView{}, &flash{Kind: flashSuccess, Message: msgCompleted})
	case errors.Is(err, store.ErrInFlight):
		render(w, st, http.StatusConflict, formView{}, &flash{Kind: flashInfo, Message: msgInFlight})
	default:
		log.Printf("[%s] complete task %s: %v", middleware.GetReqID(r.Context()), id, err)
		render(w, st, http.StatusOK, formView{}, &flash{Kind: flashError, Message: msgCompleteFailed})
	}
}

func (s *Server) retryHandler(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.storeFor(w, r)
	_ = st.FetchTasks(r.Context())
	render(w, st, http.StatusOK, formView{}, &flash{Kind: flashInfo, Message: msgRetrying})
}

func (s *Server) dismissHandler(w http.ResponseWriter, r *http.Request) {
	st := s.sessions.storeFor(w, r)
	st.ClearError()
	render(w, st, http.StatusOK, formView{}, nil)
}

func render(w http.ResponseWriter, st *store.Store, status int, form formView, f *flash) {
	state := st.State()
	form.Busy = state.Loading
	page := newPageView(state, form, f)

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "index.html", page); err != nil {
		log.Printf("Error rendering page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
