package server

import (
	"net/http"

	"github.com/Tomlord1122/task-tracker/internal/config"
	"github.com/Tomlord1122/task-tracker/internal/database"
	"github.com/Tomlord1122/task-tracker/internal/service"
)

type Server struct {
	cfg         *config.Config
	taskService service.TaskService
	db          database.Service
}

// NewServer wires the task API into an *http.Server listening on the
// configured port. dbService may be nil, in which case /health/db reports down.
func NewServer(cfg *config.Config, taskService service.TaskService, dbService database.Service) *http.Server {
	appServer := &Server{
		cfg:         cfg,
		taskService: taskService,
		db:          dbService,
	}

	return &http.Server{
		Addr:         cfg.APIAddr(),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
