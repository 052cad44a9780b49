// Package api exposes the workspace over a JSON HTTP interface.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/dva/efficiency"
	"github.com/timgluz/dva/measurement"
	"github.com/timgluz/dva/middleware"
	"github.com/timgluz/dva/project"
	"github.com/timgluz/dva/response"
	"github.com/timgluz/dva/sample"
	"github.com/timgluz/dva/storage"
	"github.com/timgluz/dva/task"
)

var ErrInvalidRequest = fmt.Errorf("invalid request")

// Server holds the stateful components behind the HTTP handlers. All handlers
// run under one mutex because the workspace is not safe for concurrent use.
type Server struct {
	workspace *storage.Workspace
	repo      storage.Repository
	importer  *task.SampleImporter
	logger    *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewServer(workspace *storage.Workspace, repo storage.Repository, logger *slog.Logger) *Server {
	return &Server{
		workspace: workspace,
		repo:      repo,
		importer:  task.NewSampleImporter(repo, logger.With("task", "sample_importer")),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Server) IsReady() bool {
	if s.logger == nil {
		return false
	}

	if s.workspace == nil {
		s.logger.Error("Workspace is not initialized")
		return false
	}

	if s.repo == nil || !s.repo.IsReady() {
		s.logger.Error("Repository is not ready")
		return false
	}

	return true
}

func (s *Server) Router() *httprouter.Router {
	router := httprouter.New()
	handle := func(method, path string, h httprouter.Handle) {
		router.Handle(method, path, middleware.LogRequest(middleware.Serialize(h, &s.mu), s.logger))
	}

	handle(http.MethodGet, "/units", newUnitsHandler())
	handle(http.MethodPost, "/convert", newConvertHandler(s))

	handle(http.MethodGet, "/projects", newProjectsHandler(s))
	handle(http.MethodPost, "/projects", newCreateProjectHandler(s))
	handle(http.MethodDelete, "/projects", newDeleteProjectsHandler(s))
	handle(http.MethodGet, "/projects/:id", newProjectHandler(s))
	handle(http.MethodPut, "/projects/:id", newUpdateProjectHandler(s))
	handle(http.MethodGet, "/comparison", newComparisonHandler(s))

	handle(http.MethodGet, "/samples", newSamplesHandler(s))
	handle(http.MethodPost, "/samples", newAddSampleHandler(s))
	handle(http.MethodDelete, "/samples/:index", newRemoveSampleHandler(s))
	handle(http.MethodPost, "/samples/import", newImportSamplesHandler(s))
	handle(http.MethodGet, "/samples/volumes", newSampleVolumesHandler(s))

	router.NotFound = response.NewNotFoundHandler(s.logger)
	router.MethodNotAllowed = response.NewMethodNotAllowedHandler(s.logger)
	return router
}

// mutate runs fn and saves the workspace. When fn or the save fails the
// workspace is put back to the state it had before.
func (s *Server) mutate(ctx context.Context, fn func() error) error {
	previous := s.workspace.Snapshot()

	if err := fn(); err != nil {
		return err
	}

	if err := s.workspace.Save(ctx, s.repo); err != nil {
		s.logger.Error("Failed to persist workspace", "error", err)
		if rollbackErr := s.workspace.Apply(previous); rollbackErr != nil {
			s.logger.Error("Failed to roll back workspace", "error", rollbackErr)
		}
		return fmt.Errorf("persist workspace: %w", err)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, project.ErrNotFound), errors.Is(err, sample.ErrOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, measurement.ErrInvalidUnit),
		errors.Is(err, measurement.ErrInvalidValue),
		errors.Is(err, efficiency.ErrNonPositiveSecondaryVolume),
		errors.Is(err, project.ErrInvalidPeriod),
		errors.Is(err, sample.ErrMissingSampleID):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrRepositoryNotReady):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	response.RenderError(w, err, status)
}
