// Package server exposes the public HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/agent"
	"github.com/pranjalekhande/paddock-ai/internal/config"
	"github.com/pranjalekhande/paddock-ai/internal/f1data"
	"github.com/pranjalekhande/paddock-ai/internal/livetiming"
	"github.com/pranjalekhande/paddock-ai/internal/models"
	"github.com/pranjalekhande/paddock-ai/internal/service"
)

// Asker answers a natural-language question.
type Asker interface {
	Ask(ctx context.Context, question string) (agent.Answer, error)
}

// KnowledgeUpdater runs one knowledge base refresh.
type KnowledgeUpdater interface {
	Run(ctx context.Context) (service.UpdateResult, error)
}

// LiveFeed exposes the latest live timing snapshot.
type LiveFeed interface {
	Latest() (livetiming.Snapshot, bool)
}

// Server routes the public API over the F1 service and the agent.
type Server struct {
	cfg     config.ServerConfig
	service *service.F1Service
	agent   Asker
	updater KnowledgeUpdater
	live    LiveFeed
	log     *logrus.Entry
	server  *http.Server
}

// New creates the API server. The agent, updater and live feed are optional;
// their endpoints degrade when absent.
func New(cfg config.ServerConfig, svc *service.F1Service, asker Asker, updater KnowledgeUpdater, live LiveFeed, baseLogger *logrus.Logger) *Server {
	return &Server{
		cfg:     cfg,
		service: svc,
		agent:   asker,
		updater: updater,
		live:    live,
		log:     baseLogger.WithField("component", "api"),
	}
}

// Router builds the route table. Exposed for tests.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /update-knowledge-base", s.handleUpdateKnowledgeBase)

	mux.HandleFunc("GET /f1/schedule", s.handleSchedule)
	mux.HandleFunc("GET /f1/schedule-with-timing", s.handleScheduleWithTiming)
	mux.HandleFunc("GET /f1/current-race-info", s.handleCurrentRaceInfo)
	mux.HandleFunc("GET /f1/next-race-info", s.handleNextRaceInfo)
	mux.HandleFunc("GET /f1/next-race", s.handleNextRace)
	mux.HandleFunc("GET /f1/latest-results", s.handleLatestResults)
	mux.HandleFunc("GET /f1/standings", s.handleStandings)
	mux.HandleFunc("GET /f1/championship-leader", s.handleChampionshipLeader)
	mux.HandleFunc("GET /f1/pit-wall-data", s.handlePitWallData)
	mux.HandleFunc("GET /f1/basic-data", s.handleBasicData)

	return s.corsMiddleware(s.requestLogMiddleware(mux))
}

// Start runs the API server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	s.log.WithField("port", s.cfg.Port).Info("API server starting")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var sourceErr f1data.SourceError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNoData):
		status = http.StatusNotFound
	case errors.As(err, &sourceErr):
		switch sourceErr.Code {
		case f1data.ErrCodeNotFound:
			status = http.StatusNotFound
		case f1data.ErrCodeRateLimitExceeded:
			status = http.StatusTooManyRequests
		default:
			status = http.StatusBadGateway
		}
	}

	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("Request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
