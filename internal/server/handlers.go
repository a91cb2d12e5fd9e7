package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pranjalekhande/paddock-ai/internal/livetiming"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "assistant is not configured"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	answer, err := s.agent.Ask(r.Context(), req.Question)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleUpdateKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	if s.updater == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "knowledge base updater is not configured"})
		return
	}

	result, err := s.updater.Run(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Schedule())
}

func (s *Server) handleScheduleWithTiming(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.ScheduleWithTiming())
}

// currentRaceResponse optionally carries live timing data when a session is
// in progress and the feed has a fresh snapshot.
type currentRaceResponse struct {
	models.ResolvedEvent
	LiveTiming *livetiming.Snapshot `json:"live_timing,omitempty"`
}

func (s *Server) handleCurrentRaceInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.CurrentRaceInfo()
	if err != nil {
		s.writeError(w, err)
		return
	}

	response := currentRaceResponse{ResolvedEvent: info}
	if info.IsLive && s.live != nil {
		if snapshot, ok := s.live.Latest(); ok {
			response.LiveTiming = &snapshot
		}
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleNextRaceInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.NextRaceInfo()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleNextRace(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.NextRace())
}

func (s *Server) handleLatestResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.service.LatestResults(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	table, err := s.service.StandingsTable(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleChampionshipLeader(w http.ResponseWriter, r *http.Request) {
	leader, err := s.service.ChampionshipLeader(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, leader)
}

func (s *Server) handlePitWallData(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.PitWallData(r.Context()))
}

func (s *Server) handleBasicData(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.BasicData(r.Context()))
}
