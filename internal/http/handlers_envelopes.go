package http

import (
	"net/http"
	"time"

	"buste/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	key := core.MonthStart(now)

	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	sum, err := s.deps.Engine.MonthSummary(r.Context(), now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Set(key, sum)
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleEnvelopes(w http.ResponseWriter, r *http.Request) {
	rows, err := s.deps.Engine.EnvelopeRows(r.Context(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type moveFundsRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

func (s *Server) handleMoveFunds(w http.ResponseWriter, r *http.Request) {
	var req moveFundsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	moved, err := s.deps.Engine.MoveFunds(r.Context(), req.From, req.To, req.Amount, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

func (s *Server) handleMonthInit(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Engine.MonthInit(r.Context(), time.Now()); err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.deps.Events.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
