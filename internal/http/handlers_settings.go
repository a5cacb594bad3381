package http

import (
	"net/http"
	"time"

	"buste/internal/core"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	// Decoding over the current settings keeps the fields the body omits.
	settings, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !decodeBody(w, r, &settings) {
		return
	}
	for _, item := range settings.Recurring {
		if err := item.Validate(); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if err := s.deps.Settings.Save(r.Context(), settings); err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	lines, err := s.deps.Diag.Lines(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (s *Server) handleClearDiagnostics(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Diag.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.deps.Expenses.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleUpsertExpense(w http.ResponseWriter, r *http.Request) {
	var e core.FixedExpense
	if !decodeBody(w, r, &e) {
		return
	}
	id, err := s.deps.Expenses.Upsert(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunRecurring(w http.ResponseWriter, r *http.Request) {
	created, err := s.deps.Projector.Run(r.Context(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if created > 0 {
		s.summaryCache.Purge()
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
