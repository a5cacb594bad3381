package http

import (
	"io"
	"net/http"
)

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	text, err := s.deps.Porter.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unreadable body"})
		return
	}
	res, err := s.deps.Porter.Import(r.Context(), string(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, res)
}
