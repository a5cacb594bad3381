package http

import (
	"net/http"

	"buste/internal/services"
)

func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := s.deps.Backup.Create(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="buste-backup.json"`)
	writeJSON(w, http.StatusOK, backup)
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	var backup services.Backup
	if !decodeBody(w, r, &backup) {
		return
	}
	if err := s.deps.Backup.Load(r.Context(), &backup); err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
