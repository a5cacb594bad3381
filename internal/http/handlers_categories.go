package http

import (
	"net/http"

	"buste/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.deps.Categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleUpsertCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if !decodeBody(w, r, &c) {
		return
	}
	id, err := s.deps.Categories.Upsert(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
