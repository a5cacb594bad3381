package http

import (
	"encoding/json"
	"net/http"
	"time"

	"buste/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Transactions.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type createTransactionRequest struct {
	Amount     json.Number `json:"amount"`
	AmountText string      `json:"amountText,omitempty"`
	Date       string      `json:"date"`
	Note       string      `json:"note"`
	CategoryID string      `json:"categoryId"`
	Confirmed  bool        `json:"confirmed"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, ok := parseRequestAmount(req)
	if !ok {
		writeError(w, r, core.ErrInvalidAmount)
		return
	}
	date := req.Date
	if date == "" {
		date = core.DateOf(time.Now())
	}

	t := core.Transaction{
		Amount:     amount,
		Date:       date,
		Note:       req.Note,
		CategoryID: req.CategoryID,
	}
	id, err := s.deps.Transactions.Record(r.Context(), t, req.Confirmed)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

// parseRequestAmount accepts either a JSON number or a free-form amountText
// string ("€12,50") parsed permissively.
func parseRequestAmount(req createTransactionRequest) (float64, bool) {
	if req.AmountText != "" {
		return core.ParseAmount(req.AmountText)
	}
	if req.Amount == "" {
		return 0, false
	}
	f, err := req.Amount.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}
