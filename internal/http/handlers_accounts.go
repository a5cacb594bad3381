package http

import "net/http"

type linkRequest struct {
	Name   string `json:"name"`
	APIURL string `json:"apiUrl"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Accounts.ListBankAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleLinkAccount(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := s.deps.Accounts.LinkBankAccount(r.Context(), req.Name, req.APIURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleFetchAccount(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Accounts.FetchBankAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUnlinkAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Accounts.UnlinkBankAccount(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Accounts.ListCreditCards(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleLinkCard(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := s.deps.Accounts.LinkCreditCard(r.Context(), req.Name, req.APIURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleFetchCard(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Accounts.FetchCreditCard(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUnlinkCard(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Accounts.UnlinkCreditCard(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Accounts.RefreshAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLookupBankAPI(w http.ResponseWriter, r *http.Request) {
	apiURL, err := s.deps.Accounts.LookupBankAPI(r.Context(), r.PathValue("domain"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"apiUrl": apiURL})
}
