package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tally/internal/core"
	"tally/internal/services"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.svc.Accounts.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountsJSON(accounts))
}

type connectAccountRequest struct {
	BankName    string `json:"bankName"`
	AccountType string `json:"accountType"`
	LastFour    string `json:"lastFour"`
}

func (s *Server) handleConnectAccount(w http.ResponseWriter, r *http.Request) {
	var req connectAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := s.svc.Accounts.Connect(r.Context(), userID(r), services.ConnectBankParams{
		BankName:    req.BankName,
		AccountType: core.AccountType(req.AccountType),
		LastFour:    req.LastFour,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountJSON(account))
}

func (s *Server) handleDisconnectAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Accounts.Disconnect(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Accounts.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type syncResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	TransactionCount int    `json:"transactionCount"`
}

// handleSyncAccount triggers the demo statement import. The response body
// mirrors the contract of the previous backend's sync function.
func (s *Server) handleSyncAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if strings.TrimSpace(accountID) == "" {
		writeError(w, http.StatusBadRequest, "Missing accountId")
		return
	}

	result, err := s.svc.BankSync.Sync(r.Context(), userID(r), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Success:          true,
		Message:          result.Message,
		TransactionCount: result.TransactionCount,
	})
}
