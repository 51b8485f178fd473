package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tally/internal/core"
	"tally/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.Transactions.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionsJSON(txs))
}

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.svc.Transactions.Add(r.Context(), userID(r), services.AddTransactionParams{
		Amount:      core.Money{Cents: cents},
		Type:        core.TransactionType(req.Type),
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTransactionSummary serves every aggregate the dashboard needs in
// one response. An optional date query pins "today" for the weekly chart.
func (s *Server) handleTransactionSummary(w http.ResponseWriter, r *http.Request) {
	today := core.DateOf(time.Now())
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		today = d
	}

	summary, err := s.svc.Transactions.Summarize(r.Context(), userID(r), today)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryJSON(summary))
}
