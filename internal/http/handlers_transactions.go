package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// handleListTransactions lists the ledger newest first. ?recurring_id=
// narrows it to the occurrences booked from one definition.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	recurringID := sanitizeInput(r.URL.Query().Get("recurring_id"))
	txs, err := s.deps.Transactions.List(r.Context(), recurringID)
	if err != nil {
		writeServiceError(w, r, "list_transactions", err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := req.toTransaction()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.deps.Transactions.Create(r.Context(), tx)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
