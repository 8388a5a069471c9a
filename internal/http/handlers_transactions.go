package http

import (
	"bytes"
	"net/http"
	"strconv"

	applog "ledger/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.Transactions.List(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err, "Error fetching transactions", applog.ComponentTransaction)
		return
	}
	NewJSONResponse().Payload(txs).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var cmd transactionCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, err, "Error creating transaction", applog.ComponentTransaction)
		return
	}
	in, err := cmd.input()
	if err != nil {
		writeError(w, r, err, "Error creating transaction", applog.ComponentTransaction)
		return
	}

	t, err := s.svc.Transactions.Create(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err, "Error creating transaction", applog.ComponentTransaction)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Payload(t).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var cmd transactionCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, err, "Error updating transaction", applog.ComponentTransaction)
		return
	}
	in, err := cmd.input()
	if err != nil {
		writeError(w, r, err, "Error updating transaction", applog.ComponentTransaction)
		return
	}

	t, err := s.svc.Transactions.Update(r.Context(), principal(r), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err, "Error updating transaction", applog.ComponentTransaction)
		return
	}
	NewJSONResponse().Payload(t).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Delete(r.Context(), principal(r), r.PathValue("id")); err != nil {
		writeError(w, r, err, "Error deleting transaction", applog.ComponentTransaction)
		return
	}
	MessageResponse(http.StatusOK, "Deleted successfully").Write(w)
}

// handleExportTransactions streams the caller's visible transactions as CSV.
// The body is built in memory so a failure can still become a JSON error.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	n, err := s.svc.Export.WriteCSV(r.Context(), principal(r), &buf)
	if err != nil {
		writeError(w, r, err, "Error exporting data", applog.ComponentExport)
		return
	}

	applog.FromContext(r.Context()).WithComponent(applog.ComponentExport).InfoContext(r.Context(), "Exporting transactions as CSV",
		applog.FieldCount, n,
		applog.FieldOperation, applog.OpExport)

	h := w.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set("Content-Disposition", "attachment; filename=transactions.csv")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
