package http

import (
	"net/http"

	applog "ledger/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Categories.List(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err, "Error fetching categories", applog.ComponentCategory)
		return
	}
	NewJSONResponse().Payload(cats).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var cmd categoryCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, err, "Error creating category", applog.ComponentCategory)
		return
	}

	c, err := s.svc.Categories.Create(r.Context(), principal(r), cmd.Name, cmd.Type)
	if err != nil {
		writeError(w, r, err, "Error creating category", applog.ComponentCategory)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Payload(c).Write(w)
}

// handleListBudgets defaults to the current month and year.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err, "Error fetching budgets", applog.ComponentBudget)
		return
	}

	budgets, err := s.svc.Budgets.List(r.Context(), principal(r), params.Month, params.Year)
	if err != nil {
		writeError(w, r, err, "Error fetching budgets", applog.ComponentBudget)
		return
	}
	NewJSONResponse().Payload(budgets).Write(w)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var cmd budgetCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, err, "Error setting budget", applog.ComponentBudget)
		return
	}
	in, err := cmd.input()
	if err != nil {
		writeError(w, r, err, "Error setting budget", applog.ComponentBudget)
		return
	}

	b, err := s.svc.Budgets.Set(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err, "Error setting budget", applog.ComponentBudget)
		return
	}
	NewJSONResponse().Payload(b).Write(w)
}
