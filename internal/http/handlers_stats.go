package http

import (
	"bytes"
	"net/http"
	"strconv"

	"ledger/internal/charts"
	"ledger/internal/core"
	applog "ledger/internal/log"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Stats.Overview(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err, "Error fetching statistics", applog.ComponentStats)
		return
	}
	NewJSONResponse().Payload(ov).Write(w)
}

func (s *Server) handleDailyChart(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, func(buf *bytes.Buffer, ov core.Overview) error {
		return charts.Daily(buf, ov.Daily)
	})
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, func(buf *bytes.Buffer, ov core.Overview) error {
		return charts.Categories(buf, ov.ByCategory)
	})
}

func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, render func(*bytes.Buffer, core.Overview) error) {
	ov, err := s.svc.Stats.Overview(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err, "Error fetching statistics", applog.ComponentStats)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, ov); err != nil {
		writeError(w, r, err, "Error rendering chart", applog.ComponentStats)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
