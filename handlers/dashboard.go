package handlers

import (
	"html/template"
	"net/http"

	"overtimepay/calc"
	"overtimepay/config"
	"overtimepay/database"

	"github.com/rs/zerolog/log"
)

type DashboardHandler struct {
	pages
	store *database.Store
}

func NewDashboardHandler(cfg *config.Config, store *database.Store, templates map[string]*template.Template) *DashboardHandler {
	return &DashboardHandler{
		pages: pages{config: cfg, templates: templates},
		store: store,
	}
}

func (h *DashboardHandler) compute(r *http.Request) (calc.Snapshot, calc.Dashboard, error) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		return snap, calc.Dashboard{}, err
	}
	d := snap.Dashboard(parseFilter(r, true))
	if d.Orphans > 0 {
		log.Debug().Int("orphans", d.Orphans).Msg("records without employee skipped from dashboard")
	}
	return snap, d, nil
}

func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	snap, d, err := h.compute(r)
	if err != nil {
		serverError(w, err, "load dashboard")
		return
	}

	var maxDaily float64
	for _, day := range d.Daily {
		maxDaily = max(maxDaily, day.Hours)
	}

	h.render(w, r, "dashboard", map[string]interface{}{
		"Dashboard": d,
		"Filter":    d.Filter,
		"Employees": snap.ActiveEmployees(),
		"MaxDaily":  maxDaily,
	})
}

// API returns the dashboard as JSON. Monetary values are never masked here.
func (h *DashboardHandler) API(w http.ResponseWriter, r *http.Request) {
	_, d, err := h.compute(r)
	if err != nil {
		log.Error().Err(err).Msg("load dashboard")
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employee_id": d.Filter.EmployeeID,
		"start_date":  d.Filter.StartDate,
		"end_date":    d.Filter.EndDate,
		"dashboard":   d,
	})
}
