package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"overtimepay/calc"
	"overtimepay/config"
	"overtimepay/database"
	"overtimepay/export"
	"overtimepay/middleware"

	"github.com/rs/zerolog/log"
)

type ReceiptHandler struct {
	pages
	store *database.Store
}

func NewReceiptHandler(cfg *config.Config, store *database.Store, templates map[string]*template.Template) *ReceiptHandler {
	return &ReceiptHandler{
		pages: pages{config: cfg, templates: templates},
		store: store,
	}
}

type receiptSet struct {
	Filter    calc.Filter
	Search    string
	Summaries []calc.ReceiptSummary
	Selected  map[string]bool
}

// chosen returns the selected summaries, all of them when nothing is
// selected.
func (s receiptSet) chosen() []calc.ReceiptSummary {
	if len(s.Selected) == 0 {
		return s.Summaries
	}
	out := make([]calc.ReceiptSummary, 0, len(s.Selected))
	for _, sum := range s.Summaries {
		if s.Selected[sum.EmployeeID] {
			out = append(out, sum)
		}
	}
	return out
}

func (h *ReceiptHandler) load(r *http.Request) (receiptSet, error) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		return receiptSet{}, err
	}
	q := r.URL.Query()
	set := receiptSet{
		Filter:   parseFilter(r, true),
		Search:   strings.TrimSpace(q.Get("q")),
		Selected: map[string]bool{},
	}
	summaries, orphans := snap.Receipts(set.Filter, set.Search)
	set.Summaries = summaries
	if orphans > 0 {
		log.Debug().Int("orphans", orphans).Msg("records without employee skipped from receipts")
	}

	listed := make(map[string]bool, len(set.Summaries))
	for _, s := range set.Summaries {
		listed[s.EmployeeID] = true
	}
	for _, id := range q["selected"] {
		if listed[id] {
			set.Selected[id] = true
		}
	}
	return set, nil
}

func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	set, err := h.load(r)
	if err != nil {
		serverError(w, err, "load receipts")
		return
	}
	totalHours, totalValue := calc.SumSummaries(set.Summaries, nil)
	var selHours, selValue float64
	if len(set.Selected) > 0 {
		selHours, selValue = calc.SumSummaries(set.Summaries, set.Selected)
	}

	h.render(w, r, "receipts", map[string]interface{}{
		"Filter":        set.Filter,
		"Search":        set.Search,
		"Summaries":     set.Summaries,
		"Selected":      set.Selected,
		"SelectedCount": len(set.Selected),
		"TotalHours":    totalHours,
		"TotalValue":    totalValue,
		"SelectedHours": selHours,
		"SelectedValue": selValue,
	})
}

// Print renders the selected receipts, a fixed number per page.
func (h *ReceiptHandler) Print(w http.ResponseWriter, r *http.Request) {
	set, err := h.load(r)
	if err != nil {
		serverError(w, err, "load receipts")
		return
	}
	if len(set.Selected) == 0 {
		back := "/receipts"
		q := r.URL.Query()
		q.Del("selected")
		if len(q) > 0 {
			back += "?" + q.Encode()
		}
		redirectError(w, r, back, "Select at least one employee to print receipts")
		return
	}

	chosen := set.chosen()
	middleware.ReceiptsPrinted.Add(float64(len(chosen)))
	h.render(w, r, "receipts-print", map[string]interface{}{
		"Pages": calc.ReceiptPages(chosen, h.config.ReceiptsPerPage),
		"Place": h.place(),
	})
}

func (h *ReceiptHandler) Export(w http.ResponseWriter, r *http.Request) {
	set, err := h.load(r)
	if err != nil {
		serverError(w, err, "load receipts")
		return
	}
	chosen := set.chosen()
	confidential := isConfidential(r)
	stamp := now().Format("2006-01-02")

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=receipts_"+stamp+".csv")
		if err := export.ReceiptsCSV(w, chosen, confidential); err != nil {
			log.Error().Err(err).Msg("export receipts csv")
		}
		return
	}

	body, err := export.ReceiptsXLSX(chosen, confidential)
	if err != nil {
		serverError(w, err, "export receipts")
		return
	}
	sendFile(w, export.XLSXContentType, "receipts_"+stamp+".xlsx", body)
}

// API returns the receipt summaries as JSON.
func (h *ReceiptHandler) API(w http.ResponseWriter, r *http.Request) {
	set, err := h.load(r)
	if err != nil {
		log.Error().Err(err).Msg("load receipts")
		writeError(w, http.StatusInternalServerError, "failed to load receipts")
		return
	}
	hours, value := calc.SumSummaries(set.Summaries, nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"start_date":  set.Filter.StartDate,
		"end_date":    set.Filter.EndDate,
		"receipts":    set.Summaries,
		"total_hours": hours,
		"total_value": value,
	})
}
