package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"overtimepay/calc"
	"overtimepay/config"
	"overtimepay/database"
	"overtimepay/export"
	"overtimepay/importer"
	"overtimepay/middleware"
	"overtimepay/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type OvertimeHandler struct {
	pages
	store *database.Store
}

func NewOvertimeHandler(cfg *config.Config, store *database.Store, templates map[string]*template.Template) *OvertimeHandler {
	return &OvertimeHandler{
		pages: pages{config: cfg, templates: templates},
		store: store,
	}
}

type sortHeader struct {
	Title   string
	URL     string
	Arrow   string
	Numeric bool
}

var recordColumns = []struct {
	title   string
	key     calc.SortKey
	numeric bool
}{
	{"Employee", calc.ByEmployeeName, false},
	{"Date", calc.ByDate, false},
	{"Start", calc.ByStartTime, false},
	{"End", calc.ByEndTime, false},
	{"Type", calc.ByServiceType, false},
	{"Observation", calc.ByObservation, false},
	{"Hours", calc.ByHours, true},
	{"Value", calc.ByValue, true},
}

func parseSort(r *http.Request) calc.SortConfig {
	q := r.URL.Query()
	key, ok := calc.ParseSortKey(q.Get("sort"))
	if !ok {
		return calc.DefaultSort
	}
	dir := calc.Ascending
	if calc.Direction(q.Get("dir")) == calc.Descending {
		dir = calc.Descending
	}
	return calc.SortConfig{Key: key, Direction: dir}
}

func sortHeaders(r *http.Request, cfg calc.SortConfig) []sortHeader {
	headers := make([]sortHeader, 0, len(recordColumns))
	for _, col := range recordColumns {
		next := cfg.Toggle(col.key)
		q := r.URL.Query()
		q.Set("sort", string(next.Key))
		q.Set("dir", string(next.Direction))

		arrow := ""
		if cfg.Key == col.key {
			arrow = " ▲"
			if cfg.Direction == calc.Descending {
				arrow = " ▼"
			}
		}
		headers = append(headers, sortHeader{
			Title:   col.title,
			URL:     "/overtime?" + q.Encode(),
			Arrow:   arrow,
			Numeric: col.numeric,
		})
	}
	return headers
}

func recordLinks(r *http.Request) map[string]string {
	q := r.URL.Query()
	q.Del("error")
	q.Del("success")
	withFormat := func(format string) string {
		fq := url.Values{}
		for k, v := range q {
			fq[k] = v
		}
		fq.Set("format", format)
		return "/overtime/export?" + fq.Encode()
	}
	return map[string]string{
		"XLSX":  withFormat("xlsx"),
		"CSV":   withFormat("csv"),
		"Print": "/overtime/print?" + q.Encode(),
	}
}

// views runs the records pipeline for the current query string.
func (h *OvertimeHandler) views(r *http.Request) (calc.Filter, string, calc.SortConfig, []calc.RecordView, error) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		return calc.Filter{}, "", calc.SortConfig{}, nil, err
	}
	f := parseFilter(r, false)
	search := strings.TrimSpace(r.URL.Query().Get("q"))
	cfg := parseSort(r)
	return f, search, cfg, snap.RecordList(f, search, cfg), nil
}

func viewTotals(views []calc.RecordView) (hours, value float64) {
	for _, v := range views {
		hours += v.Hours
		value += v.Value
	}
	return hours, value
}

func (h *OvertimeHandler) List(w http.ResponseWriter, r *http.Request) {
	f, search, cfg, views, err := h.views(r)
	if err != nil {
		serverError(w, err, "load overtime")
		return
	}
	hours, value := viewTotals(views)

	h.render(w, r, "overtime", map[string]interface{}{
		"Filter":     f,
		"Search":     search,
		"Sort":       cfg,
		"Headers":    sortHeaders(r, cfg),
		"Links":      recordLinks(r),
		"Views":      views,
		"TotalHours": hours,
		"TotalValue": value,
	})
}

// selectableEmployees lists active employees plus the one already on the
// record, so editing an entry of a deactivated employee keeps its owner.
func (h *OvertimeHandler) selectableEmployees(r *http.Request, current string) ([]models.Employee, error) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		return nil, err
	}
	var out []models.Employee
	for _, e := range snap.Employees {
		if e.IsActive || e.ID == current {
			out = append(out, e)
		}
	}
	return out, nil
}

func (h *OvertimeHandler) renderForm(w http.ResponseWriter, r *http.Request, rec *models.OvertimeRecord, action string) {
	employees, err := h.selectableEmployees(r, rec.EmployeeID)
	if err != nil {
		serverError(w, err, "list employees")
		return
	}
	h.render(w, r, "overtime-form", map[string]interface{}{
		"Record":    rec,
		"Employees": employees,
		"Action":    action,
	})
}

func (h *OvertimeHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	rec := &models.OvertimeRecord{
		Date:        now().Format("2006-01-02"),
		ServiceType: models.ServiceType60,
	}
	h.renderForm(w, r, rec, "/overtime/new")
}

// recordFromForm validates a single entry with the same messages for
// create and edit.
func recordFromForm(r *http.Request) (models.OvertimeRecord, string) {
	rec := models.OvertimeRecord{
		EmployeeID:  strings.TrimSpace(r.FormValue("employee_id")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		StartTime:   strings.TrimSpace(r.FormValue("start_time")),
		EndTime:     strings.TrimSpace(r.FormValue("end_time")),
		Observation: r.FormValue("observation"),
	}
	if rec.EmployeeID == "" {
		return rec, "Select an employee"
	}
	if _, ok := calc.ParseDate(rec.Date); !ok {
		return rec, "Date is required"
	}
	if calc.HoursWorked(rec.StartTime, rec.EndTime) <= 0 {
		return rec, "Hours must be greater than zero"
	}
	st, ok := models.ParseServiceType(r.FormValue("service_type"))
	if !ok {
		return rec, "Invalid service type"
	}
	rec.ServiceType = st
	return rec, ""
}

func recordError(err error) string {
	if errors.Is(err, database.ErrInvalidRecord) {
		return err.Error()
	}
	return ""
}

func (h *OvertimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/overtime/new", "Invalid form data")
		return
	}

	rec, msg := recordFromForm(r)
	if msg != "" {
		redirectError(w, r, "/overtime/new", msg)
		return
	}
	if err := h.store.CreateRecord(r.Context(), &rec); err != nil {
		if msg := recordError(err); msg != "" {
			redirectError(w, r, "/overtime/new", msg)
			return
		}
		serverError(w, err, "create overtime")
		return
	}
	redirectSuccess(w, r, "/overtime", "Overtime entry created")
}

func (h *OvertimeHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, err, "get overtime")
		return
	}
	h.renderForm(w, r, rec, "/overtime/"+rec.ID+"/edit")
}

func (h *OvertimeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editPath := "/overtime/" + id + "/edit"
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, editPath, "Invalid form data")
		return
	}

	rec, msg := recordFromForm(r)
	if msg != "" {
		redirectError(w, r, editPath, msg)
		return
	}
	rec.ID = id
	if err := h.store.UpdateRecord(r.Context(), &rec); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if msg := recordError(err); msg != "" {
			redirectError(w, r, editPath, msg)
			return
		}
		serverError(w, err, "update overtime")
		return
	}
	redirectSuccess(w, r, "/overtime", "Overtime entry updated")
}

func (h *OvertimeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteRecord(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		redirectError(w, r, "/overtime", "Overtime entry not found")
		return
	}
	if err != nil {
		serverError(w, err, "delete overtime")
		return
	}
	redirectSuccess(w, r, localPath(r.Referer(), "/overtime"), "Overtime entry deleted")
}

// Export writes the filtered, sorted list as XLSX (default) or CSV.
func (h *OvertimeHandler) Export(w http.ResponseWriter, r *http.Request) {
	_, _, _, views, err := h.views(r)
	if err != nil {
		serverError(w, err, "load overtime")
		return
	}
	confidential := isConfidential(r)
	stamp := now().Format("2006-01-02")

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=overtime_"+stamp+".csv")
		if err := export.RecordsCSV(w, views, confidential); err != nil {
			log.Error().Err(err).Msg("export overtime csv")
		}
		return
	}

	body, err := export.RecordsXLSX(views, confidential)
	if err != nil {
		serverError(w, err, "export overtime")
		return
	}
	sendFile(w, export.XLSXContentType, "overtime_"+stamp+".xlsx", body)
}

func (h *OvertimeHandler) Print(w http.ResponseWriter, r *http.Request) {
	f, _, _, views, err := h.views(r)
	if err != nil {
		serverError(w, err, "load overtime")
		return
	}
	hours, value := viewTotals(views)
	h.render(w, r, "overtime-print", map[string]interface{}{
		"Filter":     f,
		"Views":      views,
		"TotalHours": hours,
		"TotalValue": value,
		"Place":      h.place(),
	})
}

func (h *OvertimeHandler) BatchPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "overtime-batch", map[string]interface{}{
		"Data": "",
	})
}

func (h *OvertimeHandler) parseBatch(r *http.Request) ([]importer.OvertimeRow, error) {
	employees, err := h.store.ListEmployees(r.Context(), database.StatusActive)
	if err != nil {
		return nil, err
	}
	return importer.ParseOvertime(r.FormValue("data"), employees), nil
}

func (h *OvertimeHandler) BatchPreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/overtime/batch", "Invalid form data")
		return
	}
	rows, err := h.parseBatch(r)
	if err != nil {
		serverError(w, err, "parse overtime batch")
		return
	}
	h.render(w, r, "overtime-batch", map[string]interface{}{
		"Data":       r.FormValue("data"),
		"Rows":       rows,
		"ValidCount": len(importer.ValidRecords(rows)),
	})
}

func (h *OvertimeHandler) BatchImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/overtime/batch", "Invalid form data")
		return
	}
	rows, err := h.parseBatch(r)
	if err != nil {
		serverError(w, err, "parse overtime batch")
		return
	}
	valid := importer.ValidRecords(rows)
	if len(valid) == 0 {
		redirectError(w, r, "/overtime/batch", "No valid rows to import")
		return
	}

	written, err := h.store.CreateRecords(r.Context(), valid)
	middleware.RecordsImported.Add(float64(written))
	if err != nil {
		log.Error().Err(err).Int("rows", len(valid)).Int("written", written).Msg("overtime batch import")
	} else {
		log.Info().Int("rows", written).Msg("overtime imported")
	}
	redirectBatchResult(w, r, "/overtime/batch", "/overtime", "entries", written, len(valid), err)
}
