package handlers

import (
	"errors"
	"html/template"
	"net/http"

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

type EmployeeHandler struct {
	pages
	store *database.Store
}

func NewEmployeeHandler(cfg *config.Config, store *database.Store, templates map[string]*template.Template) *EmployeeHandler {
	return &EmployeeHandler{
		pages: pages{config: cfg, templates: templates},
		store: store,
	}
}

// employeeRow is an employee with its rate table.
type employeeRow struct {
	Employee models.Employee
	Hourly   float64
	Rate60   float64
	Rate100  float64
}

func statusParam(r *http.Request) string {
	switch s := r.URL.Query().Get("status"); s {
	case database.StatusInactive, database.StatusAll:
		return s
	}
	return database.StatusActive
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	status := statusParam(r)
	employees, err := h.store.ListEmployees(r.Context(), status)
	if err != nil {
		serverError(w, err, "list employees")
		return
	}

	rows := make([]employeeRow, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, employeeRow{
			Employee: e,
			Hourly:   calc.HourlyRate(e.BaseSalary),
			Rate60:   calc.RateFor(e.BaseSalary, models.ServiceType60),
			Rate100:  calc.RateFor(e.BaseSalary, models.ServiceType100),
		})
	}

	h.render(w, r, "employees", map[string]interface{}{
		"Status": status,
		"Rows":   rows,
	})
}

func employeeFromForm(r *http.Request) (models.Employee, string) {
	e := models.Employee{
		Code: r.FormValue("code"),
		Name: r.FormValue("name"),
	}
	salary, ok := importer.ParseCurrency(r.FormValue("base_salary"))
	if !ok || salary <= 0 {
		return e, "Base salary must be greater than zero"
	}
	e.BaseSalary = salary
	return e, ""
}

func employeeError(err error) string {
	switch {
	case errors.Is(err, database.ErrDuplicateCode):
		return "Employee code already in use"
	case errors.Is(err, database.ErrInvalidEmployee):
		return err.Error()
	}
	return ""
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/employees", "Invalid form data")
		return
	}

	e, msg := employeeFromForm(r)
	if msg != "" {
		redirectError(w, r, "/employees", msg)
		return
	}
	e.IsActive = true

	if err := h.store.CreateEmployee(r.Context(), &e); err != nil {
		if msg := employeeError(err); msg != "" {
			redirectError(w, r, "/employees", msg)
			return
		}
		serverError(w, err, "create employee")
		return
	}
	redirectSuccess(w, r, "/employees", "Employee "+e.Name+" created")
}

func (h *EmployeeHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, err, "get employee")
		return
	}
	h.render(w, r, "employee-edit", map[string]interface{}{
		"Employee": e,
	})
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editPath := "/employees/" + id + "/edit"
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, editPath, "Invalid form data")
		return
	}

	e, msg := employeeFromForm(r)
	if msg != "" {
		redirectError(w, r, editPath, msg)
		return
	}
	e.ID = id

	if err := h.store.UpdateEmployee(r.Context(), &e); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if msg := employeeError(err); msg != "" {
			redirectError(w, r, editPath, msg)
			return
		}
		serverError(w, err, "update employee")
		return
	}
	redirectSuccess(w, r, "/employees", "Employee "+e.Name+" updated")
}

// ToggleActive flips the active flag. Records of inactive employees keep
// counting; inactive employees only stop appearing in entry selectors.
func (h *EmployeeHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, err, "get employee")
		return
	}
	if err := h.store.SetEmployeeActive(r.Context(), e.ID, !e.IsActive); err != nil {
		serverError(w, err, "toggle employee")
		return
	}
	state := "activated"
	if e.IsActive {
		state = "deactivated"
	}
	redirectSuccess(w, r, localPath(r.Referer(), "/employees"), "Employee "+e.Name+" "+state)
}

func (h *EmployeeHandler) Export(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context(), statusParam(r))
	if err != nil {
		serverError(w, err, "list employees")
		return
	}
	body, err := export.EmployeesXLSX(employees, isConfidential(r))
	if err != nil {
		serverError(w, err, "export employees")
		return
	}
	sendFile(w, export.XLSXContentType, "employees.xlsx", body)
}

func (h *EmployeeHandler) BatchPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "employees-batch", map[string]interface{}{
		"Data": "",
	})
}

func (h *EmployeeHandler) parseBatch(r *http.Request) ([]importer.EmployeeRow, error) {
	existing, err := h.store.ListEmployees(r.Context(), database.StatusAll)
	if err != nil {
		return nil, err
	}
	return importer.ParseEmployees(r.FormValue("data"), existing), nil
}

func (h *EmployeeHandler) BatchPreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/employees/batch", "Invalid form data")
		return
	}
	rows, err := h.parseBatch(r)
	if err != nil {
		serverError(w, err, "parse employee batch")
		return
	}
	h.render(w, r, "employees-batch", map[string]interface{}{
		"Data":       r.FormValue("data"),
		"Rows":       rows,
		"ValidCount": len(importer.ValidEmployees(rows)),
	})
}

// BatchImport re-parses the pasted text and writes the valid rows.
func (h *EmployeeHandler) BatchImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, "/employees/batch", "Invalid form data")
		return
	}
	rows, err := h.parseBatch(r)
	if err != nil {
		serverError(w, err, "parse employee batch")
		return
	}
	valid := importer.ValidEmployees(rows)
	if len(valid) == 0 {
		redirectError(w, r, "/employees/batch", "No valid rows to import")
		return
	}

	written, err := h.store.CreateEmployees(r.Context(), valid)
	middleware.EmployeesImported.Add(float64(written))
	if err != nil {
		log.Error().Err(err).Int("rows", len(valid)).Int("written", written).Msg("employee batch import")
	} else {
		log.Info().Int("rows", written).Msg("employees imported")
	}
	redirectBatchResult(w, r, "/employees/batch", "/employees", "employees", written, len(valid), err)
}
