package importer

import (
	"fmt"

	"overtimepay/models"
)

type EmployeeRow struct {
	Line
	Employee models.Employee
	Err      error
}

func (r EmployeeRow) Valid() bool { return r.Err == nil }

// ParseEmployees reads "code, name, salary" lines. Codes must be unique
// against existing employees and against earlier lines of the same paste; a
// code is taken by the first line that uses it even if that line fails later.
func ParseEmployees(text string, existing []models.Employee) []EmployeeRow {
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		e.Normalize()
		taken[e.Code] = true
	}

	var rows []EmployeeRow
	for _, line := range splitLines(text) {
		row := EmployeeRow{Line: line}
		row.Employee, row.Err = parseEmployee(line.Text, taken)
		rows = append(rows, row)
	}
	return rows
}

func parseEmployee(line string, taken map[string]bool) (models.Employee, error) {
	cols := columns(line)
	if len(cols) < 3 {
		return models.Employee{}, fmt.Errorf("%w: expected 3, got %d", ErrColumns, len(cols))
	}
	emp := models.Employee{Code: cols[0], Name: cols[1], IsActive: true}
	emp.Normalize()

	if emp.Code == "" {
		return models.Employee{}, ErrBlankCode
	}
	if taken[emp.Code] {
		return models.Employee{}, fmt.Errorf("%w: %q", ErrDuplicateCode, cols[0])
	}
	taken[emp.Code] = true

	if emp.Name == "" {
		return models.Employee{}, ErrBlankName
	}
	salary, ok := ParseCurrency(cols[2])
	if !ok || salary <= 0 {
		return models.Employee{}, fmt.Errorf("%w: %q", ErrInvalidSalary, cols[2])
	}
	emp.BaseSalary = salary
	return emp, nil
}

// ValidEmployees collects the employees of the rows that parsed.
func ValidEmployees(rows []EmployeeRow) []models.Employee {
	var out []models.Employee
	for _, r := range rows {
		if r.Valid() {
			out = append(out, r.Employee)
		}
	}
	return out
}
