package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"overtimepay/calc"
	"overtimepay/models"
)

var timeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d):([0-5]\d)$`)

type OvertimeRow struct {
	Line
	Record       models.OvertimeRecord
	EmployeeName string
	Err          error
}

func (r OvertimeRow) Valid() bool { return r.Err == nil }

// Hours is the interval of a parsed row, for previews.
func (r OvertimeRow) Hours() float64 {
	return calc.RecordHours(r.Record)
}

// ParseOvertime reads "employee, DD/MM/YYYY, HH:MM:SS, HH:MM:SS, type
// [, observation]" lines. Employees are matched by exact name, ignoring case,
// among active employees only.
func ParseOvertime(text string, employees []models.Employee) []OvertimeRow {
	active := make(map[string]models.Employee, len(employees))
	for _, e := range employees {
		if e.IsActive {
			active[strings.ToUpper(e.Name)] = e
		}
	}

	var rows []OvertimeRow
	for _, line := range splitLines(text) {
		row := OvertimeRow{Line: line}
		row.Record, row.EmployeeName, row.Err = parseOvertime(line.Text, active)
		rows = append(rows, row)
	}
	return rows
}

func parseOvertime(line string, active map[string]models.Employee) (models.OvertimeRecord, string, error) {
	cols := columns(line)
	if len(cols) < 5 {
		return models.OvertimeRecord{}, "", fmt.Errorf("%w: expected 6, got %d", ErrColumns, len(cols))
	}
	name, dateStr, startStr, endStr, typeStr := cols[0], cols[1], cols[2], cols[3], cols[4]
	var observation string
	if len(cols) > 5 {
		observation = cols[5]
	}

	emp, ok := active[strings.ToUpper(name)]
	if !ok {
		return models.OvertimeRecord{}, "", fmt.Errorf("%w: %q", ErrUnknownEmployee, name)
	}

	date, err := parseBRDate(dateStr)
	if err != nil {
		return models.OvertimeRecord{}, "", err
	}

	if !timeRegex.MatchString(startStr) || !timeRegex.MatchString(endStr) {
		return models.OvertimeRecord{}, "", fmt.Errorf("%w: %q or %q", ErrTimeFormat, startStr, endStr)
	}
	if calc.HoursWorked(startStr, endStr) <= 0 {
		return models.OvertimeRecord{}, "", ErrInvalidInterval
	}

	serviceType, ok := models.ParseServiceType(typeStr)
	if !ok {
		return models.OvertimeRecord{}, "", fmt.Errorf("%w: %q", ErrServiceType, typeStr)
	}

	rec := models.OvertimeRecord{
		EmployeeID:  emp.ID,
		Date:        date,
		StartTime:   startStr[:5],
		EndTime:     endStr[:5],
		ServiceType: serviceType,
		Observation: observation,
	}
	rec.Normalize()
	return rec, emp.Name, nil
}

// parseBRDate turns DD/MM/YYYY into YYYY-MM-DD, rejecting days that do not
// exist on the calendar.
func parseBRDate(s string) (string, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrDateFormat, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrDateFormat, s)
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format("2006-01-02"), nil
}

// ValidRecords collects the records of the rows that parsed.
func ValidRecords(rows []OvertimeRow) []models.OvertimeRecord {
	var out []models.OvertimeRecord
	for _, r := range rows {
		if r.Valid() {
			out = append(out, r.Record)
		}
	}
	return out
}
