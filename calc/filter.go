package calc

import (
	"strings"
	"time"

	"overtimepay/models"
)

// AllEmployees is the employee selector that disables employee filtering.
const AllEmployees = "all"

const dateLayout = "2006-01-02"

// Filter selects records by employee and inclusive date bounds. Empty fields
// impose no constraint.
type Filter struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

func (f Filter) SingleEmployee() bool {
	return f.EmployeeID != "" && f.EmployeeID != AllEmployees
}

// ParseDate reads the calendar day of an ISO date, ignoring any time part,
// as UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FilterRecords returns the records matching f in input order. A bound that
// does not parse is ignored; a record whose date does not parse fails any
// present bound.
func FilterRecords(records []models.OvertimeRecord, f Filter) []models.OvertimeRecord {
	start, hasStart := ParseDate(f.StartDate)
	end, hasEnd := ParseDate(f.EndDate)

	out := make([]models.OvertimeRecord, 0, len(records))
	for _, rec := range records {
		if f.SingleEmployee() && rec.EmployeeID != f.EmployeeID {
			continue
		}
		if hasStart || hasEnd {
			day, ok := ParseDate(rec.Date)
			if !ok {
				continue
			}
			if hasStart && day.Before(start) {
				continue
			}
			if hasEnd && day.After(end) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// SearchRecords keeps records whose resolved employee name contains term,
// ignoring case. Orphaned records never match.
func SearchRecords(records []models.OvertimeRecord, roster Roster, term string) []models.OvertimeRecord {
	term = strings.ToUpper(strings.TrimSpace(term))
	out := make([]models.OvertimeRecord, 0, len(records))
	for _, rec := range records {
		emp, ok := roster[rec.EmployeeID]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToUpper(emp.Name), term) {
			out = append(out, rec)
		}
	}
	return out
}

// MonthRange returns the first and last day of t's month.
func MonthRange(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(dateLayout), last.Format(dateLayout)
}
