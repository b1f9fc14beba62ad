package calc

import (
	"math"
	"slices"
	"strings"

	"overtimepay/models"
)

// ReceiptSummary totals one employee's overtime over a filtered period.
type ReceiptSummary struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	TotalHours   float64 `json:"total_hours"`
	TotalValue   float64 `json:"total_value"`
	LastDate     string  `json:"last_date"`
}

// AggregateByEmployee groups records per employee. Records whose employee is
// not in the roster are skipped.
func AggregateByEmployee(records []models.OvertimeRecord, employees []models.Employee) map[string]ReceiptSummary {
	return aggregateByEmployee(records, NewRoster(employees))
}

func aggregateByEmployee(records []models.OvertimeRecord, roster Roster) map[string]ReceiptSummary {
	out := make(map[string]ReceiptSummary)
	for _, rec := range records {
		emp, ok := roster[rec.EmployeeID]
		if !ok {
			continue
		}
		hours := RecordHours(rec)
		value := OvertimeValue(emp.BaseSalary, hours, rec.ServiceType)

		s, seen := out[emp.ID]
		if !seen {
			s = ReceiptSummary{
				EmployeeID:   emp.ID,
				EmployeeCode: emp.Code,
				EmployeeName: emp.Name,
				LastDate:     rec.Date,
			}
		}
		s.TotalHours += hours
		s.TotalValue += value
		if rec.Date > s.LastDate {
			s.LastDate = rec.Date
		}
		out[emp.ID] = s
	}
	return out
}

// CountOrphans reports how many records reference an employee missing from
// the roster.
func CountOrphans(records []models.OvertimeRecord, roster Roster) int {
	var n int
	for _, rec := range records {
		if _, ok := roster[rec.EmployeeID]; !ok {
			n++
		}
	}
	return n
}

type DayTotal struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// AggregateByDay sums hours per date, ascending by date.
func AggregateByDay(records []models.OvertimeRecord) []DayTotal {
	byDate := make(map[string]float64)
	for _, rec := range records {
		byDate[rec.Date] += RecordHours(rec)
	}
	out := make([]DayTotal, 0, len(byDate))
	for date, hours := range byDate {
		out = append(out, DayTotal{Date: date, Hours: hours})
	}
	slices.SortFunc(out, func(a, b DayTotal) int {
		return compareDates(a.Date, b.Date)
	})
	return out
}

type ServiceTypeTotal struct {
	ServiceType models.ServiceType `json:"service_type"`
	Hours       float64            `json:"hours"`
}

// AggregateByServiceType sums hours per service type, 60% first. Types with
// no hours are left out.
func AggregateByServiceType(records []models.OvertimeRecord) []ServiceTypeTotal {
	totals := []ServiceTypeTotal{
		{ServiceType: models.ServiceType60},
		{ServiceType: models.ServiceType100},
	}
	for _, rec := range records {
		for i := range totals {
			if totals[i].ServiceType == rec.ServiceType {
				totals[i].Hours += RecordHours(rec)
			}
		}
	}
	return slices.DeleteFunc(totals, func(t ServiceTypeTotal) bool { return !shownHours(t.Hours) })
}

// Totals sums hours and value of records whose employee is known.
func Totals(records []models.OvertimeRecord, roster Roster) (hours, value float64) {
	for _, rec := range records {
		emp, ok := roster[rec.EmployeeID]
		if !ok {
			continue
		}
		h := RecordHours(rec)
		hours += h
		value += OvertimeValue(emp.BaseSalary, h, rec.ServiceType)
	}
	return hours, value
}

// SumSummaries totals the summaries whose employee id is in selected. A nil
// selection sums all of them.
func SumSummaries(summaries []ReceiptSummary, selected map[string]bool) (hours, value float64) {
	for _, s := range summaries {
		if selected != nil && !selected[s.EmployeeID] {
			continue
		}
		hours += s.TotalHours
		value += s.TotalValue
	}
	return hours, value
}

// TopEmployees ranks employees by hours, highest first, keeping at most n
// and dropping anyone with no hours.
func TopEmployees(records []models.OvertimeRecord, employees []models.Employee, n int) []ReceiptSummary {
	summaries := SummaryList(AggregateByEmployee(records, employees))
	// map iteration is random; fix the input order before the stable sort
	SortSummaries(summaries, SummaryByName, Ascending)
	SortSummaries(summaries, SummaryByHours, Descending)
	if n >= 0 && len(summaries) > n {
		summaries = summaries[:n]
	}
	return slices.DeleteFunc(summaries, func(s ReceiptSummary) bool { return !shownHours(s.TotalHours) })
}

// shownHours reports whether h survives the one-decimal rounding of chart
// labels.
func shownHours(h float64) bool {
	return math.Round(h*10)/10 > 0
}

// SummaryList flattens an aggregation result.
func SummaryList(m map[string]ReceiptSummary) []ReceiptSummary {
	out := make([]ReceiptSummary, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	return out
}

// SearchSummaries keeps summaries whose employee name contains term,
// ignoring case.
func SearchSummaries(summaries []ReceiptSummary, term string) []ReceiptSummary {
	term = strings.ToUpper(strings.TrimSpace(term))
	if term == "" {
		return summaries
	}
	out := make([]ReceiptSummary, 0, len(summaries))
	for _, s := range summaries {
		if strings.Contains(strings.ToUpper(s.EmployeeName), term) {
			out = append(out, s)
		}
	}
	return out
}

// ReceiptPages chunks summaries into printable pages of perPage receipts.
func ReceiptPages(summaries []ReceiptSummary, perPage int) [][]ReceiptSummary {
	if perPage <= 0 {
		perPage = 1
	}
	var pages [][]ReceiptSummary
	for start := 0; start < len(summaries); start += perPage {
		end := min(start+perPage, len(summaries))
		pages = append(pages, summaries[start:end])
	}
	return pages
}
