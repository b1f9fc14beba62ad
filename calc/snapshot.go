package calc

import "overtimepay/models"

// TopEmployeesLimit is how many employees the dashboard ranking shows.
const TopEmployeesLimit = 5

// Snapshot is an immutable read of the store. Views are recomputed from a
// fresh snapshot every time the data or the filter changes.
type Snapshot struct {
	Employees []models.Employee
	Records   []models.OvertimeRecord
}

func (s Snapshot) Roster() Roster {
	return NewRoster(s.Employees)
}

func (s Snapshot) ActiveEmployees() []models.Employee {
	out := make([]models.Employee, 0, len(s.Employees))
	for _, e := range s.Employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out
}

type Dashboard struct {
	Filter          Filter             `json:"-"`
	ActiveEmployees int                `json:"active_employees"`
	TotalHours      float64            `json:"total_hours"`
	TotalValue      float64            `json:"total_value"`
	Daily           []DayTotal         `json:"daily"`
	SingleEmployee  bool               `json:"single_employee"`
	TopEmployees    []ReceiptSummary   `json:"top_employees,omitempty"`
	ServiceTypes    []ServiceTypeTotal `json:"service_types,omitempty"`
	Orphans         int                `json:"-"`
}

// Dashboard computes the period overview for f. The ranking is shown for all
// employees, the service type split for a single one.
func (s Snapshot) Dashboard(f Filter) Dashboard {
	roster := s.Roster()
	records := FilterRecords(s.Records, f)
	hours, value := Totals(records, roster)

	d := Dashboard{
		Filter:          f,
		ActiveEmployees: len(s.ActiveEmployees()),
		TotalHours:      hours,
		TotalValue:      value,
		Daily:           AggregateByDay(records),
		SingleEmployee:  f.SingleEmployee(),
		Orphans:         CountOrphans(records, roster),
	}
	if d.SingleEmployee {
		d.ServiceTypes = AggregateByServiceType(records)
	} else {
		d.TopEmployees = TopEmployees(records, s.Employees, TopEmployeesLimit)
	}
	return d
}

// Receipts aggregates the filtered period per employee, narrows by name
// search and orders by name then code. It also reports how many in-period
// records reference a missing employee and were left out.
func (s Snapshot) Receipts(f Filter, search string) ([]ReceiptSummary, int) {
	roster := s.Roster()
	records := FilterRecords(s.Records, f)
	summaries := SearchSummaries(SummaryList(aggregateByEmployee(records, roster)), search)
	SortSummaries(summaries, SummaryByCode, Ascending)
	SortSummaries(summaries, SummaryByName, Ascending)
	return summaries, CountOrphans(records, roster)
}

// RecordView is a record with its derived columns resolved.
type RecordView struct {
	models.OvertimeRecord
	EmployeeName string  `json:"employee_name"`
	Hours        float64 `json:"hours"`
	Value        float64 `json:"value"`
}

func (s Snapshot) Views(records []models.OvertimeRecord) []RecordView {
	return Views(records, s.Roster())
}

func Views(records []models.OvertimeRecord, roster Roster) []RecordView {
	out := make([]RecordView, 0, len(records))
	for _, rec := range records {
		out = append(out, RecordView{
			OvertimeRecord: rec,
			EmployeeName:   roster.Name(rec.EmployeeID),
			Hours:          RecordHours(rec),
			Value:          RecordValue(rec, roster),
		})
	}
	return out
}

// RecordList applies the records screen pipeline: period filter, name
// search, then sort.
func (s Snapshot) RecordList(f Filter, search string, cfg SortConfig) []RecordView {
	roster := s.Roster()
	records := FilterRecords(s.Records, f)
	records = SearchRecords(records, roster, search)
	return Views(SortRecords(records, roster, cfg), roster)
}
