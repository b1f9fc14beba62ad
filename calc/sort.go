package calc

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"overtimepay/models"
)

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortKey names a record column, direct or derived.
type SortKey string

const (
	ByDate         SortKey = "date"
	ByStartTime    SortKey = "startTime"
	ByEndTime      SortKey = "endTime"
	ByServiceType  SortKey = "serviceType"
	ByObservation  SortKey = "observation"
	ByEmployeeName SortKey = "employeeName"
	ByHours        SortKey = "hours"
	ByValue        SortKey = "value"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case ByDate, ByStartTime, ByEndTime, ByServiceType, ByObservation, ByEmployeeName, ByHours, ByValue:
		return k, true
	}
	return "", false
}

type SortConfig struct {
	Key       SortKey
	Direction Direction
}

// DefaultSort lists the newest records first.
var DefaultSort = SortConfig{Key: ByDate, Direction: Descending}

// Toggle is the column-header click: the active ascending key flips to
// descending, anything else starts ascending.
func (c SortConfig) Toggle(key SortKey) SortConfig {
	if c.Key == key && c.Direction == Ascending {
		return SortConfig{Key: key, Direction: Descending}
	}
	return SortConfig{Key: key, Direction: Ascending}
}

func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.IgnoreDiacritics)
}

func compareDates(a, b string) int {
	da, okA := ParseDate(a)
	db, okB := ParseDate(b)
	if okA && okB {
		return da.Compare(db)
	}
	return strings.Compare(a, b)
}

func applyDirection(c int, dir Direction) int {
	if dir == Descending {
		return -c
	}
	return c
}

// SortRecords returns a sorted copy of records. The sort is stable, so equal
// keys keep their input order.
func SortRecords(records []models.OvertimeRecord, roster Roster, cfg SortConfig) []models.OvertimeRecord {
	out := slices.Clone(records)
	coll := newCollator()

	text := func(r models.OvertimeRecord) string {
		switch cfg.Key {
		case ByStartTime:
			return r.StartTime
		case ByEndTime:
			return r.EndTime
		case ByServiceType:
			return string(r.ServiceType)
		case ByObservation:
			return r.Observation
		case ByEmployeeName:
			return roster.Name(r.EmployeeID)
		}
		return ""
	}

	slices.SortStableFunc(out, func(a, b models.OvertimeRecord) int {
		var c int
		switch cfg.Key {
		case ByDate:
			c = compareDates(a.Date, b.Date)
		case ByHours:
			c = cmp.Compare(RecordHours(a), RecordHours(b))
		case ByValue:
			c = cmp.Compare(RecordValue(a, roster), RecordValue(b, roster))
		default:
			c = coll.CompareString(text(a), text(b))
		}
		return applyDirection(c, cfg.Direction)
	})
	return out
}

type SummaryKey string

const (
	SummaryByName     SummaryKey = "name"
	SummaryByCode     SummaryKey = "code"
	SummaryByHours    SummaryKey = "hours"
	SummaryByValue    SummaryKey = "value"
	SummaryByLastDate SummaryKey = "lastDate"
)

// SortSummaries sorts in place, stable, with the same comparison rules as
// SortRecords.
func SortSummaries(summaries []ReceiptSummary, key SummaryKey, dir Direction) {
	coll := newCollator()
	slices.SortStableFunc(summaries, func(a, b ReceiptSummary) int {
		var c int
		switch key {
		case SummaryByHours:
			c = cmp.Compare(a.TotalHours, b.TotalHours)
		case SummaryByValue:
			c = cmp.Compare(a.TotalValue, b.TotalValue)
		case SummaryByLastDate:
			c = compareDates(a.LastDate, b.LastDate)
		case SummaryByCode:
			c = coll.CompareString(a.EmployeeCode, b.EmployeeCode)
		default:
			c = coll.CompareString(a.EmployeeName, b.EmployeeName)
		}
		return applyDirection(c, dir)
	})
}
