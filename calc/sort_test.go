package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overtimepay/models"
)

func sortFixture() ([]models.OvertimeRecord, Roster) {
	roster := NewRoster([]models.Employee{
		{ID: "a", Name: "bruno", BaseSalary: 2200},
		{ID: "b", Name: "Ana", BaseSalary: 4400},
		{ID: "c", Name: "ANA", BaseSalary: 2200},
	})
	records := []models.OvertimeRecord{
		{ID: "1", EmployeeID: "a", Date: "2024-01-03", StartTime: "18:00", EndTime: "20:00", ServiceType: models.ServiceType60, Observation: "B"},
		{ID: "2", EmployeeID: "b", Date: "2024-01-01", StartTime: "18:00", EndTime: "19:00", ServiceType: models.ServiceType100, Observation: "a"},
		{ID: "3", EmployeeID: "c", Date: "2024-01-03", StartTime: "17:00", EndTime: "20:00", ServiceType: models.ServiceType60, Observation: "C"},
		{ID: "4", EmployeeID: "a", Date: "2024-01-02", StartTime: "18:00", EndTime: "19:00", ServiceType: models.ServiceType60, Observation: "a"},
	}
	return records, roster
}

func TestSortRecordsByDateStable(t *testing.T) {
	records, roster := sortFixture()

	asc := SortRecords(records, roster, SortConfig{Key: ByDate, Direction: Ascending})
	assert.Equal(t, []string{"2", "4", "1", "3"}, idsOf(asc))

	desc := SortRecords(records, roster, SortConfig{Key: ByDate, Direction: Descending})
	assert.Equal(t, []string{"1", "3", "4", "2"}, idsOf(desc))
}

func TestSortRecordsByEmployeeNameCaseInsensitive(t *testing.T) {
	records, roster := sortFixture()
	got := SortRecords(records, roster, SortConfig{Key: ByEmployeeName, Direction: Ascending})
	// "Ana" and "ANA" tie and keep input order
	assert.Equal(t, []string{"2", "3", "1", "4"}, idsOf(got))
}

func TestSortRecordsByObservation(t *testing.T) {
	records, roster := sortFixture()
	got := SortRecords(records, roster, SortConfig{Key: ByObservation, Direction: Ascending})
	assert.Equal(t, []string{"2", "4", "1", "3"}, idsOf(got))
}

func TestSortRecordsNumericKeys(t *testing.T) {
	records, roster := sortFixture()

	byHours := SortRecords(records, roster, SortConfig{Key: ByHours, Direction: Descending})
	assert.Equal(t, []string{"3", "1", "2", "4"}, idsOf(byHours))

	// values: 1=32, 2=40, 3=48, 4=16
	byValue := SortRecords(records, roster, SortConfig{Key: ByValue, Direction: Ascending})
	assert.Equal(t, []string{"4", "1", "2", "3"}, idsOf(byValue))
}

func TestSortRecordsDoesNotMutate(t *testing.T) {
	records, roster := sortFixture()
	_ = SortRecords(records, roster, SortConfig{Key: ByHours, Direction: Ascending})
	assert.Equal(t, "1", records[0].ID)
}

func TestSortConfigToggle(t *testing.T) {
	cfg := DefaultSort
	cfg = cfg.Toggle(ByDate)
	assert.Equal(t, SortConfig{Key: ByDate, Direction: Ascending}, cfg)
	cfg = cfg.Toggle(ByDate)
	assert.Equal(t, SortConfig{Key: ByDate, Direction: Descending}, cfg)
	cfg = cfg.Toggle(ByHours)
	assert.Equal(t, SortConfig{Key: ByHours, Direction: Ascending}, cfg)
}

func TestParseSortKey(t *testing.T) {
	k, ok := ParseSortKey("employeeName")
	require.True(t, ok)
	assert.Equal(t, ByEmployeeName, k)
	_, ok = ParseSortKey("salary")
	assert.False(t, ok)
}

func TestSortSummaries(t *testing.T) {
	summaries := []ReceiptSummary{
		{EmployeeID: "1", EmployeeName: "CARLA", TotalHours: 2},
		{EmployeeID: "2", EmployeeName: "ana", TotalHours: 5},
		{EmployeeID: "3", EmployeeName: "Bia", TotalHours: 2},
	}
	SortSummaries(summaries, SummaryByName, Ascending)
	assert.Equal(t, "ana", summaries[0].EmployeeName)
	assert.Equal(t, "CARLA", summaries[2].EmployeeName)

	SortSummaries(summaries, SummaryByHours, Descending)
	assert.Equal(t, "2", summaries[0].EmployeeID)
	// Bia before CARLA from the previous name order
	assert.Equal(t, "3", summaries[1].EmployeeID)
}
