package calc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overtimepay/models"
)

func employeeA() models.Employee {
	return models.Employee{ID: "emp-a", Code: "A1", Name: "ALICE", BaseSalary: 2200, IsActive: true}
}

func scenarioRecords() []models.OvertimeRecord {
	return []models.OvertimeRecord{
		{ID: "r1", EmployeeID: "emp-a", Date: "2024-01-05", StartTime: "18:00", EndTime: "20:00", ServiceType: models.ServiceType60},
		{ID: "r2", EmployeeID: "emp-a", Date: "2024-01-06", StartTime: "19:00", EndTime: "21:00", ServiceType: models.ServiceType100},
	}
}

func TestAggregateByEmployeeScenario(t *testing.T) {
	got := AggregateByEmployee(scenarioRecords(), []models.Employee{employeeA()})
	require.Len(t, got, 1)

	s := got["emp-a"]
	assert.Equal(t, "A1", s.EmployeeCode)
	assert.Equal(t, "ALICE", s.EmployeeName)
	assert.InDelta(t, 4.0, s.TotalHours, 1e-9)
	assert.InDelta(t, 72.0, s.TotalValue, 1e-9)
	assert.Equal(t, "2024-01-06", s.LastDate)
}

func TestAggregateByEmployeeSkipsOrphans(t *testing.T) {
	records := append(scenarioRecords(), models.OvertimeRecord{
		ID: "r3", EmployeeID: "gone", Date: "2024-01-07", StartTime: "10:00", EndTime: "12:00", ServiceType: models.ServiceType60,
	})
	got := AggregateByEmployee(records, []models.Employee{employeeA()})
	require.Len(t, got, 1)
	assert.InDelta(t, 4.0, got["emp-a"].TotalHours, 1e-9)
	assert.Equal(t, 1, CountOrphans(records, NewRoster([]models.Employee{employeeA()})))
}

func TestAggregateByEmployeeOrderIndependent(t *testing.T) {
	employees := []models.Employee{
		employeeA(),
		{ID: "emp-b", Code: "B1", Name: "BRUNO", BaseSalary: 3137.5, IsActive: true},
	}
	var records []models.OvertimeRecord
	starts := []string{"17:00", "17:10", "18:20", "19:05", "06:00"}
	ends := []string{"19:13", "20:00", "21:47", "22:00", "07:33"}
	for i := 0; i < 40; i++ {
		emp := employees[i%2]
		st := models.ServiceType60
		if i%3 == 0 {
			st = models.ServiceType100
		}
		records = append(records, models.OvertimeRecord{
			EmployeeID:  emp.ID,
			Date:        "2024-02-1" + string(rune('0'+i%10)),
			StartTime:   starts[i%len(starts)],
			EndTime:     ends[i%len(ends)],
			ServiceType: st,
		})
	}

	want := AggregateByEmployee(records, employees)
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 10; round++ {
		shuffled := append([]models.OvertimeRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := AggregateByEmployee(shuffled, employees)
		require.Len(t, got, len(want))
		for id, w := range want {
			assert.InDelta(t, w.TotalHours, got[id].TotalHours, 1e-9)
			assert.InDelta(t, w.TotalValue, got[id].TotalValue, 1e-9)
			assert.Equal(t, w.LastDate, got[id].LastDate)
		}
	}
}

func TestAggregateByDay(t *testing.T) {
	records := []models.OvertimeRecord{
		{EmployeeID: "x", Date: "2024-01-06", StartTime: "19:00", EndTime: "21:00"},
		{EmployeeID: "y", Date: "2024-01-05", StartTime: "18:00", EndTime: "20:00"},
		{EmployeeID: "x", Date: "2024-01-06", StartTime: "08:00", EndTime: "08:30"},
	}
	got := AggregateByDay(records)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-05", got[0].Date)
	assert.InDelta(t, 2.0, got[0].Hours, 1e-9)
	assert.Equal(t, "2024-01-06", got[1].Date)
	assert.InDelta(t, 2.5, got[1].Hours, 1e-9)
}

func TestAggregateByServiceType(t *testing.T) {
	got := AggregateByServiceType(scenarioRecords())
	require.Len(t, got, 2)
	assert.Equal(t, models.ServiceType60, got[0].ServiceType)
	assert.InDelta(t, 2.0, got[0].Hours, 1e-9)

	only60 := AggregateByServiceType(scenarioRecords()[:1])
	require.Len(t, only60, 1)
	assert.Equal(t, models.ServiceType60, only60[0].ServiceType)
}

func TestTopEmployees(t *testing.T) {
	var employees []models.Employee
	var records []models.OvertimeRecord
	for i, name := range []string{"ANA", "BIA", "CAIO", "DUDA", "EVA", "FABIO", "GUI"} {
		id := "e" + name
		employees = append(employees, models.Employee{ID: id, Code: name, Name: name, BaseSalary: 2200, IsActive: true})
		if name == "GUI" {
			// zero-hour record
			records = append(records, models.OvertimeRecord{EmployeeID: id, Date: "2024-03-01", StartTime: "10:00", EndTime: "10:00"})
			continue
		}
		end := []string{"11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}[i]
		records = append(records, models.OvertimeRecord{EmployeeID: id, Date: "2024-03-01", StartTime: "10:00", EndTime: end, ServiceType: models.ServiceType60})
	}

	top := TopEmployees(records, employees, 5)
	require.Len(t, top, 5)
	assert.Equal(t, "FABIO", top[0].EmployeeName)
	assert.Equal(t, "BIA", top[4].EmployeeName)

	assert.Empty(t, TopEmployees(records[6:], employees, 5))
}

func TestTopEmployeesDropsHoursRoundingToZero(t *testing.T) {
	employees := []models.Employee{
		{ID: "e1", Code: "A", Name: "ANA", BaseSalary: 2200, IsActive: true},
		{ID: "e2", Code: "B", Name: "BIA", BaseSalary: 2200, IsActive: true},
	}
	records := []models.OvertimeRecord{
		{EmployeeID: "e1", Date: "2024-03-01", StartTime: "10:00", EndTime: "10:02", ServiceType: models.ServiceType60},
		{EmployeeID: "e2", Date: "2024-03-01", StartTime: "10:00", EndTime: "10:06", ServiceType: models.ServiceType60},
	}

	top := TopEmployees(records, employees, 5)
	require.Len(t, top, 1)
	assert.Equal(t, "BIA", top[0].EmployeeName)

	types := AggregateByServiceType(records[:1])
	assert.Empty(t, types)
}

func TestSumSummaries(t *testing.T) {
	summaries := []ReceiptSummary{
		{EmployeeID: "a", TotalHours: 1, TotalValue: 10},
		{EmployeeID: "b", TotalHours: 2, TotalValue: 20},
	}
	h, v := SumSummaries(summaries, nil)
	assert.InDelta(t, 3.0, h, 1e-9)
	assert.InDelta(t, 30.0, v, 1e-9)

	h, v = SumSummaries(summaries, map[string]bool{"b": true})
	assert.InDelta(t, 2.0, h, 1e-9)
	assert.InDelta(t, 20.0, v, 1e-9)
}

func TestReceiptPages(t *testing.T) {
	summaries := make([]ReceiptSummary, 9)
	pages := ReceiptPages(summaries, 4)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 4)
	assert.Len(t, pages[2], 1)
	assert.Empty(t, ReceiptPages(nil, 4))
}
