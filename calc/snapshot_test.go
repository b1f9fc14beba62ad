package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overtimepay/models"
)

func scenarioSnapshot() Snapshot {
	return Snapshot{
		Employees: []models.Employee{
			employeeA(),
			{ID: "emp-b", Code: "B1", Name: "BRUNO", BaseSalary: 4400, IsActive: false},
		},
		Records: append(scenarioRecords(),
			models.OvertimeRecord{ID: "r3", EmployeeID: "emp-b", Date: "2024-01-05", StartTime: "08:00", EndTime: "09:00", ServiceType: models.ServiceType100},
			models.OvertimeRecord{ID: "r4", EmployeeID: "ghost", Date: "2024-01-05", StartTime: "08:00", EndTime: "12:00", ServiceType: models.ServiceType100},
		),
	}
}

func TestSnapshotDashboardAllEmployees(t *testing.T) {
	d := scenarioSnapshot().Dashboard(Filter{EmployeeID: AllEmployees, StartDate: "2024-01-01", EndDate: "2024-01-31"})

	assert.Equal(t, 1, d.ActiveEmployees)
	assert.InDelta(t, 5.0, d.TotalHours, 1e-9)
	assert.InDelta(t, 72.0+40.0, d.TotalValue, 1e-9)
	assert.Equal(t, 1, d.Orphans)
	assert.False(t, d.SingleEmployee)
	assert.Nil(t, d.ServiceTypes)

	require.Len(t, d.TopEmployees, 2)
	assert.Equal(t, "ALICE", d.TopEmployees[0].EmployeeName)

	// orphan hours still count per day
	require.Len(t, d.Daily, 2)
	assert.Equal(t, DayTotal{Date: "2024-01-05", Hours: 7}, d.Daily[0])
	assert.Equal(t, DayTotal{Date: "2024-01-06", Hours: 2}, d.Daily[1])
}

func TestSnapshotDashboardSingleEmployee(t *testing.T) {
	d := scenarioSnapshot().Dashboard(Filter{EmployeeID: "emp-a"})

	assert.True(t, d.SingleEmployee)
	assert.Nil(t, d.TopEmployees)
	require.Len(t, d.ServiceTypes, 2)
	assert.InDelta(t, 2.0, d.ServiceTypes[1].Hours, 1e-9)
	assert.InDelta(t, 72.0, d.TotalValue, 1e-9)
}

func TestSnapshotReceipts(t *testing.T) {
	snap := scenarioSnapshot()

	all, orphans := snap.Receipts(Filter{}, "")
	require.Len(t, all, 2)
	assert.Equal(t, 1, orphans)
	assert.Equal(t, "ALICE", all[0].EmployeeName)
	assert.Equal(t, "BRUNO", all[1].EmployeeName)

	late, orphans := snap.Receipts(Filter{StartDate: "2024-01-06"}, "")
	require.Len(t, late, 1)
	assert.Zero(t, orphans)
	assert.InDelta(t, 40.0, late[0].TotalValue, 1e-9)

	searched, _ := snap.Receipts(Filter{}, "bru")
	require.Len(t, searched, 1)
	assert.Equal(t, "emp-b", searched[0].EmployeeID)
}

func TestSnapshotRecordList(t *testing.T) {
	snap := scenarioSnapshot()
	views := snap.RecordList(Filter{}, "", SortConfig{Key: ByValue, Direction: Descending})

	// the orphan is dropped; r2 and r3 tie on value and keep input order
	require.Len(t, views, 3)
	assert.Equal(t, []string{"r2", "r3", "r1"}, []string{views[0].ID, views[1].ID, views[2].ID})
	assert.Equal(t, "BRUNO", views[1].EmployeeName)
	assert.InDelta(t, 40.0, views[1].Value, 1e-9)
	assert.InDelta(t, 1.0, views[1].Hours, 1e-9)
}

func TestViewsResolveOrphans(t *testing.T) {
	snap := scenarioSnapshot()
	views := snap.Views(snap.Records)
	last := views[len(views)-1]
	assert.Equal(t, UnknownEmployeeName, last.EmployeeName)
	assert.Zero(t, last.Value)
	assert.InDelta(t, 4.0, last.Hours, 1e-9)
}
