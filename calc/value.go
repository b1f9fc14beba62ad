package calc

import "overtimepay/models"

// MonthlyHoursDivisor converts a monthly salary into an hourly rate.
const MonthlyHoursDivisor = 220.0

func HourlyRate(baseSalary float64) float64 {
	if baseSalary <= 0 {
		return 0
	}
	return baseSalary / MonthlyHoursDivisor
}

// RateFor is the hourly amount paid for one hour of the given service type.
func RateFor(baseSalary float64, serviceType models.ServiceType) float64 {
	return HourlyRate(baseSalary) * serviceType.Multiplier()
}

// OvertimeValue is the amount owed for hours worked under serviceType. No
// rounding is applied; non-positive salary or hours give 0.
func OvertimeValue(baseSalary, hours float64, serviceType models.ServiceType) float64 {
	if baseSalary <= 0 || hours <= 0 {
		return 0
	}
	return HourlyRate(baseSalary) * serviceType.Multiplier() * hours
}

// Roster indexes employees by id.
type Roster map[string]models.Employee

func NewRoster(employees []models.Employee) Roster {
	roster := make(Roster, len(employees))
	for _, e := range employees {
		roster[e.ID] = e
	}
	return roster
}

func (r Roster) Lookup(id string) (models.Employee, bool) {
	e, ok := r[id]
	return e, ok
}

// Name resolves the employee name, UnknownEmployeeName when the reference is
// stale.
func (r Roster) Name(id string) string {
	if e, ok := r[id]; ok {
		return e.Name
	}
	return UnknownEmployeeName
}

const UnknownEmployeeName = "UNKNOWN"

func RecordHours(rec models.OvertimeRecord) float64 {
	return HoursWorked(rec.StartTime, rec.EndTime)
}

// RecordValue prices a record with its employee's salary. Orphaned records are
// worth 0.
func RecordValue(rec models.OvertimeRecord, roster Roster) float64 {
	e, ok := roster[rec.EmployeeID]
	if !ok {
		return 0
	}
	return OvertimeValue(e.BaseSalary, RecordHours(rec), rec.ServiceType)
}
