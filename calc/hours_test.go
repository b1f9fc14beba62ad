package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overtimepay/models"
)

func TestParseClockTime(t *testing.T) {
	cases := []struct {
		input   string
		want    ClockTime
		wantErr bool
	}{
		{"00:00", 0, false},
		{"18:00", 18 * 3600, false},
		{"18:30:15", 18*3600 + 30*60 + 15, false},
		{"23:59:59", 86399, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"8:00", 0, true},
		{"12", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseClockTime(c.input)
		if c.wantErr {
			assert.ErrorIs(t, err, ErrClockTime, c.input)
			continue
		}
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}
}

func TestClockTimeString(t *testing.T) {
	ct, err := ParseClockTime("07:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05:00", ct.String())
}

func TestHoursWorked(t *testing.T) {
	cases := []struct {
		start, end string
		want       float64
	}{
		{"18:00", "20:30", 2.5},
		{"18:00", "20:00:00", 2},
		{"08:00:00", "08:15:00", 0.25},
		{"19:00", "19:00", 0},
		{"21:00", "19:00", 0},
		{"22:00", "02:00", 0},
		{"", "10:00", 0},
		{"10:00", "", 0},
		{"bad", "10:00", 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, HoursWorked(c.start, c.end), 1e-9, "%s-%s", c.start, c.end)
	}
}

func TestHoursWorkedNeverNegative(t *testing.T) {
	times := []string{"00:00", "06:30", "12:00", "12:00:01", "18:45", "23:59"}
	for _, a := range times {
		for _, b := range times {
			assert.GreaterOrEqual(t, HoursWorked(a, b), 0.0)
		}
	}
}

func TestOvertimeValue(t *testing.T) {
	assert.InDelta(t, 32.0, OvertimeValue(2200, 2, models.ServiceType60), 1e-9)
	assert.InDelta(t, 40.0, OvertimeValue(2200, 2, models.ServiceType100), 1e-9)
	assert.Zero(t, OvertimeValue(2200, 0, models.ServiceType60))
	assert.Zero(t, OvertimeValue(2200, -1, models.ServiceType100))
	assert.Zero(t, OvertimeValue(0, 3, models.ServiceType60))
	assert.Zero(t, OvertimeValue(-10, 3, models.ServiceType100))
}

func TestRates(t *testing.T) {
	assert.InDelta(t, 10.0, HourlyRate(2200), 1e-9)
	assert.InDelta(t, 16.0, RateFor(2200, models.ServiceType60), 1e-9)
	assert.InDelta(t, 20.0, RateFor(2200, models.ServiceType100), 1e-9)
	assert.Zero(t, HourlyRate(0))
}
