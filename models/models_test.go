package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseServiceType(t *testing.T) {
	tests := []struct {
		input string
		want  ServiceType
		ok    bool
	}{
		{"60", ServiceType60, true},
		{" 60% ", ServiceType60, true},
		{"100", ServiceType100, true},
		{"100%", ServiceType100, true},
		{"50", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseServiceType(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestServiceTypeMultiplier(t *testing.T) {
	assert.Equal(t, 1.6, ServiceType60.Multiplier())
	assert.Equal(t, 2.0, ServiceType100.Multiplier())
	assert.Equal(t, "Overtime 60%", ServiceType60.Label())
	assert.False(t, ServiceType("75%").Valid())
}

func TestNormalize(t *testing.T) {
	e := Employee{Code: " ab1 ", Name: " joão silva "}
	e.Normalize()
	assert.Equal(t, "AB1", e.Code)
	assert.Equal(t, "JOÃO SILVA", e.Name)
	assert.Equal(t, "INACTIVE", e.Status())

	r := OvertimeRecord{Date: " 2024-01-05 ", StartTime: "18:00 ", Observation: " carga "}
	r.Normalize()
	assert.Equal(t, "2024-01-05", r.Date)
	assert.Equal(t, "18:00", r.StartTime)
	assert.Equal(t, "CARGA", r.Observation)
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("ADMIN")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("HR")
	assert.False(t, ok)

	u := User{Role: RoleUser}
	assert.False(t, u.CanManageUsers())
}
