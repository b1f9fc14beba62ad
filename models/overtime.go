package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceType60  ServiceType = "60%"
	ServiceType100 ServiceType = "100%"
)

// ParseServiceType accepts the tokens used on entry forms and in pasted
// spreadsheets: "60", "60%", "100" and "100%".
func ParseServiceType(s string) (ServiceType, bool) {
	switch strings.TrimSpace(s) {
	case "60", "60%":
		return ServiceType60, true
	case "100", "100%":
		return ServiceType100, true
	}
	return "", false
}

// Multiplier returns the factor applied to the hourly rate.
func (t ServiceType) Multiplier() float64 {
	if t == ServiceType60 {
		return 1.6
	}
	return 2.0
}

func (t ServiceType) Label() string {
	return "Overtime " + string(t)
}

func (t ServiceType) Valid() bool {
	return t == ServiceType60 || t == ServiceType100
}

// OvertimeRecord is one overtime session. EmployeeID is a plain reference,
// records may outlive the employee they point to.
type OvertimeRecord struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	EmployeeID  string      `gorm:"not null;index;size:36" json:"employee_id"`
	Date        string      `gorm:"not null;index;size:10" json:"date"`
	StartTime   string      `gorm:"not null;size:8" json:"start_time"`
	EndTime     string      `gorm:"not null;size:8" json:"end_time"`
	ServiceType ServiceType `gorm:"not null;size:4" json:"service_type"`
	Observation string      `gorm:"size:500" json:"observation"`
}

func (r *OvertimeRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *OvertimeRecord) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	r.Observation = strings.ToUpper(strings.TrimSpace(r.Observation))
}
