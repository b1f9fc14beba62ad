package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Code       string    `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name       string    `gorm:"not null;size:200;index" json:"name"`
	BaseSalary float64   `gorm:"not null" json:"base_salary"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Normalize upper-cases the code and name the way they are stored.
func (e *Employee) Normalize() {
	e.Code = strings.ToUpper(strings.TrimSpace(e.Code))
	e.Name = strings.ToUpper(strings.TrimSpace(e.Name))
}

func (e *Employee) Status() string {
	if e.IsActive {
		return "ACTIVE"
	}
	return "INACTIVE"
}
