package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Employee holds at most one active project assignment.
type Employee struct {
	ID            string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	BusinessID    string         `gorm:"size:32;not null;uniqueIndex" json:"employeeId"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Dept          string         `gorm:"size:255" json:"dept"`
	Email         string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone         string         `gorm:"size:64" json:"phone"`
	DateOfJoining datatypes.Date `json:"dateOfJoining"`
	Projects      []Project      `gorm:"many2many:employee_projects;joinForeignKey:EmployeeID;joinReferences:ProjectID" json:"projects"`
	CreatedAt     time.Time      `json:"-"`
	UpdatedAt     time.Time      `json:"-"`
}

// BeforeCreate assigns the uuid key and the default joining date.
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if time.Time(e.DateOfJoining).IsZero() {
		e.DateOfJoining = Today(tx.NowFunc())
	}
	return nil
}

// Today truncates t to a UTC calendar date.
func Today(t time.Time) datatypes.Date {
	y, m, d := t.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
