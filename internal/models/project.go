package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project belongs to exactly one client and is linked to employees
// through the employee_projects association table.
type Project struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID string         `gorm:"size:32;not null;uniqueIndex" json:"projectId"`
	Name       string         `gorm:"size:255;not null" json:"projectName"`
	StartDate  datatypes.Date `gorm:"not null" json:"startDate"`
	EndDate    datatypes.Date `gorm:"not null" json:"endDate"`
	ClientID   uint           `gorm:"not null;index" json:"-"`
	Client     *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Employees  []Employee     `gorm:"many2many:employee_projects;joinForeignKey:ProjectID;joinReferences:EmployeeID" json:"employees,omitempty"`
	CreatedAt  time.Time      `json:"-"`
	UpdatedAt  time.Time      `json:"-"`
}

// DatesOrdered reports whether the end date is not before the start date.
func (p *Project) DatesOrdered() bool {
	return !time.Time(p.EndDate).Before(time.Time(p.StartDate))
}

// EmployeeProject is a row of the association table.
type EmployeeProject struct {
	EmployeeID string    `gorm:"primaryKey;type:varchar(36)"`
	ProjectID  uint      `gorm:"primaryKey"`
	CreatedAt  time.Time `json:"-"`
}

// TableName overrides the table name for EmployeeProject
func (EmployeeProject) TableName() string {
	return "employee_projects"
}
