package repository

import (
	"context"

	"github.com/localnerve/clientsdb/internal/models"
	"gorm.io/gorm"
)

// AssignmentRepository manages rows of the employee_projects table.
type AssignmentRepository struct {
	db *gorm.DB
}

// ProjectIDsOf returns the project ids assigned to an employee.
func (r *AssignmentRepository) ProjectIDsOf(ctx context.Context, employeeID string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.EmployeeProject{}).
		Where("employee_id = ?", employeeID).
		Order("project_id").
		Pluck("project_id", &ids).Error
	return ids, err
}

// EmployeeIDsOf returns the employee ids assigned to a project.
func (r *AssignmentRepository) EmployeeIDsOf(ctx context.Context, projectID uint) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.EmployeeProject{}).
		Where("project_id = ?", projectID).
		Order("employee_id").
		Pluck("employee_id", &ids).Error
	return ids, err
}

// Add inserts one association row.
func (r *AssignmentRepository) Add(ctx context.Context, employeeID string, projectID uint) error {
	return r.db.WithContext(ctx).Create(&models.EmployeeProject{
		EmployeeID: employeeID,
		ProjectID:  projectID,
	}).Error
}

// ClearEmployee removes every association of an employee.
func (r *AssignmentRepository) ClearEmployee(ctx context.Context, employeeID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&models.EmployeeProject{})
	return result.RowsAffected, result.Error
}

// ClearProjects removes every association of the given projects.
func (r *AssignmentRepository) ClearProjects(ctx context.Context, projectIDs ...uint) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Delete(&models.EmployeeProject{})
	return result.RowsAffected, result.Error
}
