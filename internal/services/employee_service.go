package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// EmployeeInput creates an employee. Any business id in the payload is ignored.
type EmployeeInput struct {
	Name          string                        `json:"name" validate:"required,max=255"`
	Dept          string                        `json:"dept" validate:"max=255"`
	Email         string                        `json:"email" validate:"required,email,max=255"`
	Phone         string                        `json:"phone" validate:"max=64"`
	DateOfJoining types.FlexDate                `json:"dateOfJoining"`
	Projects      types.OptionalList[EntityRef] `json:"projects"`
}

// EmployeePatch updates an employee. The projects set is replaced wholesale.
type EmployeePatch struct {
	Name          string                        `json:"name" validate:"required,max=255"`
	Dept          string                        `json:"dept" validate:"max=255"`
	Email         string                        `json:"email" validate:"required,email,max=255"`
	Phone         string                        `json:"phone" validate:"max=64"`
	DateOfJoining types.FlexDate                `json:"dateOfJoining"`
	Projects      types.OptionalList[EntityRef] `json:"projects"`
}

// EmployeeService implements employee operations.
type EmployeeService struct {
	store *repository.Store
	ids   *IdentifierGenerator
	graph *RelationshipGraph
	log   logrus.FieldLogger
}

// NewEmployeeService creates an employee service.
func NewEmployeeService(store *repository.Store, ids *IdentifierGenerator, graph *RelationshipGraph, log logrus.FieldLogger) *EmployeeService {
	return &EmployeeService{store: store, ids: ids, graph: graph, log: log}
}

// AddEmployee stores a new employee with a generated business id, and
// assigns the optional project.
func (s *EmployeeService) AddEmployee(ctx context.Context, in EmployeeInput) (*models.Employee, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	projectID, err := singleProject(in.Projects)
	if err != nil {
		return nil, err
	}

	var created *models.Employee
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		email := normalizeEmail(in.Email)
		if err := ensureEmployeeEmailFree(ctx, tx, email, ""); err != nil {
			return err
		}

		businessID, err := s.ids.Next(ctx, tx, models.KindEmployee)
		if err != nil {
			return err
		}

		employee := &models.Employee{
			BusinessID: businessID,
			Name:       strings.TrimSpace(in.Name),
			Dept:       in.Dept,
			Email:      email,
			Phone:      in.Phone,
		}
		if !in.DateOfJoining.IsZero() {
			employee.DateOfJoining = datatypes.Date(in.DateOfJoining.Time())
		}
		if err := tx.Employees.Save(ctx, employee); err != nil {
			return storeError(err)
		}

		if projectID != 0 {
			if err := s.assignExisting(ctx, tx, employee.ID, projectID); err != nil {
				return err
			}
		}

		created, err = tx.Employees.FindByID(ctx, employee.ID, "Projects")
		return storeError(err)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"id":         created.ID,
		"employeeId": created.BusinessID,
	}).Info("employee created")
	return created, nil
}

// GetEmployee returns the employee with its projects loaded.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.store.Employees.FindByID(ctx, id, "Projects")
	if err != nil {
		return nil, storeError(err)
	}
	if employee == nil {
		return nil, types.NotFound("Employee", id)
	}
	return employee, nil
}

// ListEmployees returns every employee.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.store.Employees.FindAll(ctx, "Projects")
	return employees, storeError(err)
}

// UpdateEmployee overwrites the employee fields and replaces its project
// assignment. An empty or absent projects list clears the assignment.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, patch EmployeePatch) (*models.Employee, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	projectID, err := singleProject(patch.Projects)
	if err != nil {
		return nil, err
	}

	var updated *models.Employee
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		employee, err := tx.Employees.FindByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if employee == nil {
			return types.NotFound("Employee", id)
		}

		email := normalizeEmail(patch.Email)
		if err := ensureEmployeeEmailFree(ctx, tx, email, employee.ID); err != nil {
			return err
		}

		employee.Name = strings.TrimSpace(patch.Name)
		employee.Dept = patch.Dept
		employee.Email = email
		employee.Phone = patch.Phone
		if !patch.DateOfJoining.IsZero() {
			employee.DateOfJoining = datatypes.Date(patch.DateOfJoining.Time())
		}
		if err := tx.Employees.Save(ctx, employee); err != nil {
			return storeError(err)
		}

		if projectID == 0 {
			if err := s.graph.DetachEmployee(ctx, tx, employee.ID); err != nil {
				return err
			}
		} else if err := s.assignExisting(ctx, tx, employee.ID, projectID); err != nil {
			return err
		}

		updated, err = tx.Employees.FindByID(ctx, employee.ID, "Projects")
		return storeError(err)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("employeeId", updated.BusinessID).Info("employee updated")
	return updated, nil
}

// DeleteEmployee removes the employee and its assignment. Projects are kept.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Employees.ExistsByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if !exists {
			return types.NotFound("Employee", id)
		}
		if err := s.graph.DetachEmployee(ctx, tx, id); err != nil {
			return err
		}
		return storeError(tx.Employees.DeleteByID(ctx, id))
	})
}

// AssignProject makes projectID the only project of the employee.
func (s *EmployeeService) AssignProject(ctx context.Context, employeeID, projectID string) (*models.Employee, error) {
	pid, err := strconv.ParseUint(strings.TrimSpace(projectID), 10, 64)
	if err != nil {
		return nil, types.InvalidIDFormat(projectID, err)
	}

	var assigned *models.Employee
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Employees.ExistsByID(ctx, employeeID)
		if err != nil {
			return storeError(err)
		}
		if !exists {
			return types.NotFound("Employee", employeeID)
		}
		if err := s.assignExisting(ctx, tx, employeeID, uint(pid)); err != nil {
			return err
		}
		assigned, err = tx.Employees.FindByID(ctx, employeeID, "Projects")
		return storeError(err)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"employeeId": assigned.BusinessID,
		"projectId":  pid,
	}).Info("project assigned")
	return assigned, nil
}

func (s *EmployeeService) assignExisting(ctx context.Context, tx *repository.Store, employeeID string, projectID uint) error {
	exists, err := tx.Projects.ExistsByID(ctx, projectID)
	if err != nil {
		return storeError(err)
	}
	if !exists {
		return types.NotFound("Project", projectID)
	}
	return s.graph.Assign(ctx, tx, employeeID, projectID)
}

// singleProject returns the one referenced project id, or zero for none.
func singleProject(projects types.OptionalList[EntityRef]) (uint, error) {
	switch len(projects.Items) {
	case 0:
		return 0, nil
	case 1:
		if projects.Items[0].ID == 0 {
			return 0, types.Validation("project id is required")
		}
		return projects.Items[0].ID.Uint(), nil
	}
	return 0, types.Validation("an employee can be assigned to at most one project, got %d", len(projects.Items))
}

func ensureEmployeeEmailFree(ctx context.Context, tx *repository.Store, email, self string) error {
	other, err := tx.Employees.FindByUniqueField(ctx, "email", email)
	if err != nil {
		return storeError(err)
	}
	if other != nil && other.ID != self {
		return types.Conflict("employee email %s already exists", email)
	}
	return nil
}
