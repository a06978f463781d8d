package services

import (
	"context"
	"strings"

	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// EmployeeRef references an employee by its uuid key.
type EmployeeRef struct {
	ID string `json:"id" validate:"required,max=36"`
}

// ProjectInput creates a project, or updates the one addressed by ID.
type ProjectInput struct {
	ID         types.FlexID                    `json:"id,omitempty"`
	BusinessID string                          `json:"projectId" validate:"max=32"`
	Name       string                          `json:"projectName" validate:"required,max=255"`
	StartDate  types.FlexDate                  `json:"startDate"`
	EndDate    types.FlexDate                  `json:"endDate"`
	Client     *EntityRef                      `json:"client"`
	Employees  types.OptionalList[EmployeeRef] `json:"employees"`
}

// ProjectPatch updates a project. Dates are kept when absent; the client
// and the employee set are only touched when present.
type ProjectPatch struct {
	Name      string                          `json:"projectName" validate:"required,max=255"`
	StartDate types.FlexDate                  `json:"startDate"`
	EndDate   types.FlexDate                  `json:"endDate"`
	Client    *EntityRef                      `json:"client"`
	Employees types.OptionalList[EmployeeRef] `json:"employees"`
}

// ProjectService implements project operations.
type ProjectService struct {
	store *repository.Store
	ids   *IdentifierGenerator
	graph *RelationshipGraph
	log   logrus.FieldLogger
}

// NewProjectService creates a project service.
func NewProjectService(store *repository.Store, ids *IdentifierGenerator, graph *RelationshipGraph, log logrus.FieldLogger) *ProjectService {
	return &ProjectService{store: store, ids: ids, graph: graph, log: log}
}

var projectPreloads = []string{"Client", "Employees"}

// SaveOrUpdateProject inserts a project, or updates the one with the
// given ID. The client reference is always resolved from the store.
func (s *ProjectService) SaveOrUpdateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Client == nil || in.Client.ID == 0 {
		return nil, types.Validation("Client ID is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, types.Validation("startDate and endDate are required")
	}

	var saved *models.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		project := &models.Project{}
		if in.ID != 0 {
			existing, err := tx.Projects.FindByID(ctx, in.ID.Uint())
			if err != nil {
				return storeError(err)
			}
			if existing == nil {
				return types.NotFound("Project", in.ID.Uint())
			}
			project = existing
		}

		project.Name = in.Name
		project.StartDate = datatypes.Date(in.StartDate.Time())
		project.EndDate = datatypes.Date(in.EndDate.Time())

		if err := s.graph.AttachProject(ctx, tx, project, in.Client.ID.Uint()); err != nil {
			return err
		}
		if err := checkProjectDates(project); err != nil {
			return err
		}

		businessID := strings.TrimSpace(in.BusinessID)
		switch {
		case businessID != "" && businessID != project.BusinessID:
			if err := ensureProjectBusinessIDFree(ctx, tx, businessID); err != nil {
				return err
			}
			project.BusinessID = businessID
		case project.BusinessID == "":
			id, err := s.ids.Next(ctx, tx, models.KindProject)
			if err != nil {
				return err
			}
			project.BusinessID = id
		}

		if err := tx.Projects.Save(ctx, project); err != nil {
			return storeError(err)
		}

		if in.Employees.Set {
			if err := s.graph.ReplaceProjectEmployees(ctx, tx, project.ID, employeeIDsOf(in.Employees.Items)); err != nil {
				return err
			}
		}

		var err error
		saved, err = tx.Projects.FindByID(ctx, project.ID, projectPreloads...)
		return storeError(err)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"id":        saved.ID,
		"projectId": saved.BusinessID,
		"clientId":  saved.ClientID,
	}).Info("project saved")
	return saved, nil
}

// GetProject returns the project with its client and employees loaded.
func (s *ProjectService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.store.Projects.FindByID(ctx, id, projectPreloads...)
	if err != nil {
		return nil, storeError(err)
	}
	if project == nil {
		return nil, types.NotFound("Project", id)
	}
	return project, nil
}

// ListProjects returns every project in insertion order.
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.store.Projects.FindAll(ctx, projectPreloads...)
	return projects, storeError(err)
}

// UpdateProject applies patch to an existing project.
func (s *ProjectService) UpdateProject(ctx context.Context, id uint, patch ProjectPatch) (*models.Project, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	var updated *models.Project
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		project, err := tx.Projects.FindByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if project == nil {
			return types.NotFound("Project", id)
		}

		project.Name = patch.Name
		if !patch.StartDate.IsZero() {
			project.StartDate = datatypes.Date(patch.StartDate.Time())
		}
		if !patch.EndDate.IsZero() {
			project.EndDate = datatypes.Date(patch.EndDate.Time())
		}
		if patch.Client != nil {
			if err := s.graph.AttachProject(ctx, tx, project, patch.Client.ID.Uint()); err != nil {
				return err
			}
		}
		if err := checkProjectDates(project); err != nil {
			return err
		}

		if err := tx.Projects.Save(ctx, project); err != nil {
			return storeError(err)
		}

		if patch.Employees.Set {
			if err := s.graph.ReplaceProjectEmployees(ctx, tx, project.ID, employeeIDsOf(patch.Employees.Items)); err != nil {
				return err
			}
		}

		updated, err = tx.Projects.FindByID(ctx, project.ID, projectPreloads...)
		return storeError(err)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("projectId", updated.BusinessID).Info("project updated")
	return updated, nil
}

// DeleteProject removes the project and its association rows. Assigned
// employees are kept.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Projects.ExistsByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if !exists {
			return types.NotFound("Project", id)
		}
		if err := s.graph.DetachProject(ctx, tx, id); err != nil {
			return err
		}
		return storeError(tx.Projects.DeleteByID(ctx, id))
	})
}

func checkProjectDates(p *models.Project) error {
	if !p.DatesOrdered() {
		return types.Validation("End date must be on or after start date")
	}
	return nil
}

func ensureProjectBusinessIDFree(ctx context.Context, tx *repository.Store, businessID string) error {
	taken, err := tx.Projects.FindByUniqueField(ctx, "business_id", businessID)
	if err != nil {
		return storeError(err)
	}
	if taken != nil {
		return types.DuplicateBusinessID(businessID)
	}
	return nil
}

func employeeIDsOf(refs []EmployeeRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, strings.TrimSpace(ref.ID))
	}
	return ids
}
