// relationships.go
//
// Client, project and employee management service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of clientsdb.
// clientsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// clientsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with clientsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/sirupsen/logrus"
)

// RelationshipGraph holds the ownership and association rules between
// clients, contact persons, projects and employees. Every rule runs on
// the transaction store it is given and refers to other entities by id.
type RelationshipGraph struct {
	log logrus.FieldLogger
}

// NewRelationshipGraph creates the rule set.
func NewRelationshipGraph(log logrus.FieldLogger) *RelationshipGraph {
	return &RelationshipGraph{log: log}
}

// CascadeResult counts the rows removed with a client.
type CascadeResult struct {
	Projects       int64 `json:"projects"`
	ContactPersons int64 `json:"contactPersons"`
	Assignments    int64 `json:"assignments"`
}

// AttachContactPersons makes persons the complete contact set of the
// client. Persons with an id must already belong to the client; stored
// persons missing from the set are deleted.
func (g *RelationshipGraph) AttachContactPersons(ctx context.Context, tx *repository.Store, clientID uint, persons []models.ContactPerson) ([]models.ContactPerson, error) {
	existing, err := tx.ContactPersons.FindAllBy(ctx, "client_id", clientID)
	if err != nil {
		return nil, storeError(err)
	}
	owned := make(map[uint]struct{}, len(existing))
	for _, p := range existing {
		owned[p.ID] = struct{}{}
	}

	keep := make(map[uint]struct{}, len(persons))
	emails := make(map[string]struct{}, len(persons))
	for i := range persons {
		p := &persons[i]
		if p.ID != 0 {
			if _, ok := owned[p.ID]; !ok {
				return nil, types.NotFound("Contact person", p.ID)
			}
			keep[p.ID] = struct{}{}
		}
		if _, dup := emails[p.Email]; dup {
			return nil, types.Conflict("contact person email %s is listed twice", p.Email)
		}
		emails[p.Email] = struct{}{}
		p.ClientID = clientID
	}

	// Orphan removal. Kept persons release any stored email the new set
	// uses, so emails can move between persons of the client.
	for _, p := range existing {
		if _, ok := keep[p.ID]; !ok {
			if err := tx.ContactPersons.DeleteByID(ctx, p.ID); err != nil {
				return nil, storeError(err)
			}
			continue
		}
		if _, stays := emails[p.Email]; !stays {
			continue
		}
		p.Email = fmt.Sprintf("released-%d-%s", p.ID, uuid.NewString())
		if err := tx.ContactPersons.Save(ctx, &p); err != nil {
			return nil, storeError(err)
		}
	}

	for i := range persons {
		p := &persons[i]
		other, err := tx.ContactPersons.FindByUniqueField(ctx, "email", p.Email)
		if err != nil {
			return nil, storeError(err)
		}
		if other != nil && other.ID != p.ID {
			return nil, types.Conflict("contact person email %s already exists", p.Email)
		}
		if err := tx.ContactPersons.Save(ctx, p); err != nil {
			return nil, storeError(err)
		}
	}

	g.log.WithFields(logrus.Fields{
		"clientId": clientID,
		"count":    len(persons),
		"removed":  len(existing) - len(keep),
	}).Debug("attached contact persons")

	return persons, nil
}

// AttachProject resolves the client and makes it the owner of project.
func (g *RelationshipGraph) AttachProject(ctx context.Context, tx *repository.Store, project *models.Project, clientID uint) error {
	if clientID == 0 {
		return types.Validation("Client ID is required")
	}
	client, err := tx.Clients.FindByID(ctx, clientID)
	if err != nil {
		return storeError(err)
	}
	if client == nil {
		return types.ClientNotFound(clientID)
	}
	project.ClientID = client.ID
	project.Client = client
	return nil
}

// CascadeDelete removes a client with its projects, their association
// rows and its contact persons.
func (g *RelationshipGraph) CascadeDelete(ctx context.Context, tx *repository.Store, clientID uint) (CascadeResult, error) {
	var result CascadeResult

	projects, err := tx.Projects.FindAllBy(ctx, "client_id", clientID)
	if err != nil {
		return result, storeError(err)
	}
	projectIDs := make([]uint, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	if result.Assignments, err = tx.Assignments.ClearProjects(ctx, projectIDs...); err != nil {
		return result, storeError(err)
	}
	if result.Projects, err = tx.Projects.DeleteBy(ctx, "client_id", clientID); err != nil {
		return result, storeError(err)
	}
	if result.ContactPersons, err = tx.ContactPersons.DeleteBy(ctx, "client_id", clientID); err != nil {
		return result, storeError(err)
	}
	if err := tx.Clients.DeleteByID(ctx, clientID); err != nil {
		return result, storeError(err)
	}

	g.log.WithFields(logrus.Fields{
		"clientId":       clientID,
		"projects":       result.Projects,
		"contactPersons": result.ContactPersons,
		"assignments":    result.Assignments,
	}).Info("cascade deleted client")

	return result, nil
}

// Assign replaces every project association of the employee with one.
func (g *RelationshipGraph) Assign(ctx context.Context, tx *repository.Store, employeeID string, projectID uint) error {
	if _, err := tx.Assignments.ClearEmployee(ctx, employeeID); err != nil {
		return storeError(err)
	}
	if err := tx.Assignments.Add(ctx, employeeID, projectID); err != nil {
		return storeError(err)
	}
	return nil
}

// DetachProject removes the association rows of a project.
func (g *RelationshipGraph) DetachProject(ctx context.Context, tx *repository.Store, projectID uint) error {
	_, err := tx.Assignments.ClearProjects(ctx, projectID)
	return storeError(err)
}

// DetachEmployee removes the association rows of an employee.
func (g *RelationshipGraph) DetachEmployee(ctx context.Context, tx *repository.Store, employeeID string) error {
	_, err := tx.Assignments.ClearEmployee(ctx, employeeID)
	return storeError(err)
}

// ReplaceProjectEmployees makes employeeIDs the complete employee set of
// the project. Each listed employee loses any other assignment.
func (g *RelationshipGraph) ReplaceProjectEmployees(ctx context.Context, tx *repository.Store, projectID uint, employeeIDs []string) error {
	seen := make(map[string]struct{}, len(employeeIDs))
	unique := make([]string, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		exists, err := tx.Employees.ExistsByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if !exists {
			return types.NotFound("Employee", id)
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if err := g.DetachProject(ctx, tx, projectID); err != nil {
		return err
	}
	for _, id := range unique {
		if err := g.Assign(ctx, tx, id, projectID); err != nil {
			return err
		}
	}
	return nil
}

// ReparentProjects moves the listed projects under the client.
func (g *RelationshipGraph) ReparentProjects(ctx context.Context, tx *repository.Store, clientID uint, projectIDs []uint) error {
	for _, id := range projectIDs {
		project, err := tx.Projects.FindByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if project == nil {
			return types.NotFound("Project", id)
		}
		if project.ClientID == clientID {
			continue
		}
		project.ClientID = clientID
		if err := tx.Projects.Save(ctx, project); err != nil {
			return storeError(err)
		}
	}
	return nil
}
