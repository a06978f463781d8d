// client_service.go
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
	"strings"
	"time"

	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ContactPersonInput is one contact person in a client payload.
// ID is set to keep an existing person, zero to add a new one.
type ContactPersonInput struct {
	ID          types.FlexID `json:"id,omitempty"`
	Name        string       `json:"name" validate:"required,max=255"`
	Email       string       `json:"email" validate:"required,email,max=255"`
	Phone       string       `json:"phone" validate:"max=64"`
	Designation string       `json:"designation" validate:"max=255"`
}

// EntityRef references a stored entity by numeric key.
type EntityRef struct {
	ID types.FlexID `json:"id"`
}

// ClientInput creates a client.
type ClientInput struct {
	BusinessID       string               `json:"clientId" validate:"max=32"`
	Name             string               `json:"clientName" validate:"required,max=255"`
	RelationshipDate types.FlexDate       `json:"clientRelationshipDate"`
	ContactPersons   []ContactPersonInput `json:"contactPersons" validate:"dive"`
}

// ClientPatch updates a client. Name and date are overwritten; contact
// persons and projects are only touched when present.
type ClientPatch struct {
	Name             string                                 `json:"clientName" validate:"required,max=255"`
	RelationshipDate types.FlexDate                         `json:"clientRelationshipDate"`
	ContactPersons   types.OptionalList[ContactPersonInput] `json:"contactPersons"`
	Projects         types.OptionalList[EntityRef]          `json:"projects"`
}

// ClientService implements client operations.
type ClientService struct {
	store *repository.Store
	ids   *IdentifierGenerator
	graph *RelationshipGraph
	log   logrus.FieldLogger
}

// NewClientService creates a client service.
func NewClientService(store *repository.Store, ids *IdentifierGenerator, graph *RelationshipGraph, log logrus.FieldLogger) *ClientService {
	return &ClientService{store: store, ids: ids, graph: graph, log: log}
}

var clientPreloads = []string{"ContactPersons", "Projects"}

// AddClient stores a new client, generating its business id when absent.
func (s *ClientService) AddClient(ctx context.Context, in ClientInput) (*models.Client, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var created *models.Client
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		client := &models.Client{
			BusinessID:       strings.TrimSpace(in.BusinessID),
			Name:             in.Name,
			RelationshipDate: dateOrToday(in.RelationshipDate),
		}

		if client.BusinessID == "" {
			id, err := s.ids.Next(ctx, tx, models.KindClient)
			if err != nil {
				return err
			}
			client.BusinessID = id
		} else if err := ensureClientBusinessIDFree(ctx, tx, client.BusinessID); err != nil {
			return err
		}

		if err := tx.Clients.Save(ctx, client); err != nil {
			return storeError(err)
		}

		persons, err := s.graph.AttachContactPersons(ctx, tx, client.ID, contactPersonsOf(in.ContactPersons))
		if err != nil {
			return err
		}
		client.ContactPersons = persons
		client.Projects = []models.Project{}
		created = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"id":       created.ID,
		"clientId": created.BusinessID,
	}).Info("client created")
	return created, nil
}

// GetClient returns the client with its projects and contact persons loaded.
func (s *ClientService) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.store.Clients.FindByID(ctx, id, clientPreloads...)
	if err != nil {
		return nil, storeError(err)
	}
	if client == nil {
		return nil, types.NotFound("Client", id)
	}
	return client, nil
}

// ListClients returns every client in insertion order.
func (s *ClientService) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.store.Clients.FindAll(ctx, clientPreloads...)
	return clients, storeError(err)
}

// UpdateClient applies patch to an existing client.
func (s *ClientService) UpdateClient(ctx context.Context, id uint, patch ClientPatch) (*models.Client, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	var updated *models.Client
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		client, err := tx.Clients.FindByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if client == nil {
			return types.NotFound("Client", id)
		}

		client.Name = patch.Name
		if !patch.RelationshipDate.IsZero() {
			client.RelationshipDate = datatypes.Date(patch.RelationshipDate.Time())
		}
		if err := tx.Clients.Save(ctx, client); err != nil {
			return storeError(err)
		}

		if patch.ContactPersons.Set {
			if _, err := s.graph.AttachContactPersons(ctx, tx, client.ID, contactPersonsOf(patch.ContactPersons.Items)); err != nil {
				return err
			}
		}
		if patch.Projects.Set {
			projectIDs := make([]uint, 0, len(patch.Projects.Items))
			for _, ref := range patch.Projects.Items {
				projectIDs = append(projectIDs, ref.ID.Uint())
			}
			if err := s.graph.ReparentProjects(ctx, tx, client.ID, projectIDs); err != nil {
				return err
			}
		}

		updated, err = tx.Clients.FindByID(ctx, client.ID, clientPreloads...)
		return storeError(err)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("clientId", updated.BusinessID).Info("client updated")
	return updated, nil
}

// DeleteClient removes the client and everything it owns.
func (s *ClientService) DeleteClient(ctx context.Context, id uint) (CascadeResult, error) {
	var result CascadeResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Clients.ExistsByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if !exists {
			return types.NotFound("Client", id)
		}
		result, err = s.graph.CascadeDelete(ctx, tx, id)
		return err
	})
	return result, err
}

func ensureClientBusinessIDFree(ctx context.Context, tx *repository.Store, businessID string) error {
	taken, err := tx.Clients.FindByUniqueField(ctx, "business_id", businessID)
	if err != nil {
		return storeError(err)
	}
	if taken != nil {
		return types.DuplicateBusinessID(businessID)
	}
	return nil
}

func contactPersonsOf(in []ContactPersonInput) []models.ContactPerson {
	persons := make([]models.ContactPerson, 0, len(in))
	for _, p := range in {
		persons = append(persons, models.ContactPerson{
			ID:          p.ID.Uint(),
			Name:        strings.TrimSpace(p.Name),
			Email:       normalizeEmail(p.Email),
			Phone:       p.Phone,
			Designation: p.Designation,
		})
	}
	return persons
}

func dateOrToday(d types.FlexDate) datatypes.Date {
	if d.IsZero() {
		return models.Today(time.Now())
	}
	return datatypes.Date(d.Time())
}
