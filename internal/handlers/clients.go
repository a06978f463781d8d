// clients.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/utils"
)

// ClientHandler handles client routes
type ClientHandler struct {
	Clients *services.ClientService
}

// ListClients handles GET /api/admin/clients
// @Summary List clients
// @Description List every client with its contact persons and projects
// @Tags Clients
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Success 200 {array} models.Client
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/clients [get]
func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.Clients.ListClients(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, clients, fiber.StatusOK)
}

// AddClient handles POST /api/admin/clients
// @Summary Add a client
// @Description Create a client. The business id is generated when clientId is absent.
// @Tags Clients
// @Accept json
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param client body services.ClientInput true "Client"
// @Success 201 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/clients [post]
func (h *ClientHandler) AddClient(c *fiber.Ctx) error {
	var in services.ClientInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	client, err := h.Clients.AddClient(c.UserContext(), in)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, client, fiber.StatusCreated)
}

// GetClient handles GET /api/admin/clients/:id
// @Summary Get a client
// @Tags Clients
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path int true "Client store id"
// @Success 200 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/clients/{id} [get]
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	client, err := h.Clients.GetClient(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, client, fiber.StatusOK)
}

// UpdateClient handles PUT /api/admin/clients/:id
// @Summary Update a client
// @Description Overwrite the name and date. Contact persons and projects are replaced when present.
// @Tags Clients
// @Accept json
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path int true "Client store id"
// @Param client body services.ClientPatch true "Client patch"
// @Success 200 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var patch services.ClientPatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}

	client, err := h.Clients.UpdateClient(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, client, fiber.StatusOK)
}

// DeleteClient handles DELETE /api/admin/clients/:id
// @Summary Delete a client
// @Description Delete a client with its projects and contact persons
// @Tags Clients
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path int true "Client store id"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	result, err := h.Clients.DeleteClient(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.MutationSuccessResponse(c, 1+result.Projects+result.ContactPersons, result)
}
