package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/utils"
)

// ProjectHandler handles project routes
type ProjectHandler struct {
	Projects *services.ProjectService
}

// ListProjects handles GET /api/admin/projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Success 200 {array} models.Project
// @Router /admin/projects [get]
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.Projects.ListProjects(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, projects, fiber.StatusOK)
}

// SaveOrUpdateProject handles POST /api/admin/projects and POST /api/admin/create
// @Summary Create or update a project
// @Description Insert a project, or update the one addressed by id. client.id is required.
// @Tags Projects
// @Accept json
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param project body services.ProjectInput true "Project"
// @Success 200 {object} models.Project
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/projects [post]
// @Router /admin/create [post]
func (h *ProjectHandler) SaveOrUpdateProject(c *fiber.Ctx) error {
	var in services.ProjectInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	project, err := h.Projects.SaveOrUpdateProject(c.UserContext(), in)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, project, fiber.StatusOK)
}

// GetProject handles GET /api/admin/projects/:id
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path int true "Project store id"
// @Success 200 {object} models.Project
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.Projects.GetProject(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, project, fiber.StatusOK)
}

// UpdateProject handles PUT /api/admin/projects/:id
// @Summary Update a project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path int true "Project store id"
// @Param project body services.ProjectPatch true "Project patch"
// @Success 200 {object} models.Project
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var patch services.ProjectPatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}

	project, err := h.Projects.UpdateProject(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, project, fiber.StatusOK)
}

// DeleteProject handles DELETE /api/admin/projects/:id
// @Summary Delete a project
// @Description Delete a project. Assigned employees are kept.
// @Tags Projects
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path int true "Project store id"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Projects.DeleteProject(c.UserContext(), id); err != nil {
		return err
	}
	return utils.MutationSuccessResponse(c, 1, nil)
}
