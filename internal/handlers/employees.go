package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/utils"
)

// EmployeeHandler handles employee routes
type EmployeeHandler struct {
	Employees *services.EmployeeService
}

// ListEmployees handles GET /api/admin/employees
// @Summary List employees
// @Tags Employees
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Success 200 {array} models.Employee
// @Router /admin/employees [get]
func (h *EmployeeHandler) ListEmployees(c *fiber.Ctx) error {
	employees, err := h.Employees.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, employees, fiber.StatusOK)
}

// AddEmployee handles POST /api/admin/employees
// @Summary Add an employee
// @Description Create an employee. The JTC business id is always generated.
// @Tags Employees
// @Accept json
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param employee body services.EmployeeInput true "Employee"
// @Success 201 {object} models.Employee
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/employees [post]
func (h *EmployeeHandler) AddEmployee(c *fiber.Ctx) error {
	var in services.EmployeeInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}

	employee, err := h.Employees.AddEmployee(c.UserContext(), in)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, employee, fiber.StatusCreated)
}

// GetEmployee handles GET /api/admin/employees/:id
// @Summary Get an employee
// @Tags Employees
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path string true "Employee uuid"
// @Success 200 {object} models.Employee
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	employee, err := h.Employees.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, employee, fiber.StatusOK)
}

// UpdateEmployee handles PUT /api/admin/employees/:id
// @Summary Update an employee
// @Description Overwrite the employee and replace its project assignment
// @Tags Employees
// @Accept json
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path string true "Employee uuid"
// @Param employee body services.EmployeePatch true "Employee patch"
// @Success 200 {object} models.Employee
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	var patch services.EmployeePatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}

	employee, err := h.Employees.UpdateEmployee(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, employee, fiber.StatusOK)
}

// DeleteEmployee handles DELETE /api/admin/employees/:id
// @Summary Delete an employee
// @Tags Employees
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param id path string true "Employee uuid"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	if err := h.Employees.DeleteEmployee(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return utils.MutationSuccessResponse(c, 1, nil)
}

// AssignProject handles PUT|POST /api/admin/employees/:employeeId/assignProject/:projectId
// @Summary Assign a project
// @Description Make the project the employee's only assignment
// @Tags Employees
// @Produce json
// @Security BasicAuth
// @Security BearerAuth
// @Param employeeId path string true "Employee uuid"
// @Param projectId path int true "Project store id"
// @Success 200 {object} models.Employee
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/employees/{employeeId}/assignProject/{projectId} [put]
// @Router /admin/employees/{employeeId}/assignProject/{projectId} [post]
func (h *EmployeeHandler) AssignProject(c *fiber.Ctx) error {
	employee, err := h.Employees.AssignProject(c.UserContext(), c.Params("employeeId"), c.Params("projectId"))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, employee, fiber.StatusOK)
}
