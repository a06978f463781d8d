// routes.go
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
	"github.com/localnerve/clientsdb/internal/middleware"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/services"
)

// SetupRoutes mounts the /api routes and /health on app. limiter guards
// the public auth routes and may be nil.
func SetupRoutes(app *fiber.App, svc *services.Services, limiter *middleware.RateLimiter, health *HealthHandler) {
	if health != nil {
		app.Get("/health", health.Health)
	}

	api := app.Group("/api")
	api.Use(middleware.RequestMiddleware())

	authHandler := &AuthHandler{Gate: svc.Auth}
	clientHandler := &ClientHandler{Clients: svc.Clients}
	projectHandler := &ProjectHandler{Projects: svc.Projects}
	employeeHandler := &EmployeeHandler{Employees: svc.Employees}

	// Public routes
	public := api.Group("/auth")
	if limiter != nil {
		public.Use(limiter.Handler())
	}
	public.Post("/register", authHandler.Register)
	public.Post("/login", authHandler.Login)

	authenticate := middleware.Authenticate(svc.Auth)

	// Any authenticated user
	api.Get("/me", authenticate, middleware.RequireAuthenticated(svc.Auth), authHandler.Me)

	// Admin routes
	admin := api.Group("/admin", authenticate, middleware.RequireRole(svc.Auth, models.RoleAdmin))

	admin.Get("/clients", clientHandler.ListClients)
	admin.Post("/clients", clientHandler.AddClient)
	admin.Get("/clients/:id", clientHandler.GetClient)
	admin.Put("/clients/:id", clientHandler.UpdateClient)
	admin.Delete("/clients/:id", clientHandler.DeleteClient)

	admin.Post("/create", projectHandler.SaveOrUpdateProject)
	admin.Get("/projects", projectHandler.ListProjects)
	admin.Post("/projects", projectHandler.SaveOrUpdateProject)
	admin.Get("/projects/:id", projectHandler.GetProject)
	admin.Put("/projects/:id", projectHandler.UpdateProject)
	admin.Delete("/projects/:id", projectHandler.DeleteProject)

	admin.Get("/employees", employeeHandler.ListEmployees)
	admin.Post("/employees", employeeHandler.AddEmployee)
	admin.Get("/employees/:id", employeeHandler.GetEmployee)
	admin.Put("/employees/:id", employeeHandler.UpdateEmployee)
	admin.Delete("/employees/:id", employeeHandler.DeleteEmployee)
	admin.Put("/employees/:employeeId/assignProject/:projectId", employeeHandler.AssignProject)
	admin.Post("/employees/:employeeId/assignProject/:projectId", employeeHandler.AssignProject)
}
