package services

import (
	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/sirupsen/logrus"
)

// Services bundles the domain services that share one store.
type Services struct {
	Clients   *ClientService
	Projects  *ProjectService
	Employees *EmployeeService
	Auth      *AuthGate
}

// New wires the services. tokens may be nil.
func New(store *repository.Store, hasher auth.PasswordHasher, tokens *auth.TokenIssuer, log logrus.FieldLogger) *Services {
	ids := NewIdentifierGenerator(log.WithField("component", "identifier"))
	graph := NewRelationshipGraph(log.WithField("component", "relationships"))
	return &Services{
		Clients:   NewClientService(store, ids, graph, log.WithField("component", "clients")),
		Projects:  NewProjectService(store, ids, graph, log.WithField("component", "projects")),
		Employees: NewEmployeeService(store, ids, graph, log.WithField("component", "employees")),
		Auth:      NewAuthGate(store, hasher, tokens, log.WithField("component", "auth")),
	}
}
