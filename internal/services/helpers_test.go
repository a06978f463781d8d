package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/database"
	"github.com/localnerve/clientsdb/internal/logging"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	store *repository.Store
	svc   *services.Services
	ctx   context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store := repository.NewStore(db)
	svc := services.New(store, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenIssuer(testSecret, time.Hour), logging.Discard())
	return &fixture{store: store, svc: svc, ctx: context.Background()}
}

func day(y int, m time.Month, d int) types.FlexDate {
	return types.FlexDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (f *fixture) addClient(t *testing.T, name string, persons ...services.ContactPersonInput) *models.Client {
	t.Helper()
	client, err := f.svc.Clients.AddClient(f.ctx, services.ClientInput{
		Name:             name,
		RelationshipDate: day(2024, 3, 1),
		ContactPersons:   persons,
	})
	require.NoError(t, err)
	return client
}

func (f *fixture) addProject(t *testing.T, clientID uint, name string) *models.Project {
	t.Helper()
	project, err := f.svc.Projects.SaveOrUpdateProject(f.ctx, services.ProjectInput{
		Name:      name,
		StartDate: day(2025, 1, 1),
		EndDate:   day(2025, 6, 30),
		Client:    &services.EntityRef{ID: types.FlexID(clientID)},
	})
	require.NoError(t, err)
	return project
}

func (f *fixture) addEmployee(t *testing.T, name, email string) *models.Employee {
	t.Helper()
	employee, err := f.svc.Employees.AddEmployee(f.ctx, services.EmployeeInput{
		Name:  name,
		Dept:  "Engineering",
		Email: email,
	})
	require.NoError(t, err)
	return employee
}
