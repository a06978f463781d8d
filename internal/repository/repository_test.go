package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localnerve/clientsdb/internal/database"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return repository.NewStore(db)
}

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestFindByIDAbsentReturnsNil(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	client, err := store.Clients.FindByID(ctx, uint(42))
	require.NoError(t, err)
	assert.Nil(t, client)

	employee, err := store.Employees.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, employee)
}

func TestSaveInsertsThenUpdates(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	client := &models.Client{BusinessID: "client-001", Name: "Acme", RelationshipDate: date(2024, 1, 2)}
	require.NoError(t, store.Clients.Save(ctx, client))
	require.NotZero(t, client.ID)

	client.Name = "Acme Corp"
	require.NoError(t, store.Clients.Save(ctx, client))

	n, err := store.Clients.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	found, err := store.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Acme Corp", found.Name)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Time(found.RelationshipDate).UTC())
}

func TestSaveDoesNotWriteAssociations(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	client := &models.Client{
		BusinessID: "client-001",
		Name:       "Acme",
		ContactPersons: []models.ContactPerson{
			{Name: "Ann", Email: "ann@example.com"},
		},
	}
	require.NoError(t, store.Clients.Save(ctx, client))

	n, err := store.ContactPersons.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFindLatestAndUniqueField(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	latest, err := store.Clients.FindLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for _, id := range []string{"client-001", "client-002", "client-003"} {
		require.NoError(t, store.Clients.Save(ctx, &models.Client{BusinessID: id, Name: id}))
	}

	latest, err = store.Clients.FindLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "client-003", latest.BusinessID)

	byBusinessID, err := store.Clients.FindByUniqueField(ctx, "business_id", "client-002")
	require.NoError(t, err)
	require.NotNil(t, byBusinessID)
	assert.Equal(t, "client-002", byBusinessID.Name)

	all, err := store.Clients.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteAndExists(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	employee := &models.Employee{BusinessID: "JTC-001", Name: "Bo", Email: "bo@example.com"}
	require.NoError(t, store.Employees.Save(ctx, employee))
	require.Len(t, employee.ID, 36)
	assert.False(t, time.Time(employee.DateOfJoining).IsZero())

	exists, err := store.Employees.ExistsByID(ctx, employee.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Employees.DeleteByID(ctx, employee.ID))

	exists, err = store.Employees.ExistsByID(ctx, employee.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAssignments(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	client := &models.Client{BusinessID: "client-001", Name: "Acme"}
	require.NoError(t, store.Clients.Save(ctx, client))
	project := &models.Project{BusinessID: "project-001", Name: "Apollo", ClientID: client.ID,
		StartDate: date(2025, 1, 1), EndDate: date(2025, 2, 1)}
	require.NoError(t, store.Projects.Save(ctx, project))
	employee := &models.Employee{BusinessID: "JTC-001", Name: "Bo", Email: "bo@example.com"}
	require.NoError(t, store.Employees.Save(ctx, employee))

	require.NoError(t, store.Assignments.Add(ctx, employee.ID, project.ID))

	projectIDs, err := store.Assignments.ProjectIDsOf(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{project.ID}, projectIDs)

	employeeIDs, err := store.Assignments.EmployeeIDsOf(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{employee.ID}, employeeIDs)

	loaded, err := store.Employees.FindByID(ctx, employee.ID, "Projects")
	require.NoError(t, err)
	require.Len(t, loaded.Projects, 1)
	assert.Equal(t, "project-001", loaded.Projects[0].BusinessID)

	removed, err := store.Assignments.ClearProjects(ctx, project.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	removed, err = store.Assignments.ClearEmployee(ctx, employee.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSequenceLockAndAdvance(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx *repository.Store) error {
		seq, err := tx.Sequences.Lock(ctx, models.KindClient)
		if err != nil {
			return err
		}
		assert.Zero(t, seq.LastIssued)
		return tx.Sequences.Advance(ctx, models.KindClient, 7)
	})
	require.NoError(t, err)

	err = store.Transaction(ctx, func(tx *repository.Store) error {
		seq, err := tx.Sequences.Lock(ctx, models.KindClient)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 7, seq.LastIssued)
		return nil
	})
	require.NoError(t, err)
}

func TestTransactionRollsBack(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Clients.Save(ctx, &models.Client{BusinessID: "client-001", Name: "Acme"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := store.Clients.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFindAllByAndDeleteBy(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	acme := &models.Client{BusinessID: "client-001", Name: "Acme"}
	globex := &models.Client{BusinessID: "client-002", Name: "Globex"}
	require.NoError(t, store.Clients.Save(ctx, acme))
	require.NoError(t, store.Clients.Save(ctx, globex))

	for i, email := range []string{"a@acme.test", "b@acme.test", "c@globex.test"} {
		owner := acme.ID
		if i == 2 {
			owner = globex.ID
		}
		require.NoError(t, store.ContactPersons.Save(ctx, &models.ContactPerson{Name: email, Email: email, ClientID: owner}))
	}

	persons, err := store.ContactPersons.FindAllBy(ctx, "client_id", acme.ID)
	require.NoError(t, err)
	assert.Len(t, persons, 2)

	removed, err := store.ContactPersons.DeleteBy(ctx, "client_id", acme.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	n, err := store.ContactPersons.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
