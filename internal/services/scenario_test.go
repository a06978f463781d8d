package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientProjectEmployeeLifecycle(t *testing.T) {
	f := setup(t)

	c1, err := f.svc.Clients.AddClient(f.ctx, services.ClientInput{Name: "C1"})
	require.NoError(t, err)
	assert.Equal(t, "client-001", c1.BusinessID)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	project, err := f.svc.Projects.SaveOrUpdateProject(f.ctx, services.ProjectInput{
		Name:      "P1",
		StartDate: types.FlexDate(today),
		EndDate:   types.FlexDate(today.AddDate(0, 0, 30)),
		Client:    &services.EntityRef{ID: types.FlexID(c1.ID)},
	})
	require.NoError(t, err)
	assert.Equal(t, "project-001", project.BusinessID)

	employee, err := f.svc.Employees.AddEmployee(f.ctx, services.EmployeeInput{Name: "E1", Email: "e1@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "JTC-001", employee.BusinessID)

	assigned, err := f.svc.Employees.AssignProject(f.ctx, employee.ID, fmt.Sprint(project.ID))
	require.NoError(t, err)
	require.Len(t, assigned.Projects, 1)
	assert.Equal(t, "project-001", assigned.Projects[0].BusinessID)

	_, err = f.svc.Clients.DeleteClient(f.ctx, c1.ID)
	require.NoError(t, err)

	_, err = f.svc.Projects.GetProject(f.ctx, project.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	gone, err := f.store.Projects.FindByUniqueField(f.ctx, "business_id", "project-001")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
