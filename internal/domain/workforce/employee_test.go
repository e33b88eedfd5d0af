package workforce

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmployee(t *testing.T) {
	tenantID := uuid.New()

	t.Run("defaults type and status", func(t *testing.T) {
		e, err := NewEmployee(tenantID, EmployeeDetails{Name: "Grace Hopper", Email: "Grace@Navy.mil"})
		require.NoError(t, err)
		assert.Equal(t, EmployeeTypeEmployee, e.EmployeeType)
		assert.Equal(t, EmployeeStatusActive, e.Status)
		assert.Equal(t, "grace@navy.mil", e.Email)
		assert.True(t, e.IsActive())
		assert.True(t, e.HasEmail())
	})

	t.Run("email is optional", func(t *testing.T) {
		e, err := NewEmployee(tenantID, EmployeeDetails{Name: "Vendor Ltd", EmployeeType: EmployeeTypeVendor})
		require.NoError(t, err)
		assert.False(t, e.HasEmail())
	})

	t.Run("rejects negative salary", func(t *testing.T) {
		salary := decimal.NewFromInt(-5)
		_, err := NewEmployee(tenantID, EmployeeDetails{Name: "Grace", Salary: &salary})
		require.Error(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewEmployee(tenantID, EmployeeDetails{Name: "Grace", Status: "RETIRED"})
		require.Error(t, err)
	})
}

func TestEmployee_Update(t *testing.T) {
	e, err := NewEmployee(uuid.New(), EmployeeDetails{Name: "Grace Hopper"})
	require.NoError(t, err)
	v := e.Version

	require.NoError(t, e.Update(EmployeeDetails{Name: "Grace Hopper", Status: EmployeeStatusInactive}))
	assert.False(t, e.IsActive())
	assert.Equal(t, v+1, e.Version)
}
