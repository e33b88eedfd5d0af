package workforce

import (
	"context"
	"errors"
	"testing"

	"github.com/bizledger/backend/internal/application/common"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/project"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workforce.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]workforce.Employee, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]workforce.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter workforce.EmployeeFilter) ([]workforce.Employee, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]workforce.Employee), args.Get(1).(int64), args.Error(2)
}

func (m *MockEmployeeRepository) FindByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (*workforce.Employee, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindFirstForTenant(ctx context.Context, tenantID uuid.UUID) (*workforce.Employee, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, e *workforce.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEmployeeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockExpenditureUnlinker struct {
	ledger.ExpenditureRepository
	mock.Mock
}

func (m *MockExpenditureUnlinker) UnlinkEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	return m.Called(ctx, tenantID, employeeID).Error(0)
}

type MockTaskRemover struct {
	project.TaskRepository
	mock.Mock
}

func (m *MockTaskRemover) RemoveEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	return m.Called(ctx, tenantID, employeeID).Error(0)
}

type MockMemberRemover struct {
	project.MemberRepository
	mock.Mock
}

func (m *MockMemberRemover) RemoveEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	return m.Called(ctx, tenantID, employeeID).Error(0)
}

type employeeFixture struct {
	admin        identity.Actor
	employees    *MockEmployeeRepository
	expenditures *MockExpenditureUnlinker
	tasks        *MockTaskRemover
	members      *MockMemberRemover
	svc          *EmployeeService
}

func newEmployeeFixture() *employeeFixture {
	f := &employeeFixture{
		admin:        identity.Actor{UserID: uuid.New(), CompanyID: uuid.New(), UserType: identity.UserTypeAdmin},
		employees:    new(MockEmployeeRepository),
		expenditures: new(MockExpenditureUnlinker),
		tasks:        new(MockTaskRemover),
		members:      new(MockMemberRemover),
	}
	scope := NewNoOpTransactionScope(f.employees, f.expenditures, f.tasks, f.members)
	f.svc = NewEmployeeService(f.employees, scope, nil)
	return f
}

func (f *employeeFixture) existing(t *testing.T, name, email string) *workforce.Employee {
	t.Helper()
	e, err := workforce.NewEmployee(f.admin.CompanyID, workforce.EmployeeDetails{Name: name, Email: email})
	require.NoError(t, err)
	f.employees.On("FindByIDForTenant", mock.Anything, f.admin.CompanyID, e.ID).Return(e, nil)
	return e
}

func TestEmployeeService_Create(t *testing.T) {
	f := newEmployeeFixture()
	salary := decimal.NewFromInt(5000)
	f.employees.On("FindByEmailForTenant", mock.Anything, f.admin.CompanyID, "alice@example.com").Return(nil, shared.ErrNotFound)
	f.employees.On("Save", mock.Anything, mock.AnythingOfType("*workforce.Employee")).Return(nil)

	resp, err := f.svc.Create(context.Background(), f.admin, EmployeeRequest{
		Name:         "Alice",
		Email:        "Alice@Example.com",
		Salary:       &salary,
		EmployeeType: "CONTRACTOR",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "CONTRACTOR", resp.EmployeeType)
	assert.Equal(t, "ACTIVE", resp.Status)
	f.employees.AssertExpectations(t)
}

func TestEmployeeService_CreateWithoutEmailSkipsLookup(t *testing.T) {
	f := newEmployeeFixture()
	f.employees.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Create(context.Background(), f.admin, EmployeeRequest{Name: "Vendor Ltd", EmployeeType: "VENDOR"})

	require.NoError(t, err)
	f.employees.AssertNotCalled(t, "FindByEmailForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmployeeService_CreateRejectsDuplicateEmail(t *testing.T) {
	f := newEmployeeFixture()
	other, err := workforce.NewEmployee(f.admin.CompanyID, workforce.EmployeeDetails{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	f.employees.On("FindByEmailForTenant", mock.Anything, f.admin.CompanyID, "alice@example.com").Return(other, nil)

	_, err = f.svc.Create(context.Background(), f.admin, EmployeeRequest{Name: "Alice Two", Email: "alice@example.com"})

	assert.ErrorIs(t, err, ErrEmailInUse)
	f.employees.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEmployeeService_WritesRequireAdmin(t *testing.T) {
	f := newEmployeeFixture()
	staff := f.admin
	staff.UserType = identity.UserTypeEmployee

	_, err := f.svc.Create(context.Background(), staff, EmployeeRequest{Name: "Alice"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = f.svc.Update(context.Background(), staff, uuid.New(), EmployeeRequest{Name: "Alice"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), staff, uuid.New()), shared.ErrUnauthorized)
}

func TestEmployeeService_UpdateKeepsOwnEmail(t *testing.T) {
	f := newEmployeeFixture()
	e := f.existing(t, "Alice", "alice@example.com")
	f.employees.On("FindByEmailForTenant", mock.Anything, f.admin.CompanyID, "alice@example.com").Return(e, nil)
	f.employees.On("Save", mock.Anything, e).Return(nil)

	resp, err := f.svc.Update(context.Background(), f.admin, e.ID, EmployeeRequest{
		Name:   "Alice Smith",
		Email:  "alice@example.com",
		Status: "INACTIVE",
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", resp.Name)
	assert.Equal(t, "INACTIVE", resp.Status)
}

func TestEmployeeService_Delete(t *testing.T) {
	f := newEmployeeFixture()
	e := f.existing(t, "Alice", "alice@example.com")
	tenant := f.admin.CompanyID

	var order []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, name) }
	}
	f.expenditures.On("UnlinkEmployee", mock.Anything, tenant, e.ID).Return(nil).Run(record("expenditures"))
	f.tasks.On("RemoveEmployee", mock.Anything, tenant, e.ID).Return(nil).Run(record("tasks"))
	f.members.On("RemoveEmployee", mock.Anything, tenant, e.ID).Return(nil).Run(record("members"))
	f.employees.On("DeleteForTenant", mock.Anything, tenant, e.ID).Return(nil).Run(record("employee"))

	require.NoError(t, f.svc.Delete(context.Background(), f.admin, e.ID))

	assert.Equal(t, []string{"expenditures", "tasks", "members", "employee"}, order)
}

func TestEmployeeService_DeleteStopsOnFailure(t *testing.T) {
	f := newEmployeeFixture()
	e := f.existing(t, "Alice", "")
	f.expenditures.On("UnlinkEmployee", mock.Anything, mock.Anything, e.ID).Return(nil)
	f.tasks.On("RemoveEmployee", mock.Anything, mock.Anything, e.ID).Return(errors.New("deadlock detected"))

	err := f.svc.Delete(context.Background(), f.admin, e.ID)

	assert.ErrorIs(t, err, common.ErrOperationFailed)
	f.members.AssertNotCalled(t, "RemoveEmployee", mock.Anything, mock.Anything, mock.Anything)
	f.employees.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmployeeService_GetOtherTenantIsNotFound(t *testing.T) {
	f := newEmployeeFixture()
	id := uuid.New()
	f.employees.On("FindByIDForTenant", mock.Anything, f.admin.CompanyID, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Get(context.Background(), f.admin, id)

	assert.True(t, common.IsNotFound(err))
}

func TestEmployeeService_List(t *testing.T) {
	f := newEmployeeFixture()
	staff := identity.Actor{UserID: uuid.New(), CompanyID: f.admin.CompanyID, UserType: identity.UserTypeEmployee}
	alice, err := workforce.NewEmployee(staff.CompanyID, workforce.EmployeeDetails{Name: "Alice"})
	require.NoError(t, err)
	f.employees.On("FindAllForTenant", mock.Anything, staff.CompanyID, mock.MatchedBy(func(df workforce.EmployeeFilter) bool {
		return df.Status != nil && *df.Status == workforce.EmployeeStatusActive && df.PageSize == 50
	})).Return([]workforce.Employee{*alice}, int64(1), nil)

	rows, total, err := f.svc.List(context.Background(), staff, EmployeeListFilter{Status: "ACTIVE", PageSize: 50})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].Name)

	client := staff
	client.UserType = identity.UserTypeClient
	_, _, err = f.svc.List(context.Background(), client, EmployeeListFilter{})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
