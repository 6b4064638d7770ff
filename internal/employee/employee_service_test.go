package employee_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-employee-gateway/internal/employee"
	employeeerrors "go-employee-gateway/internal/employee/errors"
	employeeMock "go-employee-gateway/internal/employee/mock"
	"go-employee-gateway/internal/events"
	"go-employee-gateway/internal/resilience"
	"go-employee-gateway/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type upstreamStatus int

func (u upstreamStatus) Error() string   { return fmt.Sprintf("upstream returned %d", int(u)) }
func (u upstreamStatus) StatusCode() int { return int(u) }

type serviceDeps struct {
	service   employee.Service
	client    *employeeMock.MockClient
	publisher *employeeMock.MockEventPublisher
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	client := employeeMock.NewMockClient(ctrl)
	publisher := employeeMock.NewMockEventPublisher(ctrl)
	svc := employee.NewServiceWithPublisher(client, publisher, zap.NewNop())

	return &serviceDeps{
		service:   svc,
		client:    client,
		publisher: publisher,
	}
}

func TestEmployeeService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().ListEmployees(ctx).Return(sampleEmployees(), nil)

		got, err := deps.service.GetAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, sampleEmployees(), got)
	})

	t.Run("upstream error is classified", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().ListEmployees(ctx).Return(nil, upstreamStatus(http.StatusInternalServerError))

		_, err := deps.service.GetAll(ctx)

		assert.ErrorIs(t, err, employeeerrors.ErrExternalAPI)
	})

	t.Run("rate limited", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().ListEmployees(ctx).Return(nil, resilience.ErrRateLimitExceeded)

		_, err := deps.service.GetAll(ctx)

		assert.ErrorIs(t, err, employeeerrors.ErrRateLimitExceeded)
	})
}

func TestEmployeeService_Aggregates(t *testing.T) {
	ctx := context.Background()

	t.Run("highest salary", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().ListEmployees(ctx).Return(sampleEmployees(), nil)

		got, err := deps.service.GetHighestSalary(ctx)

		require.NoError(t, err)
		assert.Equal(t, 90000, got)
	})

	t.Run("highest salary of nobody", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().ListEmployees(ctx).Return([]employee.Employee{}, nil)

		got, err := deps.service.GetHighestSalary(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("top ten", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().ListEmployees(ctx).Return(sampleEmployees(), nil)

		got, err := deps.service.GetTopTenHighestEarningNames(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"Bob", "Cara", "Alice"}, got)
	})

	t.Run("top ten caps at ten", func(t *testing.T) {
		deps := setupServiceTest(t)
		list := make([]employee.Employee, 12)
		for i := range list {
			list[i] = employee.Employee{Name: fmt.Sprintf("Employee %d", i+1), Salary: (i + 1) * 1000}
		}
		deps.client.EXPECT().ListEmployees(ctx).Return(list, nil)

		got, err := deps.service.GetTopTenHighestEarningNames(ctx)

		require.NoError(t, err)
		assert.Len(t, got, 10)
		assert.Equal(t, "Employee 12", got[0])
		assert.Equal(t, "Employee 3", got[9])
	})

	t.Run("search", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().ListEmployees(ctx).Return(sampleEmployees(), nil)

		got, err := deps.service.SearchByName(ctx, "a")

		require.NoError(t, err)
		names := make([]string, len(got))
		for i, e := range got {
			names[i] = e.Name
		}
		assert.Equal(t, []string{"Alice", "Cara"}, names)
	})

	t.Run("failure returns no partial result", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().ListEmployees(ctx).Return(nil, errors.New("connection reset"))

		got, err := deps.service.GetTopTenHighestEarningNames(ctx)

		assert.ErrorIs(t, err, employeeerrors.ErrExternalAPI)
		assert.Nil(t, got)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().GetEmployee(ctx, "2").Return(sampleEmployees()[1], nil)

		got, err := deps.service.GetByID(ctx, "2")

		require.NoError(t, err)
		assert.Equal(t, "Bob", got.Name)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().GetEmployee(ctx, "nope").Return(employee.Employee{}, upstreamStatus(http.StatusNotFound))

		_, err := deps.service.GetByID(ctx, "nope")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Create(t *testing.T) {
	req := employee.CreateEmployeeRequest{Name: "New Employee", Salary: 70000, Age: 30, Title: "Developer"}

	t.Run("success publishes created event with request id", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := contextutil.WithRequestID(context.Background(), "REQ-123")
		created := employee.Employee{ID: "9", Name: req.Name, Salary: req.Salary, Age: req.Age, Title: req.Title}

		deps.client.EXPECT().CreateEmployee(ctx, req).Return(created, nil)
		deps.publisher.EXPECT().
			Publish(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, event events.EmployeeLifecycleEvent) error {
				assert.Equal(t, events.EmployeeCreatedType, event.EventType)
				assert.Equal(t, "REQ-123", event.RequestID)
				assert.Equal(t, "9", event.EmployeeID)
				assert.Equal(t, req.Name, event.EmployeeName)
				assert.False(t, event.OccurredAt.IsZero())
				return nil
			})

		got, err := deps.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		deps.client.EXPECT().CreateEmployee(ctx, req).Return(employee.Employee{ID: "9", Name: req.Name}, nil)
		deps.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("broker down"))

		_, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
	})

	t.Run("upstream error publishes nothing", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		deps.client.EXPECT().CreateEmployee(ctx, req).Return(employee.Employee{}, upstreamStatus(http.StatusBadRequest))

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrExternalAPI)
	})
}

func TestEmployeeService_DeleteByID(t *testing.T) {
	ctx := context.Background()

	t.Run("get then delete by name", func(t *testing.T) {
		deps := setupServiceTest(t)
		gomock.InOrder(
			deps.client.EXPECT().GetEmployee(ctx, "2").Return(employee.Employee{ID: "2", Name: "Bob"}, nil),
			deps.client.EXPECT().DeleteEmployee(ctx, "Bob").Return(true, nil),
			deps.publisher.EXPECT().
				Publish(ctx, gomock.Cond(func(x any) bool {
					e, ok := x.(events.EmployeeLifecycleEvent)
					return ok && e.EventType == events.EmployeeDeletedType && e.EmployeeID == "2" && e.EmployeeName == "Bob"
				})).
				Return(nil),
		)

		name, err := deps.service.DeleteByID(ctx, "2")

		require.NoError(t, err)
		assert.Equal(t, "Bob", name)
	})

	t.Run("unknown id never deletes", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().GetEmployee(ctx, "x").Return(employee.Employee{}, upstreamStatus(http.StatusNotFound))

		_, err := deps.service.DeleteByID(ctx, "x")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("delete failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().GetEmployee(ctx, "2").Return(employee.Employee{ID: "2", Name: "Bob"}, nil)
		deps.client.EXPECT().DeleteEmployee(ctx, "Bob").Return(false, upstreamStatus(http.StatusServiceUnavailable))

		_, err := deps.service.DeleteByID(ctx, "2")

		assert.ErrorIs(t, err, employeeerrors.ErrExternalAPI)
	})

	t.Run("upstream deleted nothing still returns name", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.client.EXPECT().GetEmployee(ctx, "2").Return(employee.Employee{ID: "2", Name: "Bob"}, nil)
		deps.client.EXPECT().DeleteEmployee(ctx, "Bob").Return(false, nil)
		deps.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

		name, err := deps.service.DeleteByID(ctx, "2")

		require.NoError(t, err)
		assert.Equal(t, "Bob", name)
	})
}

func TestEmployeeService_NilPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := employeeMock.NewMockClient(ctrl)
	svc := employee.NewService(client, zap.NewNop())

	client.EXPECT().CreateEmployee(gomock.Any(), gomock.Any()).Return(employee.Employee{ID: "1", Name: "A"}, nil)

	_, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{Name: "A", Salary: 1, Age: 20, Title: "T"})
	assert.NoError(t, err)
}
