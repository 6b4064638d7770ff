package employee

import (
	"context"
	"errors"
)

// ErrNoData is returned by a Client when the upstream answered 2xx but the
// envelope carried no data.
var ErrNoData = errors.New("upstream response has no data")

// Client is the upstream employee API. Implementations apply retry and rate
// limiting to every call.
//
//go:generate mockgen -source=employee_client.go -destination=mock/employee_client_mock.go -package=mock
type Client interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	// DeleteEmployee deletes by name; the upstream has no delete-by-id.
	DeleteEmployee(ctx context.Context, name string) (bool, error)
}
