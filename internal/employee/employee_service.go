package employee

import (
	"context"
	"time"

	"go-employee-gateway/internal/events"
	"go-employee-gateway/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]Employee, error)
	SearchByName(ctx context.Context, query string) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetHighestSalary(ctx context.Context) (int, error)
	GetTopTenHighestEarningNames(ctx context.Context) ([]string, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	DeleteByID(ctx context.Context, id string) (string, error)
}

type service struct {
	client    Client
	publisher EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(client Client, logger ...*zap.Logger) Service {
	return NewServiceWithPublisher(client, nil, logger...)
}

// NewServiceWithPublisher emits lifecycle events after successful writes.
// A nil publisher disables them.
func NewServiceWithPublisher(
	client Client,
	publisher EventPublisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if publisher == nil {
		publisher = noopEventPublisher{}
	}
	return &service{
		client:    client,
		publisher: publisher,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) GetAll(ctx context.Context) ([]Employee, error) {
	s.log(ctx).Debug("get all employees requested")

	list, err := s.client.ListEmployees(ctx)
	if err != nil {
		s.log(ctx).Error("get all employees failed", zap.Error(err))
		return nil, mapUpstreamError(err)
	}

	s.log(ctx).Debug("get all employees success", zap.Int("count", len(list)))
	return list, nil
}

func (s *service) SearchByName(ctx context.Context, query string) ([]Employee, error) {
	s.log(ctx).Debug("search employees requested", zap.String("query", query))

	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return FilterByName(list, query), nil
}

func (s *service) GetByID(ctx context.Context, id string) (Employee, error) {
	s.log(ctx).Debug("get employee by id requested", zap.String("employee_id", id))

	empl, err := s.client.GetEmployee(ctx, id)
	if err != nil {
		s.log(ctx).Error("get employee by id failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return Employee{}, mapUpstreamError(err)
	}

	return empl, nil
}

func (s *service) GetHighestSalary(ctx context.Context) (int, error) {
	list, err := s.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	highest := MaxSalary(list)
	s.log(ctx).Debug("highest salary found", zap.Int("salary", highest))
	return highest, nil
}

func (s *service) GetTopTenHighestEarningNames(ctx context.Context) ([]string, error) {
	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	names := TopNNamesBySalary(list, TopEarnersLimit)
	s.log(ctx).Debug("top earners found", zap.Strings("names", names))
	return names, nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error) {
	rid := contextutil.GetRequestID(ctx)
	s.log(ctx).Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
		zap.String("title", req.Title),
	)

	empl, err := s.client.CreateEmployee(ctx, req)
	if err != nil {
		s.log(ctx).Error("create employee failed", zap.Error(err))
		return Employee{}, mapUpstreamError(err)
	}

	s.publish(ctx, events.EmployeeCreatedType, empl.ID, empl.Name)
	s.log(ctx).Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID),
	)
	return empl, nil
}

// DeleteByID resolves the id to a name and deletes by name, which is the only
// delete the upstream offers. The two calls are not atomic: if the record is
// renamed or removed in between, the delete may hit nothing or a different
// record with the old name.
func (s *service) DeleteByID(ctx context.Context, id string) (string, error) {
	s.log(ctx).Debug("delete employee requested", zap.String("employee_id", id))

	empl, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	deleted, err := s.client.DeleteEmployee(ctx, empl.Name)
	if err != nil {
		s.log(ctx).Error("delete employee failed",
			zap.String("employee_id", id),
			zap.String("name", empl.Name),
			zap.Error(err),
		)
		return "", mapUpstreamError(err)
	}
	if !deleted {
		s.log(ctx).Warn("upstream reported nothing deleted",
			zap.String("employee_id", id),
			zap.String("name", empl.Name),
		)
	}

	s.publish(ctx, events.EmployeeDeletedType, id, empl.Name)
	s.log(ctx).Info("delete employee success",
		zap.String("employee_id", id),
		zap.String("name", empl.Name),
	)
	return empl.Name, nil
}

// publish never fails the request: the upstream write already happened.
func (s *service) publish(ctx context.Context, eventType, employeeID, name string) {
	event := events.EmployeeLifecycleEvent{
		EventType:    eventType,
		RequestID:    contextutil.GetRequestID(ctx),
		EmployeeID:   employeeID,
		EmployeeName: name,
		OccurredAt:   s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log(ctx).Error("publish employee event failed",
			zap.String("event_type", eventType),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}
