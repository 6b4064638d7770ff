package employee

import (
	"context"
	"errors"
	"net"
	"net/http"

	employeeerrors "go-employee-gateway/internal/employee/errors"
	"go-employee-gateway/internal/resilience"
	"go-employee-gateway/internal/shared/apperror"
)

// mapUpstreamError classifies a terminal upstream failure. Every non-nil
// input yields an *apperror.AppError.
func mapUpstreamError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, resilience.ErrRateLimitExceeded) {
		return employeeerrors.ErrRateLimitExceeded.WithCause(err)
	}

	if errors.Is(err, ErrNoData) {
		return employeeerrors.ErrEmployeeNotFound.WithCause(err)
	}

	var sc resilience.StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() == http.StatusNotFound {
		return employeeerrors.ErrEmployeeNotFound.WithCause(err)
	}

	if isTimeout(err) {
		return employeeerrors.ErrExternalAPITimeout.WithCause(err)
	}

	return employeeerrors.ErrExternalAPI.WithCause(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
