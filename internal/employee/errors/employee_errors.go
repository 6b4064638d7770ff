package employeeerrors

import (
	"go-employee-gateway/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrRateLimitExceeded = apperror.New(
		apperror.CodeRateLimited,
		"Too many requests to the employee API, try again later",
		http.StatusTooManyRequests,
	)
	ErrExternalAPI = apperror.New(
		apperror.CodeBadGateway,
		"External API error",
		http.StatusBadGateway,
	)
	ErrExternalAPITimeout = apperror.New(
		apperror.CodeBadGateway,
		"External API timed out",
		http.StatusBadGateway,
	)
)
