package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"go-employee-gateway/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	cause := errors.New("upstream said no")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails any
	}{
		{"nil", nil, http.StatusOK, "", nil},
		{"plain error is internal", cause, http.StatusInternalServerError, apperror.CodeInternalError, nil},
		{"app error keeps status", apperror.ErrNotFound, http.StatusNotFound, apperror.CodeNotFound, nil},
		{"client error exposes cause", apperror.ErrInvalidInput.WithCause(cause), http.StatusBadRequest, apperror.CodeInvalidInput, cause.Error()},
		{
			"server error hides cause",
			apperror.Wrap(cause, apperror.CodeBadGateway, "External API error", http.StatusBadGateway),
			http.StatusBadGateway, apperror.CodeBadGateway, nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperror.ToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantDetails, got.Details)
		})
	}
}

func TestAppError_Is(t *testing.T) {
	cause := errors.New("boom")
	wrapped := apperror.ErrNotFound.WithCause(cause)

	assert.ErrorIs(t, wrapped, apperror.ErrNotFound)
	assert.ErrorIs(t, wrapped, cause)
	assert.NotErrorIs(t, wrapped, apperror.ErrInternal)
	assert.Same(t, apperror.ErrNotFound, apperror.ErrNotFound.WithCause(nil))
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", http.StatusInternalServerError))
}

type createRequest struct {
	FullName string `json:"full_name" binding:"required,notblank"`
	Age      int    `json:"age" binding:"gte=16"`
}

func TestMapValidationError(t *testing.T) {
	apperror.Init()

	t.Run("blank string is required", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(createRequest{FullName: "  ", Age: 20})

		assert.EqualError(t, apperror.MapValidationError(err), "Full Name is required")
	})

	t.Run("rule failure is invalid", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(createRequest{FullName: "Bob", Age: 3})

		assert.EqualError(t, apperror.MapValidationError(err), "Age is invalid")
	})

	t.Run("non validator error", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("unexpected EOF"))

		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, apperror.CodeInvalidInput, got.Code)
		assert.Equal(t, "Invalid input", got.Message)
		assert.Equal(t, "unexpected EOF", got.Details)
	})
}
