package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/identity"
	"github.com/localabilities/portal-api/internal/repository"
	"github.com/localabilities/portal-api/internal/service"
)

// ErrorResponse is the flat error shape the frontend expects.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends the flat error payload.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Error: message})
}

// ServiceError maps domain errors to responses. Validation failures carry
// their localized message; identity-provider failures keep the provider's
// message verbatim so the form can match on it.
func ServiceError(c echo.Context, err error) error {
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		return Error(c, http.StatusBadRequest, fieldErr.Message)
	}

	var providerErr *identity.Error
	if errors.As(err, &providerErr) {
		status := providerErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return Error(c, status, providerErr.Message)
	}

	switch {
	case errors.Is(err, repository.ErrEmailDuplicate):
		return Error(c, http.StatusConflict, "このメールアドレスは既に登録されています")
	case errors.Is(err, repository.ErrProfileNotFound):
		return Error(c, http.StatusNotFound, "プロフィールが見つかりません")
	}

	return Error(c, http.StatusInternalServerError, "サーバーエラーが発生しました")
}
