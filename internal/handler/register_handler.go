package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/metrics"
	"github.com/localabilities/portal-api/internal/service"
)

// RegisterHandler exposes the signup saga endpoints.
type RegisterHandler struct {
	registration *service.RegistrationService
	recorder     metrics.Recorder
}

// NewRegisterHandler constructs a RegisterHandler.
func NewRegisterHandler(registration *service.RegistrationService, recorder metrics.Recorder) *RegisterHandler {
	return &RegisterHandler{registration: registration, recorder: recorder}
}

// RegisterCompany handles POST /api/register/company.
func (h *RegisterHandler) RegisterCompany(c echo.Context) error {
	var req dto.CompanyRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}

	result, err := h.registration.RegisterCompany(c.Request().Context(), req)
	if result != nil {
		h.recorder.RecordRegistration("company", result.State)
	}
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "registration": result})
}

// RegisterFacility handles POST /api/register/facility.
func (h *RegisterHandler) RegisterFacility(c echo.Context) error {
	var req dto.FacilityRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}

	result, err := h.registration.RegisterFacility(c.Request().Context(), req)
	if result != nil {
		h.recorder.RecordRegistration("facility", result.State)
	}
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "registration": result})
}
