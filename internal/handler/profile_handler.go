package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/middleware"
	"github.com/localabilities/portal-api/internal/service"
)

// ProfileHandler exposes the company and facility profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// CreateCompany handles POST /api/company. The caller must either hold a
// session or pass the freshly provisioned account id in the body, as the
// registration flow does before its first sign-in.
func (h *ProfileHandler) CreateCompany(c echo.Context) error {
	var req dto.CompanyProfileRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}

	if _, ok := middleware.SessionUserID(c); !ok && strings.TrimSpace(req.UserID) == "" {
		return Error(c, http.StatusUnauthorized, "認証が必要です")
	}

	company, err := h.profiles.CreateCompany(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "company": company})
}

// UpdateCompany handles PATCH /api/company for the signed-in account.
func (h *ProfileHandler) UpdateCompany(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "認証が必要です")
	}

	var req dto.CompanyProfileRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}

	company, err := h.profiles.UpdateCompany(c.Request().Context(), email, req)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "company": company})
}

// GetCompany handles GET /api/company for the signed-in account.
func (h *ProfileHandler) GetCompany(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "認証が必要です")
	}

	company, err := h.profiles.GetCompany(c.Request().Context(), email)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "company": company})
}

// CreateFacility handles POST /api/facility.
func (h *ProfileHandler) CreateFacility(c echo.Context) error {
	var req dto.FacilityProfileRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}

	if _, ok := middleware.SessionUserID(c); !ok && strings.TrimSpace(req.UserID) == "" {
		return Error(c, http.StatusUnauthorized, "認証が必要です")
	}

	facility, err := h.profiles.CreateFacility(c.Request().Context(), req)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "facility": facility})
}

// UpdateFacility handles PATCH /api/facility for the signed-in account.
func (h *ProfileHandler) UpdateFacility(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "認証が必要です")
	}

	var req dto.FacilityProfileRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}

	facility, err := h.profiles.UpdateFacility(c.Request().Context(), email, req)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "facility": facility})
}

// GetFacility handles GET /api/facility for the signed-in account.
func (h *ProfileHandler) GetFacility(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "認証が必要です")
	}

	facility, err := h.profiles.GetFacility(c.Request().Context(), email)
	if err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "facility": facility})
}
