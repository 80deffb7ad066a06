package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/metrics"
	"github.com/localabilities/portal-api/internal/service"
)

// ContactHandler exposes the contact-form endpoint.
type ContactHandler struct {
	contact  *service.ContactService
	recorder metrics.Recorder
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(contact *service.ContactService, recorder metrics.Recorder) *ContactHandler {
	return &ContactHandler{contact: contact, recorder: recorder}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}

	if err := h.contact.Submit(req); err != nil {
		var fieldErr *service.FieldError
		if errors.As(err, &fieldErr) {
			return Error(c, http.StatusBadRequest, fieldErr.Message)
		}
		h.recorder.RecordContactMail(false)
		return Error(c, http.StatusInternalServerError, "メールの送信に失敗しました")
	}

	h.recorder.RecordContactMail(true)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
