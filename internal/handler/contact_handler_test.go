package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/mail"
	"github.com/localabilities/portal-api/internal/service"
)

func contactPayload() map[string]any {
	return map[string]any{
		"userType": "company",
		"organizationName": "テスト株式会社",
		"name":     "山田太郎",
		"email":    "yamada@example.co.jp",
		"message":  "相談があります。",
	}
}

func TestContactSubmitSuccess(t *testing.T) {
	e := echo.New()
	sent := false
	sender := &stubSender{send: func(msg mail.Message) error {
		sent = true
		return nil
	}}
	handler := NewContactHandler(service.NewContactService(sender, "noreply@localabilities.com", "info@localabilities.com"), testRecorder())

	c, rec := jsonContext(e, http.MethodPost, "/api/contact", contactPayload())
	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !sent {
		t.Fatal("expected mail to be sent")
	}

	var resp struct {
		Success bool `json:"success"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestContactSubmitValidationError(t *testing.T) {
	e := echo.New()
	sender := &stubSender{send: func(msg mail.Message) error {
		t.Fatal("invalid inquiry must not be sent")
		return nil
	}}
	handler := NewContactHandler(service.NewContactService(sender, "noreply@localabilities.com", "info@localabilities.com"), testRecorder())

	payload := contactPayload()
	payload["name"] = ""

	c, rec := jsonContext(e, http.MethodPost, "/api/contact", payload)
	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestContactSubmitSendFailure(t *testing.T) {
	e := echo.New()
	sender := &stubSender{send: func(msg mail.Message) error {
		return errors.New("smtp down")
	}}
	handler := NewContactHandler(service.NewContactService(sender, "noreply@localabilities.com", "info@localabilities.com"), testRecorder())

	c, rec := jsonContext(e, http.MethodPost, "/api/contact", contactPayload())
	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "メールの送信に失敗しました" {
		t.Fatalf("unexpected message %q", resp.Error)
	}
}
