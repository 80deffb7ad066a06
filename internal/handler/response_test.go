package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/identity"
	"github.com/localabilities/portal-api/internal/repository"
	"github.com/localabilities/portal-api/internal/service"
)

func TestErrorResponseShape(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Error(c, http.StatusBadRequest, "不正なリクエストです"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "不正なリクエストです" {
		t.Fatalf("unexpected payload %v", resp)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	e := echo.New()

	tests := map[string]struct {
		err        error
		expectCode int
		expectMsg  string
	}{
		"field error": {
			err:        &service.FieldError{Field: "email", Message: "emailは必須です"},
			expectCode: http.StatusBadRequest,
			expectMsg:  "emailは必須です",
		},
		"wrapped field error": {
			err:        fmt.Errorf("create company profile: %w", &service.FieldError{Field: "companyName", Message: "companyNameは必須です"}),
			expectCode: http.StatusBadRequest,
			expectMsg:  "companyNameは必須です",
		},
		"provider error keeps status and message": {
			err:        &identity.Error{StatusCode: 422, Message: "User already registered"},
			expectCode: 422,
			expectMsg:  "User already registered",
		},
		"provider error without status": {
			err:        &identity.Error{Message: "upstream unreachable"},
			expectCode: http.StatusBadGateway,
			expectMsg:  "upstream unreachable",
		},
		"duplicate email": {
			err:        fmt.Errorf("create: %w", repository.ErrEmailDuplicate),
			expectCode: http.StatusConflict,
			expectMsg:  "このメールアドレスは既に登録されています",
		},
		"not found": {
			err:        repository.ErrProfileNotFound,
			expectCode: http.StatusNotFound,
			expectMsg:  "プロフィールが見つかりません",
		},
		"unknown": {
			err:        errors.New("boom"),
			expectCode: http.StatusInternalServerError,
			expectMsg:  "サーバーエラーが発生しました",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := ServiceError(c, tt.err); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.expectCode {
				t.Fatalf("expected %d, got %d", tt.expectCode, rec.Code)
			}

			var resp ErrorResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Error != tt.expectMsg {
				t.Fatalf("expected %q, got %q", tt.expectMsg, resp.Error)
			}
		})
	}
}
