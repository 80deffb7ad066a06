package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/middleware"
)

// PagesHandler serves the minimal server-rendered pages the session gate
// protects. The real UI lives in the frontend; these exist so redirects have
// somewhere to land in standalone deployments.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func page(c echo.Context, title, body string) error {
	html := fmt.Sprintf("<!DOCTYPE html><html lang=\"ja\"><head><meta charset=\"utf-8\"><title>%s</title></head><body><h1>%s</h1>%s</body></html>", title, title, body)
	return c.HTML(http.StatusOK, html)
}

// Login renders the login page.
func (h *PagesHandler) Login(c echo.Context) error {
	return page(c, "ログイン", "<p>アカウントにログインしてください。</p>")
}

// RegisterCompany renders the company registration page.
func (h *PagesHandler) RegisterCompany(c echo.Context) error {
	return page(c, "企業登録", "<p>企業アカウントを登録してください。</p>")
}

// RegisterFacility renders the facility registration page.
func (h *PagesHandler) RegisterFacility(c echo.Context) error {
	return page(c, "施設登録", "<p>施設アカウントを登録してください。</p>")
}

// CompanyDashboard renders the company dashboard.
func (h *PagesHandler) CompanyDashboard(c echo.Context) error {
	email, _ := middleware.SessionEmail(c)
	return page(c, "企業ダッシュボード", fmt.Sprintf("<p>%s としてログイン中です。</p>", email))
}

// FacilityDashboard renders the facility dashboard.
func (h *PagesHandler) FacilityDashboard(c echo.Context) error {
	email, _ := middleware.SessionEmail(c)
	return page(c, "施設ダッシュボード", fmt.Sprintf("<p>%s としてログイン中です。</p>", email))
}

// AuthError renders the landing page for failed confirmation links.
func (h *PagesHandler) AuthError(c echo.Context) error {
	return page(c, "認証エラー", "<p>リンクが無効か、有効期限が切れています。</p>")
}
