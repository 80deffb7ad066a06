package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/entity"
	"github.com/localabilities/portal-api/internal/metrics"
	"github.com/localabilities/portal-api/internal/middleware"
	"github.com/localabilities/portal-api/internal/service"
)

// UploadHandler exposes the profile-image upload endpoint.
type UploadHandler struct {
	uploads  *service.UploadService
	recorder metrics.Recorder
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(uploads *service.UploadService, recorder metrics.Recorder) *UploadHandler {
	return &UploadHandler{uploads: uploads, recorder: recorder}
}

// UploadProfileImage handles POST /api/upload/profile-image. Anonymous
// callers (the registration form) get a provisional token; signed-in callers
// overwrite their account image.
func (h *UploadHandler) UploadProfileImage(c echo.Context) error {
	kind := c.FormValue("kind")
	if kind != entity.KindCompanies && kind != entity.KindFacilities {
		return Error(c, http.StatusBadRequest, "不正なアップロード種別です")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "画像ファイルを選択してください")
	}
	if fileHeader.Size > service.MaxUploadSize {
		return Error(c, http.StatusBadRequest, service.ErrImageTooLarge.Message)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "画像ファイルの読み込みに失敗しました")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadSize+1))
	if err != nil {
		return Error(c, http.StatusBadRequest, "画像ファイルの読み込みに失敗しました")
	}

	userID, _ := middleware.SessionUserID(c)

	token, err := h.uploads.UploadProfileImage(c.Request().Context(), service.UploadInput{
		Kind:     kind,
		FileName: fileHeader.Filename,
		Data:     data,
		UserID:   userID,
	})
	if err != nil {
		var fieldErr *service.FieldError
		if errors.As(err, &fieldErr) {
			return Error(c, http.StatusBadRequest, fieldErr.Message)
		}
		return Error(c, http.StatusBadGateway, "画像のアップロードに失敗しました")
	}

	h.recorder.RecordUpload(kind)
	return c.JSON(http.StatusOK, token)
}
