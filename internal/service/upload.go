package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/entity"
	"github.com/localabilities/portal-api/internal/repository"
	"github.com/localabilities/portal-api/internal/storage"
)

// MaxUploadSize caps profile-image uploads at 2MiB.
const MaxUploadSize = 2 << 20

// extByMIME maps the accepted image types to the stored file extension.
var extByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// BlobStore is the object-storage surface the upload and claim services need.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, opts storage.UploadOptions) error
	Copy(ctx context.Context, fromPath, toPath string) error
	Remove(ctx context.Context, paths []string) error
	PublicURL(path string) string
}

var (
	ErrImageTooLarge = &FieldError{Field: "image", Message: "ファイルサイズは2MB以下にしてください"}
	ErrImageBadType  = &FieldError{Field: "image", Message: "JPG、PNG、WEBP形式の画像をアップロードしてください"}
)

// UploadInput is one profile-image upload. UserID is empty for pre-account
// uploads, which then land under the temp/ prefix.
type UploadInput struct {
	Kind     string
	FileName string
	Data     []byte
	UserID   string
}

// UploadService stores profile images and tracks provisional (pre-account)
// uploads for the sweeper.
type UploadService struct {
	store   BlobStore
	uploads repository.UploadsRepository
	logger  *slog.Logger
}

func NewUploadService(store BlobStore, uploads repository.UploadsRepository, logger *slog.Logger) *UploadService {
	return &UploadService{store: store, uploads: uploads, logger: logger}
}

// ValidateImage enforces the size and type limits. It runs before any request
// leaves the process.
func ValidateImage(data []byte) (contentType string, err error) {
	if len(data) > MaxUploadSize {
		return "", ErrImageTooLarge
	}
	contentType = http.DetectContentType(data)
	if _, ok := extByMIME[contentType]; !ok {
		return "", ErrImageBadType
	}
	return contentType, nil
}

// UploadProfileImage validates the image, stores it, and returns the token
// the profile form embeds in its imageUrl field. Pre-account uploads get a
// provisional id and a temp path; updates for an existing account overwrite
// the account's image in place.
func (s *UploadService) UploadProfileImage(ctx context.Context, in UploadInput) (dto.UploadToken, error) {
	contentType, err := ValidateImage(in.Data)
	if err != nil {
		return dto.UploadToken{}, err
	}

	kind := in.Kind
	if kind != entity.KindCompanies && kind != entity.KindFacilities {
		return dto.UploadToken{}, fmt.Errorf("unknown entity kind %q", kind)
	}

	ext := strings.TrimPrefix(path.Ext(in.FileName), ".")
	if ext == "" || ext == "jpeg" {
		ext = extByMIME[contentType]
	}

	isNew := in.UserID == ""
	effectiveID := in.UserID
	if isNew {
		effectiveID = uuid.NewString()
	}

	objectPath := fmt.Sprintf("%s/%s/profile.%s", kind, effectiveID, ext)
	if isNew {
		objectPath = "temp/" + objectPath
	}

	opts := storage.UploadOptions{
		ContentType:  contentType,
		CacheControl: "3600",
		Upsert:       true,
	}
	if err := s.store.Upload(ctx, objectPath, in.Data, opts); err != nil {
		return dto.UploadToken{}, fmt.Errorf("upload profile image: %w", err)
	}

	token := dto.UploadToken{URL: s.store.PublicURL(objectPath)}
	if isNew {
		token.TempID = &effectiveID
		token.Path = objectPath

		id, err := uuid.Parse(effectiveID)
		if err == nil {
			record := &entity.ProvisionalUpload{
				ID:          id,
				EntityKind:  kind,
				StoragePath: objectPath,
				PublicURL:   token.URL,
			}
			if err := s.uploads.Create(ctx, record); err != nil {
				// The blob exists either way; the sweeper just cannot see
				// this one. Hand the token back to the user regardless.
				s.logger.Warn("record provisional upload", "path", objectPath, "error", err)
			}
		}
	}

	return token, nil
}
