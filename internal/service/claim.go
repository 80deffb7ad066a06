package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/entity"
	"github.com/localabilities/portal-api/internal/metrics"
	"github.com/localabilities/portal-api/internal/repository"
)

// Claim outcomes as reported to the metrics collector.
const (
	claimOutcomeMoved    = "moved"
	claimOutcomeKeptTemp = "kept_temp"
	claimOutcomeRejected = "rejected"
)

// ClaimService moves a provisional temp upload to its permanent per-account
// location once registration has produced an account id.
type ClaimService struct {
	store    BlobStore
	uploads  repository.UploadsRepository
	recorder metrics.Recorder
	logger   *slog.Logger
}

func NewClaimService(store BlobStore, uploads repository.UploadsRepository, recorder metrics.Recorder, logger *slog.Logger) *ClaimService {
	return &ClaimService{store: store, uploads: uploads, recorder: recorder, logger: logger}
}

// Claim resolves an upload token to the final image URL. Registration never
// fails because of the image: every degradation keeps the URL the token
// already carries.
func (s *ClaimService) Claim(ctx context.Context, token dto.UploadToken, kind, accountID string) string {
	if token.TempID == nil || token.Path == "" {
		return token.URL
	}

	// The token round-trips through the client; only objects this service
	// recorded under that temp id may be copied or removed.
	upload, ok := s.lookup(ctx, token)
	if !ok {
		s.recorder.RecordClaim(claimOutcomeRejected)
		return token.URL
	}

	newPath := fmt.Sprintf("%s/%s/profile%s", kind, accountID, path.Ext(upload.StoragePath))
	if err := s.store.Copy(ctx, upload.StoragePath, newPath); err != nil {
		s.logger.Warn("claim copy failed, keeping temp url", "from", upload.StoragePath, "to", newPath, "error", err)
		s.recorder.RecordClaim(claimOutcomeKeptTemp)
		return token.URL
	}

	finalURL := s.store.PublicURL(newPath)

	if err := s.store.Remove(ctx, []string{upload.StoragePath}); err != nil {
		s.logger.Warn("remove temp upload", "path", upload.StoragePath, "error", err)
	}
	if err := s.uploads.MarkClaimed(ctx, upload.ID); err != nil {
		s.logger.Warn("mark upload claimed", "id", upload.ID, "error", err)
	}

	s.recorder.RecordClaim(claimOutcomeMoved)
	return finalURL
}

// lookup matches the token against its recorded provisional upload. Unknown
// ids, already-claimed rows and path mismatches all disqualify the token.
func (s *ClaimService) lookup(ctx context.Context, token dto.UploadToken) (*entity.ProvisionalUpload, bool) {
	id, err := uuid.Parse(*token.TempID)
	if err != nil {
		s.logger.Warn("claim token with malformed temp id", "tempId", *token.TempID)
		return nil, false
	}

	upload, err := s.uploads.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("claim token has no provisional upload", "id", id, "error", err)
		return nil, false
	}
	if upload.Claimed || upload.StoragePath != token.Path {
		s.logger.Warn("claim token does not match the recorded upload", "id", id, "path", token.Path)
		return nil, false
	}
	return upload, true
}
