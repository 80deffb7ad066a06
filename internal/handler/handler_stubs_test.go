package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/localabilities/portal-api/internal/entity"
	"github.com/localabilities/portal-api/internal/mail"
	"github.com/localabilities/portal-api/internal/metrics"
	"github.com/localabilities/portal-api/internal/repository"
	"github.com/localabilities/portal-api/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecorder() metrics.Recorder {
	return metrics.NewCollector(prometheus.NewRegistry())
}

type stubCompaniesRepo struct {
	create        func(ctx context.Context, company *entity.Company) (*entity.Company, error)
	findByEmail   func(ctx context.Context, email string) (*entity.Company, error)
	updateByEmail func(ctx context.Context, email string, company *entity.Company) (*entity.Company, error)
}

func (s *stubCompaniesRepo) Create(ctx context.Context, company *entity.Company) (*entity.Company, error) {
	if s.create != nil {
		return s.create(ctx, company)
	}
	return company, nil
}

func (s *stubCompaniesRepo) FindByEmail(ctx context.Context, email string) (*entity.Company, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return &entity.Company{Email: email}, nil
}

func (s *stubCompaniesRepo) UpdateByEmail(ctx context.Context, email string, company *entity.Company) (*entity.Company, error) {
	if s.updateByEmail != nil {
		return s.updateByEmail(ctx, email, company)
	}
	return company, nil
}

type stubFacilitiesRepo struct {
	create        func(ctx context.Context, facility *entity.Facility) (*entity.Facility, error)
	findByEmail   func(ctx context.Context, email string) (*entity.Facility, error)
	updateByEmail func(ctx context.Context, email string, facility *entity.Facility) (*entity.Facility, error)
}

func (s *stubFacilitiesRepo) Create(ctx context.Context, facility *entity.Facility) (*entity.Facility, error) {
	if s.create != nil {
		return s.create(ctx, facility)
	}
	return facility, nil
}

func (s *stubFacilitiesRepo) FindByEmail(ctx context.Context, email string) (*entity.Facility, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return &entity.Facility{Email: email}, nil
}

func (s *stubFacilitiesRepo) UpdateByEmail(ctx context.Context, email string, facility *entity.Facility) (*entity.Facility, error) {
	if s.updateByEmail != nil {
		return s.updateByEmail(ctx, email, facility)
	}
	return facility, nil
}

type stubUploadsRepo struct {
	create      func(ctx context.Context, upload *entity.ProvisionalUpload) error
	markClaimed func(ctx context.Context, id uuid.UUID) error
}

func (s *stubUploadsRepo) Create(ctx context.Context, upload *entity.ProvisionalUpload) error {
	if s.create != nil {
		return s.create(ctx, upload)
	}
	return nil
}

func (s *stubUploadsRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.ProvisionalUpload, error) {
	return nil, repository.ErrUploadNotFound
}

func (s *stubUploadsRepo) MarkClaimed(ctx context.Context, id uuid.UUID) error {
	if s.markClaimed != nil {
		return s.markClaimed(ctx, id)
	}
	return nil
}

func (s *stubUploadsRepo) ListExpired(ctx context.Context, before time.Time, limit int) ([]entity.ProvisionalUpload, error) {
	return nil, nil
}

func (s *stubUploadsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubAttemptsRepo struct {
	record func(ctx context.Context, email, role, state string, steps any) error
}

func (s *stubAttemptsRepo) RecordAttempt(ctx context.Context, email, role, state string, steps any) error {
	if s.record != nil {
		return s.record(ctx, email, role, state, steps)
	}
	return nil
}

type stubStore struct {
	upload func(ctx context.Context, path string, data []byte, opts storage.UploadOptions) error
	copyFn func(ctx context.Context, fromPath, toPath string) error
}

func (s *stubStore) Upload(ctx context.Context, path string, data []byte, opts storage.UploadOptions) error {
	if s.upload != nil {
		return s.upload(ctx, path, data, opts)
	}
	return nil
}

func (s *stubStore) Copy(ctx context.Context, fromPath, toPath string) error {
	if s.copyFn != nil {
		return s.copyFn(ctx, fromPath, toPath)
	}
	return nil
}

func (s *stubStore) Remove(ctx context.Context, paths []string) error {
	return nil
}

func (s *stubStore) PublicURL(path string) string {
	return "https://cdn.example.com/object/public/profile-images/" + path
}

type stubSender struct {
	send func(msg mail.Message) error
}

func (s *stubSender) Send(msg mail.Message) error {
	if s.send != nil {
		return s.send(msg)
	}
	return nil
}
