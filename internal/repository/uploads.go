package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localabilities/portal-api/internal/entity"
)

// ErrUploadNotFound is returned when no provisional upload matches the id.
var ErrUploadNotFound = errors.New("provisional upload not found")

// UploadsRepository tracks provisional (pre-account) uploads so abandoned
// temp objects can be swept later.
type UploadsRepository interface {
	Create(ctx context.Context, upload *entity.ProvisionalUpload) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ProvisionalUpload, error)
	MarkClaimed(ctx context.Context, id uuid.UUID) error
	ListExpired(ctx context.Context, before time.Time, limit int) ([]entity.ProvisionalUpload, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGXUploadsRepository implements UploadsRepository using pgx.
type PGXUploadsRepository struct {
	pool pgxPool
}

// NewPGXUploadsRepository wires a pgx backed repository.
func NewPGXUploadsRepository(pool *pgxpool.Pool) *PGXUploadsRepository {
	return &PGXUploadsRepository{pool: pool}
}

// Create records a temp upload keyed by its provisional id.
func (r *PGXUploadsRepository) Create(ctx context.Context, upload *entity.ProvisionalUpload) error {
	if upload == nil {
		return fmt.Errorf("upload payload is nil")
	}

	_, err := r.pool.Exec(ctx, `
        INSERT INTO provisional_uploads (id, entity_kind, storage_path, public_url)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET
            storage_path = EXCLUDED.storage_path,
            public_url = EXCLUDED.public_url
    `, upload.ID, upload.EntityKind, upload.StoragePath, upload.PublicURL)
	if err != nil {
		return fmt.Errorf("insert provisional upload: %w", err)
	}
	return nil
}

// FindByID loads a provisional upload row.
func (r *PGXUploadsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ProvisionalUpload, error) {
	var u entity.ProvisionalUpload
	err := r.pool.QueryRow(ctx, `
        SELECT id, entity_kind, storage_path, public_url, claimed, created_at
        FROM provisional_uploads
        WHERE id = $1
    `, id).Scan(&u.ID, &u.EntityKind, &u.StoragePath, &u.PublicURL, &u.Claimed, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find provisional upload: %w", err)
	}
	return &u, nil
}

// MarkClaimed flags a provisional upload as consumed by the claim procedure.
func (r *PGXUploadsRepository) MarkClaimed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE provisional_uploads SET claimed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark upload claimed: %w", err)
	}
	return nil
}

// ListExpired returns unclaimed uploads older than the cutoff.
func (r *PGXUploadsRepository) ListExpired(ctx context.Context, before time.Time, limit int) ([]entity.ProvisionalUpload, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, entity_kind, storage_path, public_url, claimed, created_at
        FROM provisional_uploads
        WHERE NOT claimed AND created_at < $1
        ORDER BY created_at ASC
        LIMIT $2
    `, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired uploads: %w", err)
	}
	defer rows.Close()

	var uploads []entity.ProvisionalUpload
	for rows.Next() {
		var u entity.ProvisionalUpload
		if err := rows.Scan(&u.ID, &u.EntityKind, &u.StoragePath, &u.PublicURL, &u.Claimed, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan provisional upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provisional uploads: %w", err)
	}
	return uploads, nil
}

// Delete removes a provisional upload row.
func (r *PGXUploadsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM provisional_uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete provisional upload: %w", err)
	}
	return nil
}
