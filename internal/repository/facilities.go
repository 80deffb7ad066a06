package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localabilities/portal-api/internal/entity"
)

// FacilitiesRepository describes persistence operations for facility profiles.
type FacilitiesRepository interface {
	Create(ctx context.Context, facility *entity.Facility) (*entity.Facility, error)
	FindByEmail(ctx context.Context, email string) (*entity.Facility, error)
	UpdateByEmail(ctx context.Context, email string, facility *entity.Facility) (*entity.Facility, error)
}

// PGXFacilitiesRepository implements FacilitiesRepository using pgx.
type PGXFacilitiesRepository struct {
	pool pgxPool
}

// NewPGXFacilitiesRepository wires a pgx backed repository.
func NewPGXFacilitiesRepository(pool *pgxpool.Pool) *PGXFacilitiesRepository {
	return &PGXFacilitiesRepository{pool: pool}
}

const facilityColumns = `id, facility_name, email, representative, phone_number, postal_code, prefecture, city, address, facility_type, capacity, disability_types, specialties, description, website_url, image_url, created_at, updated_at`

// Create inserts a new facility profile.
func (r *PGXFacilitiesRepository) Create(ctx context.Context, facility *entity.Facility) (*entity.Facility, error) {
	if facility == nil {
		return nil, fmt.Errorf("facility payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO facilities (
            facility_name, email, representative, phone_number, postal_code,
            prefecture, city, address, facility_type, capacity,
            disability_types, specialties, description, website_url, image_url
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING `+facilityColumns,
		facility.FacilityName,
		facility.Email,
		facility.Representative,
		facility.PhoneNumber,
		facility.PostalCode,
		facility.Prefecture,
		facility.City,
		facility.Address,
		facility.FacilityType,
		facility.Capacity,
		stringSliceOrEmpty(facility.DisabilityTypes),
		stringSliceOrEmpty(facility.Specialties),
		facility.Description,
		facility.WebsiteURL,
		facility.ImageURL,
	)

	created, err := scanFacility(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrEmailDuplicate, err)
		}
		return nil, fmt.Errorf("insert facility: %w", err)
	}
	return created, nil
}

// FindByEmail fetches a facility profile by account email.
func (r *PGXFacilitiesRepository) FindByEmail(ctx context.Context, email string) (*entity.Facility, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+facilityColumns+` FROM facilities WHERE email = $1`, email)

	facility, err := scanFacility(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query facility by email: %w", err)
	}
	return facility, nil
}

// UpdateByEmail mutates a facility profile keyed by the session email.
func (r *PGXFacilitiesRepository) UpdateByEmail(ctx context.Context, email string, facility *entity.Facility) (*entity.Facility, error) {
	if facility == nil {
		return nil, fmt.Errorf("facility payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        UPDATE facilities SET
            facility_name = $1,
            representative = $2,
            phone_number = $3,
            postal_code = $4,
            prefecture = $5,
            city = $6,
            address = $7,
            facility_type = $8,
            capacity = $9,
            disability_types = $10,
            specialties = $11,
            description = $12,
            website_url = $13,
            image_url = $14,
            updated_at = NOW()
        WHERE email = $15
        RETURNING `+facilityColumns,
		facility.FacilityName,
		facility.Representative,
		facility.PhoneNumber,
		facility.PostalCode,
		facility.Prefecture,
		facility.City,
		facility.Address,
		facility.FacilityType,
		facility.Capacity,
		stringSliceOrEmpty(facility.DisabilityTypes),
		stringSliceOrEmpty(facility.Specialties),
		facility.Description,
		facility.WebsiteURL,
		facility.ImageURL,
		email,
	)

	updated, err := scanFacility(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("update facility: %w", err)
	}
	return updated, nil
}

func scanFacility(row pgx.Row) (*entity.Facility, error) {
	var f entity.Facility
	err := row.Scan(
		&f.ID,
		&f.FacilityName,
		&f.Email,
		&f.Representative,
		&f.PhoneNumber,
		&f.PostalCode,
		&f.Prefecture,
		&f.City,
		&f.Address,
		&f.FacilityType,
		&f.Capacity,
		&f.DisabilityTypes,
		&f.Specialties,
		&f.Description,
		&f.WebsiteURL,
		&f.ImageURL,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
