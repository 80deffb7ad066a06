package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localabilities/portal-api/internal/entity"
)

// Sentinel errors shared by the profile repositories.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailDuplicate  = errors.New("email already exists")
)

// CompaniesRepository describes persistence operations for company profiles.
type CompaniesRepository interface {
	Create(ctx context.Context, company *entity.Company) (*entity.Company, error)
	FindByEmail(ctx context.Context, email string) (*entity.Company, error)
	UpdateByEmail(ctx context.Context, email string, company *entity.Company) (*entity.Company, error)
}

// PGXCompaniesRepository implements CompaniesRepository using pgx.
type PGXCompaniesRepository struct {
	pool pgxPool
}

// NewPGXCompaniesRepository wires a pgx backed repository.
func NewPGXCompaniesRepository(pool *pgxpool.Pool) *PGXCompaniesRepository {
	return &PGXCompaniesRepository{pool: pool}
}

const companyColumns = `id, company_name, email, representative, phone_number, postal_code, prefecture, city, address, company_size, industry, description, website_url, image_url, created_at, updated_at`

// Create inserts a new company profile. Email uniqueness is enforced by the
// schema: one profile per identity-provider account.
func (r *PGXCompaniesRepository) Create(ctx context.Context, company *entity.Company) (*entity.Company, error) {
	if company == nil {
		return nil, fmt.Errorf("company payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO companies (
            company_name, email, representative, phone_number, postal_code,
            prefecture, city, address, company_size, industry, description,
            website_url, image_url
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING `+companyColumns,
		company.CompanyName,
		company.Email,
		company.Representative,
		company.PhoneNumber,
		company.PostalCode,
		company.Prefecture,
		company.City,
		company.Address,
		company.CompanySize,
		company.Industry,
		company.Description,
		company.WebsiteURL,
		company.ImageURL,
	)

	created, err := scanCompany(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrEmailDuplicate, err)
		}
		return nil, fmt.Errorf("insert company: %w", err)
	}
	return created, nil
}

// FindByEmail fetches a company profile by account email.
func (r *PGXCompaniesRepository) FindByEmail(ctx context.Context, email string) (*entity.Company, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE email = $1`, email)

	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query company by email: %w", err)
	}
	return company, nil
}

// UpdateByEmail mutates a company profile keyed by the session email. The
// email itself mirrors the identity provider and is never changed here.
func (r *PGXCompaniesRepository) UpdateByEmail(ctx context.Context, email string, company *entity.Company) (*entity.Company, error) {
	if company == nil {
		return nil, fmt.Errorf("company payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        UPDATE companies SET
            company_name = $1,
            representative = $2,
            phone_number = $3,
            postal_code = $4,
            prefecture = $5,
            city = $6,
            address = $7,
            company_size = $8,
            industry = $9,
            description = $10,
            website_url = $11,
            image_url = $12,
            updated_at = NOW()
        WHERE email = $13
        RETURNING `+companyColumns,
		company.CompanyName,
		company.Representative,
		company.PhoneNumber,
		company.PostalCode,
		company.Prefecture,
		company.City,
		company.Address,
		company.CompanySize,
		company.Industry,
		company.Description,
		company.WebsiteURL,
		company.ImageURL,
		email,
	)

	updated, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("update company: %w", err)
	}
	return updated, nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID,
		&c.CompanyName,
		&c.Email,
		&c.Representative,
		&c.PhoneNumber,
		&c.PostalCode,
		&c.Prefecture,
		&c.City,
		&c.Address,
		&c.CompanySize,
		&c.Industry,
		&c.Description,
		&c.WebsiteURL,
		&c.ImageURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
