package service

import (
	"context"
	"testing"

	"github.com/localabilities/portal-api/internal/entity"
)

func TestCreateCompanyResolvesUploadToken(t *testing.T) {
	var created *entity.Company
	companies := &stubCompaniesRepo{
		create: func(ctx context.Context, company *entity.Company) (*entity.Company, error) {
			created = company
			return company, nil
		},
	}
	svc := NewProfileService(companies, &stubFacilitiesRepo{})

	req := validCompanyRegistration().CompanyProfileRequest
	req.ImageURL = `{"url":"https://cdn.example.com/x/profile.png","tempId":"abc","path":"temp/companies/abc/profile.png"}`

	if _, err := svc.CreateCompany(context.Background(), req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ImageURL != "https://cdn.example.com/x/profile.png" {
		t.Fatalf("token not resolved to url: %q", created.ImageURL)
	}
}

func TestCreateCompanyKeepsPlainImageURL(t *testing.T) {
	var created *entity.Company
	companies := &stubCompaniesRepo{
		create: func(ctx context.Context, company *entity.Company) (*entity.Company, error) {
			created = company
			return company, nil
		},
	}
	svc := NewProfileService(companies, &stubFacilitiesRepo{})

	req := validCompanyRegistration().CompanyProfileRequest
	req.ImageURL = "https://cdn.example.com/plain.png"

	if _, err := svc.CreateCompany(context.Background(), req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ImageURL != "https://cdn.example.com/plain.png" {
		t.Fatalf("plain url must pass through: %q", created.ImageURL)
	}
}

func TestCreateCompanyRoundTripsByEmail(t *testing.T) {
	var stored *entity.Company
	companies := &stubCompaniesRepo{
		create: func(ctx context.Context, company *entity.Company) (*entity.Company, error) {
			stored = company
			return company, nil
		},
		findByEmail: func(ctx context.Context, email string) (*entity.Company, error) {
			if stored == nil || stored.Email != email {
				t.Errorf("lookup email = %q, want %q", email, stored.Email)
			}
			return stored, nil
		},
	}
	svc := NewProfileService(companies, &stubFacilitiesRepo{})

	req := validCompanyRegistration().CompanyProfileRequest
	if _, err := svc.CreateCompany(context.Background(), req); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetCompany(context.Background(), req.Email)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CompanyName != req.CompanyName || got.PhoneNumber != req.PhoneNumber || got.Industry != req.Industry {
		t.Fatalf("fetched profile diverged from the submitted one: %+v", got)
	}
}

func TestUpdateCompanyPinsEmailToAccount(t *testing.T) {
	var updatedEmail string
	var updated *entity.Company
	companies := &stubCompaniesRepo{
		updateByEmail: func(ctx context.Context, email string, company *entity.Company) (*entity.Company, error) {
			updatedEmail = email
			updated = company
			return company, nil
		},
	}
	svc := NewProfileService(companies, &stubFacilitiesRepo{})

	req := validCompanyRegistration().CompanyProfileRequest
	req.Email = "attacker@example.com"

	if _, err := svc.UpdateCompany(context.Background(), "owner@example.co.jp", req); err != nil {
		t.Fatalf("update: %v", err)
	}
	if updatedEmail != "owner@example.co.jp" || updated.Email != "owner@example.co.jp" {
		t.Fatalf("update must be keyed to the session email, got %q / %q", updatedEmail, updated.Email)
	}
}

func TestUpdateFacilityValidates(t *testing.T) {
	svc := NewProfileService(&stubCompaniesRepo{}, &stubFacilitiesRepo{})

	req := validFacilityRegistration().FacilityProfileRequest
	req.DisabilityTypes = nil

	if _, err := svc.UpdateFacility(context.Background(), "owner@example.or.jp", req); err == nil {
		t.Fatal("expected validation error")
	}
}
