package service

import (
	"context"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/entity"
	"github.com/localabilities/portal-api/internal/repository"
)

// ProfileService owns company and facility profile rows. Create resolves
// upload tokens embedded in imageUrl; updates are keyed by account email and
// never change it.
type ProfileService struct {
	companies  repository.CompaniesRepository
	facilities repository.FacilitiesRepository
}

func NewProfileService(companies repository.CompaniesRepository, facilities repository.FacilitiesRepository) *ProfileService {
	return &ProfileService{companies: companies, facilities: facilities}
}

func companyFromRequest(req dto.CompanyProfileRequest, imageURL string) *entity.Company {
	return &entity.Company{
		CompanyName:    req.CompanyName,
		Email:          req.Email,
		Representative: req.Representative,
		PhoneNumber:    req.PhoneNumber,
		PostalCode:     req.PostalCode,
		Prefecture:     req.Prefecture,
		City:           req.City,
		Address:        req.Address,
		CompanySize:    req.CompanySize,
		Industry:       req.Industry,
		Description:    req.Description,
		WebsiteURL:     req.WebsiteURL,
		ImageURL:       imageURL,
	}
}

func facilityFromRequest(req dto.FacilityProfileRequest, imageURL string) *entity.Facility {
	return &entity.Facility{
		FacilityName:    req.FacilityName,
		Email:           req.Email,
		Representative:  req.Representative,
		PhoneNumber:     req.PhoneNumber,
		PostalCode:      req.PostalCode,
		Prefecture:      req.Prefecture,
		City:            req.City,
		Address:         req.Address,
		FacilityType:    req.FacilityType,
		Capacity:        req.Capacity,
		DisabilityTypes: req.DisabilityTypes,
		Specialties:     req.Specialties,
		Description:     req.Description,
		WebsiteURL:      req.WebsiteURL,
		ImageURL:        imageURL,
	}
}

// CreateCompany validates and inserts a company profile. The imageUrl field
// may still carry a serialized upload token, in which case only its URL is
// stored.
func (s *ProfileService) CreateCompany(ctx context.Context, req dto.CompanyProfileRequest) (*entity.Company, error) {
	if err := ValidateCompanyProfile(req, false); err != nil {
		return nil, err
	}
	imageURL := dto.ParseImageURL(req.ImageURL).URL
	return s.companies.Create(ctx, companyFromRequest(req, imageURL))
}

// UpdateCompany rewrites the profile row for the signed-in account.
func (s *ProfileService) UpdateCompany(ctx context.Context, email string, req dto.CompanyProfileRequest) (*entity.Company, error) {
	req.Email = email
	if err := ValidateCompanyProfile(req, true); err != nil {
		return nil, err
	}
	imageURL := dto.ParseImageURL(req.ImageURL).URL
	return s.companies.UpdateByEmail(ctx, email, companyFromRequest(req, imageURL))
}

// GetCompany loads the profile for an account email.
func (s *ProfileService) GetCompany(ctx context.Context, email string) (*entity.Company, error) {
	return s.companies.FindByEmail(ctx, email)
}

// CreateFacility validates and inserts a facility profile.
func (s *ProfileService) CreateFacility(ctx context.Context, req dto.FacilityProfileRequest) (*entity.Facility, error) {
	if err := ValidateFacilityProfile(req, false); err != nil {
		return nil, err
	}
	imageURL := dto.ParseImageURL(req.ImageURL).URL
	return s.facilities.Create(ctx, facilityFromRequest(req, imageURL))
}

// UpdateFacility rewrites the profile row for the signed-in account.
func (s *ProfileService) UpdateFacility(ctx context.Context, email string, req dto.FacilityProfileRequest) (*entity.Facility, error) {
	req.Email = email
	if err := ValidateFacilityProfile(req, true); err != nil {
		return nil, err
	}
	imageURL := dto.ParseImageURL(req.ImageURL).URL
	return s.facilities.UpdateByEmail(ctx, email, facilityFromRequest(req, imageURL))
}

// GetFacility loads the profile for an account email.
func (s *ProfileService) GetFacility(ctx context.Context, email string) (*entity.Facility, error) {
	return s.facilities.FindByEmail(ctx, email)
}
