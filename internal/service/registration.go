package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/entity"
	"github.com/localabilities/portal-api/internal/identity"
	"github.com/localabilities/portal-api/internal/repository"
)

// Registration saga states. Validation failures stay in editing; once the
// account step runs the attempt ends in success or failed.
const (
	RegistrationStateEditing    = "editing"
	RegistrationStateSubmitting = "submitting"
	RegistrationStateSuccess    = "success"
	RegistrationStateFailed     = "failed"
)

// Saga step names as persisted in registration_attempts.
const (
	stepSignUp  = "sign_up"
	stepClaim   = "claim_image"
	stepProfile = "create_profile"
)

// StepOutcome records one saga step for the registration_attempts audit row.
type StepOutcome struct {
	Step   string `json:"step"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// RegistrationResult reports a finished attempt.
type RegistrationResult struct {
	State    string        `json:"state"`
	Email    string        `json:"email"`
	UserID   string        `json:"userId"`
	ImageURL string        `json:"imageUrl,omitempty"`
	Steps    []StepOutcome `json:"steps"`
}

type accountProvisioner interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*identity.SignUpResult, error)
}

type imageClaimer interface {
	Claim(ctx context.Context, token dto.UploadToken, kind, accountID string) string
}

// RegistrationService runs the signup saga: provision the identity account,
// claim the provisional profile image, insert the profile row. Image claiming
// is best-effort; the account and profile steps are not.
type RegistrationService struct {
	identity accountProvisioner
	claims   imageClaimer
	profiles *ProfileService
	attempts repository.RegistrationsRepository
	logger   *slog.Logger
}

func NewRegistrationService(
	provider accountProvisioner,
	claims imageClaimer,
	profiles *ProfileService,
	attempts repository.RegistrationsRepository,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		identity: provider,
		claims:   claims,
		profiles: profiles,
		attempts: attempts,
		logger:   logger,
	}
}

// RegisterCompany runs the company signup saga. A *FieldError return means
// the form never left the editing state and no account was provisioned; no
// attempt row is written for those.
func (s *RegistrationService) RegisterCompany(ctx context.Context, req dto.CompanyRegistrationRequest) (*RegistrationResult, error) {
	if err := ValidateCompanyRegistration(req); err != nil {
		return &RegistrationResult{State: RegistrationStateEditing, Email: req.Email}, err
	}
	return s.run(ctx, sagaInput{
		email:    req.Email,
		password: req.Password,
		role:     "company",
		kind:     entity.KindCompanies,
		metadata: map[string]any{"company_name": req.CompanyName, "role": "company"},
		imageURL: req.ImageURL,
		createProfile: func(ctx context.Context, userID, imageURL string) error {
			profile := req.CompanyProfileRequest
			profile.UserID = userID
			profile.ImageURL = imageURL
			_, err := s.profiles.CreateCompany(ctx, profile)
			return err
		},
	})
}

// RegisterFacility runs the facility signup saga.
func (s *RegistrationService) RegisterFacility(ctx context.Context, req dto.FacilityRegistrationRequest) (*RegistrationResult, error) {
	if err := ValidateFacilityRegistration(req); err != nil {
		return &RegistrationResult{State: RegistrationStateEditing, Email: req.Email}, err
	}
	return s.run(ctx, sagaInput{
		email:    req.Email,
		password: req.Password,
		role:     "facility",
		kind:     entity.KindFacilities,
		metadata: map[string]any{"facility_name": req.FacilityName, "role": "facility"},
		imageURL: req.ImageURL,
		createProfile: func(ctx context.Context, userID, imageURL string) error {
			profile := req.FacilityProfileRequest
			profile.UserID = userID
			profile.ImageURL = imageURL
			_, err := s.profiles.CreateFacility(ctx, profile)
			return err
		},
	})
}

type sagaInput struct {
	email         string
	password      string
	role          string
	kind          string
	metadata      map[string]any
	imageURL      string
	createProfile func(ctx context.Context, userID, imageURL string) error
}

func (s *RegistrationService) run(ctx context.Context, in sagaInput) (*RegistrationResult, error) {
	result := &RegistrationResult{State: RegistrationStateSubmitting, Email: in.email}

	signUp, err := s.identity.SignUp(ctx, in.email, in.password, in.metadata)
	if err != nil {
		result.State = RegistrationStateFailed
		result.Steps = append(result.Steps, StepOutcome{Step: stepSignUp, Detail: err.Error()})
		s.record(ctx, in, result)
		return result, err
	}
	if signUp.User != nil {
		result.UserID = signUp.User.ID
	}
	result.Steps = append(result.Steps, StepOutcome{Step: stepSignUp, OK: true})

	imageURL := in.imageURL
	token := dto.ParseImageURL(in.imageURL)
	if token.TempID != nil && result.UserID != "" {
		imageURL = s.claims.Claim(ctx, token, in.kind, result.UserID)
		result.Steps = append(result.Steps, StepOutcome{Step: stepClaim, OK: imageURL != token.URL || token.Path == ""})
	}
	result.ImageURL = imageURL

	if err := in.createProfile(ctx, result.UserID, imageURL); err != nil {
		result.State = RegistrationStateFailed
		result.Steps = append(result.Steps, StepOutcome{Step: stepProfile, Detail: err.Error()})
		s.record(ctx, in, result)
		return result, fmt.Errorf("create %s profile: %w", in.role, err)
	}
	result.Steps = append(result.Steps, StepOutcome{Step: stepProfile, OK: true})

	result.State = RegistrationStateSuccess
	s.record(ctx, in, result)
	return result, nil
}

func (s *RegistrationService) record(ctx context.Context, in sagaInput, result *RegistrationResult) {
	if err := s.attempts.RecordAttempt(ctx, in.email, in.role, result.State, result.Steps); err != nil {
		s.logger.Warn("record registration attempt", "email", in.email, "error", err)
	}
}
