package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "JP"

// FieldError is a user-facing validation failure tied to a single field.
// The message is the localized copy shown in the form.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func requiredError(field string) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("%sは必須です", field)}
}

// Required-field sets for the create and update endpoints. Updates do not
// resubmit the address lookup fields.
var (
	companyCreateRequired  = []string{"companyName", "email", "representative", "phoneNumber", "postalCode", "prefecture", "city", "address", "companySize", "industry"}
	companyUpdateRequired  = []string{"companyName", "email", "representative", "phoneNumber", "address", "companySize", "industry"}
	facilityCreateRequired = []string{"facilityName", "email", "representative", "phoneNumber", "postalCode", "prefecture", "city", "address", "facilityType", "disabilityTypes"}
	facilityUpdateRequired = []string{"facilityName", "email", "representative", "phoneNumber", "address", "facilityType", "disabilityTypes"}
)

// ValidateCompanyProfile checks required-field presence for the company
// create/update endpoints.
func ValidateCompanyProfile(req dto.CompanyProfileRequest, update bool) *FieldError {
	fields := map[string]string{
		"companyName":    req.CompanyName,
		"email":          req.Email,
		"representative": req.Representative,
		"phoneNumber":    req.PhoneNumber,
		"postalCode":     req.PostalCode,
		"prefecture":     req.Prefecture,
		"city":           req.City,
		"address":        req.Address,
		"companySize":    req.CompanySize,
		"industry":       req.Industry,
	}
	required := companyCreateRequired
	if update {
		required = companyUpdateRequired
	}
	for _, field := range required {
		if strings.TrimSpace(fields[field]) == "" {
			return requiredError(field)
		}
	}
	return nil
}

// ValidateFacilityProfile checks required-field presence for the facility
// create/update endpoints. An empty disabilityTypes set counts as missing.
func ValidateFacilityProfile(req dto.FacilityProfileRequest, update bool) *FieldError {
	fields := map[string]string{
		"facilityName":   req.FacilityName,
		"email":          req.Email,
		"representative": req.Representative,
		"phoneNumber":    req.PhoneNumber,
		"postalCode":     req.PostalCode,
		"prefecture":     req.Prefecture,
		"city":           req.City,
		"address":        req.Address,
		"facilityType":   req.FacilityType,
	}
	required := facilityCreateRequired
	if update {
		required = facilityUpdateRequired
	}
	for _, field := range required {
		if field == "disabilityTypes" {
			if len(req.DisabilityTypes) == 0 {
				return requiredError(field)
			}
			continue
		}
		if strings.TrimSpace(fields[field]) == "" {
			return requiredError(field)
		}
	}
	return nil
}

// registration-level validation mirrors the registration form schema: the
// bare create endpoints stay lenient, the saga is strict.

func validateEmail(email string) *FieldError {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !emailPattern.MatchString(email) {
		return &FieldError{Field: "email", Message: "有効なメールアドレスを入力してください"}
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if ascii, err := idnaProfile.ToASCII(domain); err != nil || ascii == "" {
		return &FieldError{Field: "email", Message: "有効なメールアドレスを入力してください"}
	}
	return nil
}

func validatePassword(password, confirm string) *FieldError {
	if len(password) < 8 {
		return &FieldError{Field: "password", Message: "パスワードは8文字以上で入力してください"}
	}
	if password != confirm {
		return &FieldError{Field: "confirmPassword", Message: "パスワードが一致しません"}
	}
	return nil
}

func validatePhone(phone string) *FieldError {
	number, err := phonenumbers.Parse(phone, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsPossibleNumber(number) {
		return &FieldError{Field: "phoneNumber", Message: "有効な電話番号を入力してください"}
	}
	return nil
}

func validateEnum(field, value string, allowed []string, message string) *FieldError {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return &FieldError{Field: field, Message: message}
}

func validateTags(field string, values, allowed []string, emptyMessage string) *FieldError {
	if len(values) == 0 {
		return &FieldError{Field: field, Message: emptyMessage}
	}
	for _, value := range values {
		if err := validateEnum(field, value, allowed, emptyMessage); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCompanyRegistration runs the full form schema for company signup.
func ValidateCompanyRegistration(req dto.CompanyRegistrationRequest) *FieldError {
	if err := ValidateCompanyProfile(req.CompanyProfileRequest, false); err != nil {
		return err
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if err := validatePassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	if err := validatePhone(req.PhoneNumber); err != nil {
		return err
	}
	if err := validateEnum("companySize", req.CompanySize, entity.CompanySizes, "企業規模を選択してください"); err != nil {
		return err
	}
	if err := validateEnum("industry", req.Industry, entity.Industries, "業界を選択してください"); err != nil {
		return err
	}
	return nil
}

// ValidateFacilityRegistration runs the full form schema for facility signup.
func ValidateFacilityRegistration(req dto.FacilityRegistrationRequest) *FieldError {
	if err := ValidateFacilityProfile(req.FacilityProfileRequest, false); err != nil {
		return err
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if err := validatePassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	if err := validatePhone(req.PhoneNumber); err != nil {
		return err
	}
	if err := validateEnum("facilityType", req.FacilityType, entity.FacilityTypes, "施設種別を選択してください"); err != nil {
		return err
	}
	if req.Capacity <= 0 {
		return &FieldError{Field: "capacity", Message: "定員数を入力してください"}
	}
	if err := validateTags("disabilityTypes", req.DisabilityTypes, entity.DisabilityTypes, "対応可能な障害種別を選択してください"); err != nil {
		return err
	}
	if err := validateTags("specialties", req.Specialties, entity.Specialties, "得意な作業を選択してください"); err != nil {
		return err
	}
	return nil
}

// ValidateContact checks the contact-form payload. organizationName is never
// required; individual inquiries have no organization at all.
func ValidateContact(req dto.ContactRequest) *FieldError {
	switch req.UserType {
	case dto.ContactUserTypeCompany, dto.ContactUserTypeFacility, dto.ContactUserTypeIndividual:
	default:
		return &FieldError{Field: "userType", Message: "お問い合わせ種別を選択してください"}
	}
	if strings.TrimSpace(req.Name) == "" {
		return requiredError("name")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" {
		return requiredError("message")
	}
	return nil
}
