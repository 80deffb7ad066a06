package entity

import (
	"time"

	"github.com/google/uuid"
)

// Company sizes selectable at registration.
const (
	CompanySizeSmall  = "small"
	CompanySizeMedium = "medium"
	CompanySizeLarge  = "large"
)

// Industries selectable at registration.
const (
	IndustryIT            = "it"
	IndustryManufacturing = "manufacturing"
	IndustryRetail        = "retail"
	IndustryService       = "service"
	IndustryFinance       = "finance"
	IndustryOther         = "other"
)

// CompanySizes lists the valid company_size values.
var CompanySizes = []string{CompanySizeSmall, CompanySizeMedium, CompanySizeLarge}

// Industries lists the valid industry values.
var Industries = []string{IndustryIT, IndustryManufacturing, IndustryRetail, IndustryService, IndustryFinance, IndustryOther}

// Company is the profile record for a registered company account.
// Exactly one row exists per identity-provider account email.
type Company struct {
	ID             uuid.UUID `json:"id"`
	CompanyName    string    `json:"companyName"`
	Email          string    `json:"email"`
	Representative string    `json:"representative"`
	PhoneNumber    string    `json:"phoneNumber"`
	PostalCode     string    `json:"postalCode"`
	Prefecture     string    `json:"prefecture"`
	City           string    `json:"city"`
	Address        string    `json:"address"`
	CompanySize    string    `json:"companySize"`
	Industry       string    `json:"industry"`
	Description    string    `json:"description"`
	WebsiteURL     string    `json:"websiteUrl"`
	ImageURL       string    `json:"imageUrl"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
