package entity

import (
	"time"

	"github.com/google/uuid"
)

// Facility types: continuous employment support B/A, transition support and
// settlement support.
const (
	FacilityTypeB           = "b"
	FacilityTypeA           = "a"
	FacilityTypeTransition  = "transition"
	FacilityTypeDevelopment = "development"
)

// Disability categories a facility can accommodate.
const (
	DisabilityPhysical      = "physical"
	DisabilityIntellectual  = "intellectual"
	DisabilityMental        = "mental"
	DisabilityDevelopmental = "developmental"
)

// Work specialties a facility can offer.
const (
	SpecialtyDataEntry = "dataEntry"
	SpecialtyPackaging = "packaging"
	SpecialtyAssembly  = "assembly"
	SpecialtyCleaning  = "cleaning"
	SpecialtyFarming   = "farming"
)

// FacilityTypes lists the valid facility_type values.
var FacilityTypes = []string{FacilityTypeB, FacilityTypeA, FacilityTypeTransition, FacilityTypeDevelopment}

// DisabilityTypes lists the valid disability tags.
var DisabilityTypes = []string{DisabilityPhysical, DisabilityIntellectual, DisabilityMental, DisabilityDevelopmental}

// Specialties lists the valid specialty tags.
var Specialties = []string{SpecialtyDataEntry, SpecialtyPackaging, SpecialtyAssembly, SpecialtyCleaning, SpecialtyFarming}

// Facility is the profile record for a registered support-facility account.
type Facility struct {
	ID              uuid.UUID `json:"id"`
	FacilityName    string    `json:"facilityName"`
	Email           string    `json:"email"`
	Representative  string    `json:"representative"`
	PhoneNumber     string    `json:"phoneNumber"`
	PostalCode      string    `json:"postalCode"`
	Prefecture      string    `json:"prefecture"`
	City            string    `json:"city"`
	Address         string    `json:"address"`
	FacilityType    string    `json:"facilityType"`
	Capacity        int       `json:"capacity"`
	DisabilityTypes []string  `json:"disabilityTypes"`
	Specialties     []string  `json:"specialties"`
	Description     string    `json:"description"`
	WebsiteURL      string    `json:"websiteUrl"`
	ImageURL        string    `json:"imageUrl"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
