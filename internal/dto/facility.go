package dto

// FacilityProfileRequest is the flat profile payload accepted by the facility
// create and update endpoints.
type FacilityProfileRequest struct {
	FacilityName    string   `json:"facilityName"`
	Email           string   `json:"email"`
	Representative  string   `json:"representative"`
	PhoneNumber     string   `json:"phoneNumber"`
	PostalCode      string   `json:"postalCode"`
	Prefecture      string   `json:"prefecture"`
	City            string   `json:"city"`
	Address         string   `json:"address"`
	FacilityType    string   `json:"facilityType"`
	Capacity        int      `json:"capacity"`
	DisabilityTypes []string `json:"disabilityTypes"`
	Specialties     []string `json:"specialties"`
	Description     string   `json:"description"`
	WebsiteURL      string   `json:"websiteUrl"`
	ImageURL        string   `json:"imageUrl"`
	UserID          string   `json:"userId"`
}

// FacilityRegistrationRequest is the full registration payload for facilities.
type FacilityRegistrationRequest struct {
	FacilityProfileRequest
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
