package dto

// CompanyProfileRequest is the flat profile payload accepted by the company
// create and update endpoints. ImageURL may be a plain URL or a serialized
// upload token.
type CompanyProfileRequest struct {
	CompanyName    string `json:"companyName"`
	Email          string `json:"email"`
	Representative string `json:"representative"`
	PhoneNumber    string `json:"phoneNumber"`
	PostalCode     string `json:"postalCode"`
	Prefecture     string `json:"prefecture"`
	City           string `json:"city"`
	Address        string `json:"address"`
	CompanySize    string `json:"companySize"`
	Industry       string `json:"industry"`
	Description    string `json:"description"`
	WebsiteURL     string `json:"websiteUrl"`
	ImageURL       string `json:"imageUrl"`
	UserID         string `json:"userId"`
}

// CompanyRegistrationRequest is the full registration payload: the profile
// plus the credentials forwarded to the identity provider.
type CompanyRegistrationRequest struct {
	CompanyProfileRequest
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
