package dto

// Contact inquiry sender categories.
const (
	ContactUserTypeCompany    = "company"
	ContactUserTypeFacility   = "facility"
	ContactUserTypeIndividual = "individual"
)

// ContactRequest is the contact-form payload. OrganizationName is only
// meaningful for company/facility inquiries and is never required for
// individuals.
type ContactRequest struct {
	UserType         string `json:"userType"`
	OrganizationName string `json:"organizationName"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber"`
	Message          string `json:"message"`
}
