package dto

// LoginRequest carries password-grant credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest starts a password-reset email flow.
type ResetPasswordRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirectTo"`
}

// UpdatePasswordRequest sets a new password for the authenticated user.
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}
