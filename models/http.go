package models

// RegisterRequest is the JSON body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the JSON body of POST /auth/refresh. Both fields may
// instead arrive as cookies set by a previous login or refresh.
type RefreshRequest struct {
	SessionID    int64  `json:"sessionId"`
	RefreshToken string `json:"refreshToken"`
}

// RequestResetEmailRequest is the JSON body of POST /auth/request-reset.
type RequestResetEmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the JSON body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// CreateContactRequest carries the validated multipart form fields of
// POST /contacts.
type CreateContactRequest struct {
	Name        string
	Phone       string
	Email       string
	IsFavourite bool
	ContactType string
}
