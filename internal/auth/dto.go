package auth

import (
	"regexp"
	"strings"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterDTO is the transport shape for registration requests. Role is
// self-selected by the client; registration is open.
type RegisterDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordDTO requests a password-reset token for an account.
type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

// ResetPasswordDTO consumes a reset token and sets a new password.
type ResetPasswordDTO struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// NormalizedEmail lowercases and trims the email for case-insensitive matching.
func NormalizedEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d RegisterDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if !emailRegexp.MatchString(NormalizedEmail(d.Email)) {
		return ValidationError{Msg: "a valid email is required"}
	}
	if len(d.Password) < 6 {
		return ValidationError{Msg: "password must be at least 6 characters"}
	}
	if strings.TrimSpace(d.Department) == "" {
		return ValidationError{Msg: "department is required"}
	}
	if d.Role != "" && d.Role != "employee" && d.Role != "admin" {
		return ValidationError{Msg: "role must be employee or admin"}
	}
	return nil
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}

func (d ForgotPasswordDTO) Validate() error {
	if !emailRegexp.MatchString(NormalizedEmail(d.Email)) {
		return ValidationError{Msg: "a valid email is required"}
	}
	return nil
}

func (d ResetPasswordDTO) Validate() error {
	if d.Token == "" {
		return ValidationError{Msg: "token is required"}
	}
	if len(d.NewPassword) < 6 {
		return ValidationError{Msg: "password must be at least 6 characters"}
	}
	return nil
}
