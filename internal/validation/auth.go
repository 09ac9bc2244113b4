package validation

import (
	"strings"

	"github.com/brokersim/backend/internal/api/request"
)

// ValidateSignup validates a signup request.
//
// Required fields:
//   - username: 3-50 characters
//   - email: non-empty, must contain "@"
//   - password: 8-100 characters
func ValidateSignup(req request.SignupRequest) error {
	errors := make(map[string]string)

	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		errors["username"] = "username is required"
	case len(username) < 3:
		errors["username"] = "username must be at least 3 characters"
	case len(username) > 50:
		errors["username"] = "username must be at most 50 characters"
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errors["email"] = "email is invalid"
	}

	switch {
	case req.Password == "":
		errors["password"] = "password is required"
	case len(req.Password) < 8:
		errors["password"] = "password must be at least 8 characters"
	case len(req.Password) > 100:
		errors["password"] = "password must be at most 100 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateLogin validates a login request.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
