package validation_test

import (
	"strings"
	"testing"

	"github.com/brokersim/backend/internal/api/request"
	"github.com/brokersim/backend/internal/validation"
)

func TestValidateSignup(t *testing.T) {
	valid := request.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	}

	tests := []struct {
		name      string
		mutate    func(*request.SignupRequest)
		wantField string
		wantValid bool
	}{
		{name: "valid", wantValid: true},
		{
			name:      "missing username",
			mutate:    func(r *request.SignupRequest) { r.Username = "" },
			wantField: "username",
		},
		{
			name:      "username too short",
			mutate:    func(r *request.SignupRequest) { r.Username = "ab" },
			wantField: "username",
		},
		{
			name:      "username too long",
			mutate:    func(r *request.SignupRequest) { r.Username = strings.Repeat("a", 51) },
			wantField: "username",
		},
		{
			name:      "missing email",
			mutate:    func(r *request.SignupRequest) { r.Email = "" },
			wantField: "email",
		},
		{
			name:      "email without at sign",
			mutate:    func(r *request.SignupRequest) { r.Email = "alice.example.com" },
			wantField: "email",
		},
		{
			name:      "password too short",
			mutate:    func(r *request.SignupRequest) { r.Password = "short" },
			wantField: "password",
		},
		{
			name:      "password too long",
			mutate:    func(r *request.SignupRequest) { r.Password = strings.Repeat("p", 101) },
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			err := validation.ValidateSignup(req)

			if tt.wantValid {
				if err != nil {
					t.Fatalf("Expected valid request, got %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			verr := err.(*validation.Error)
			if _, found := verr.Fields[tt.wantField]; !found {
				t.Errorf("Expected error on field %q, got %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		err := validation.ValidateLogin(request.LoginRequest{Username: "alice", Password: "pw"})
		if err != nil {
			t.Fatalf("Expected valid request, got %v", err)
		}
	})

	t.Run("missing fields are reported", func(t *testing.T) {
		err := validation.ValidateLogin(request.LoginRequest{})
		if err == nil {
			t.Fatal("Expected validation error, got nil")
		}
		verr := err.(*validation.Error)
		if _, found := verr.Fields["username"]; !found {
			t.Error("Expected error on username")
		}
		if _, found := verr.Fields["password"]; !found {
			t.Error("Expected error on password")
		}
	})
}
