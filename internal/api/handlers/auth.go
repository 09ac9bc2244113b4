package handlers

import (
	"errors"
	"net/http"

	"github.com/brokersim/backend/internal/api/request"
	"github.com/brokersim/backend/internal/api/response"
	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/service"
	"github.com/brokersim/backend/internal/validation"
)

// AuthHandler handles HTTP requests for signup and login.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler with the provided service dependency.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// authResponse is the body returned by both signup and login.
type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}

// Signup handles POST requests to register a new user.
//
// Endpoint: POST /api/auth/signup
// Request Body: SignupRequest (username, email, password)
// Response: 201 Created with token and user
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the username or email is taken
// Error: 500 Internal Server Error if registration fails
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SignupRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSignup(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUser) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateUser.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to register user", err.Error())
		return
	}

	token, _, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, authResponse{
		Message: "signup successful",
		Token:   token,
		User:    user,
	})
}

// Login handles POST requests to authenticate a user.
//
// Endpoint: POST /api/auth/login
// Request Body: LoginRequest (username, password)
// Response: 200 OK with token and user
// Error: 400 Bad Request if validation fails
// Error: 401 Unauthorized if the credentials are wrong
// Error: 500 Internal Server Error otherwise
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateLogin(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			response.RespondError(w, http.StatusUnauthorized, apperrors.ErrInvalidCredentials.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to log in", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, authResponse{
		Message: "login successful",
		Token:   token,
		User:    user,
	})
}
