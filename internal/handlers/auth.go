package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BradenHooton/bookshare/internal/auth"
	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/BradenHooton/bookshare/internal/services"
	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, login, password, clientIP string) (*services.AuthResult, error)
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
	now      func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
		now:      time.Now,
	}
}

// LoginFailedResponse is the 401 body of a failed credential check
type LoginFailedResponse struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	AttemptsLeft int    `json:"attempts_left"`
}

// Login handles user login
// @Summary User login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} LoginFailedResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	clientIP := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Login(r.Context(), req.Login, req.Password, clientIP)
	if err != nil {
		var throttled *models.LoginThrottledError
		var invalid *models.InvalidCredentialsError

		switch {
		case errors.As(err, &throttled):
			pkghttp.WriteTooManyRequestsUntil(w,
				fmt.Sprintf("Too many login attempts. Try again after %s", throttled.BlockUntil.UTC().Format("2006-01-02 15:04:05 MST")),
				throttled.BlockUntil, h.now())
		case errors.As(err, &invalid):
			pkghttp.WriteJSON(w, http.StatusUnauthorized, LoginFailedResponse{
				Error:        "unauthorized",
				Message:      "Invalid login or password",
				AttemptsLeft: invalid.AttemptsLeft,
			})
		default:
			writeServiceError(w, err)
		}
		return
	}

	pkghttp.WriteData(w, http.StatusOK, AuthResponse{
		User:  userToResponse(result.User),
		Token: result.Token,
	}, "")
}

// Register handles user registration
// @Summary User registration
// @Accept json
// @Param request body RegisterRequest true "Register request"
// @Produce json
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.normalize()
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	result, err := h.service.Register(r.Context(), services.RegisterInput{
		Login:    req.Login,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteData(w, http.StatusCreated, AuthResponse{
		User:  userToResponse(result.User),
		Token: result.Token,
	}, "Registration successful")
}

// Check returns the account behind the bearer token
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	pkghttp.WriteData(w, http.StatusOK, map[string]UserResponse{"user": userToResponse(user)}, "")
}
