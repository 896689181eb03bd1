package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/response"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves registration, login and the caller's profile.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// AddressRequest is the address typed by a member.
type AddressRequest struct {
	PostalCode string `json:"postalCode"`
	Number     string `json:"number"`
}

// RegisterRequest represents the request body for registration.
// Field rules are checked by the usecase so that they run in a fixed order.
type RegisterRequest struct {
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"confirmPassword"`
	FullName        string          `json:"fullName"`
	BirthDate       string          `json:"birthDate"`
	Gender          string          `json:"gender"`
	NationalID      string          `json:"nationalId"`
	Phone           string          `json:"phone"`
	ProfileImage    string          `json:"profileImage"`
	Address         *AddressRequest `json:"address"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // seconds
}

// Register handles member registration.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "birthDate must be a date in YYYY-MM-DD format")
	}

	input := &usecase.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		BirthDate:       birthDate,
		Gender:          req.Gender,
		NationalID:      req.NationalID,
		Phone:           req.Phone,
		ProfileImage:    req.ProfileImage,
	}
	if req.Address != nil {
		input.Address = &usecase.AddressInput{
			PostalCode: req.Address.PostalCode,
			Number:     req.Address.Number,
		}
	}

	if _, err := h.authUC.Register(c.Request().Context(), input); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, response.Message{Message: "User registered successfully"})
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, LoginResponse{
		Message:   "Login successful",
		Token:     output.Token,
		ExpiresIn: int64(output.ExpiresIn / time.Second),
	})
}

// Me returns the authenticated member's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	user, err := h.authUC.Profile(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp. Empty input yields the zero time.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}

	if date, err := time.Parse(time.DateOnly, raw); err == nil {
		return date, nil
	}

	return time.Parse(time.RFC3339, raw)
}
