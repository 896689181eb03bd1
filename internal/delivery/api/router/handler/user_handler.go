package handler

import (
	"net/http"

	"library/internal/delivery/api/response"
	"library/internal/domain/entity"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
}

// UserHandler serves the administrator's member management.
type UserHandler struct {
	userUC usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{userUC: params.UserUC}
}

// UpdateUserRequest carries the fields to change; absent fields keep their value.
type UpdateUserRequest struct {
	Username     *string         `json:"username"`
	Email        *string         `json:"email" validate:"omitempty,email"`
	Password     *string         `json:"password"`
	FullName     *string         `json:"fullName"`
	BirthDate    *string         `json:"birthDate"`
	Gender       *string         `json:"gender"`
	NationalID   *string         `json:"nationalId"`
	Phone        *string         `json:"phone"`
	ProfileImage *string         `json:"profileImage"`
	Role         *string         `json:"role"`
	Address      *entity.Address `json:"address"`
}

// ListUsers returns every member.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userUC.List(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.List(c, users)
}

// GetUser returns a member by ID.
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	user, err := h.userUC.Get(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}

// UpdateUser changes a member's data.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	input := &usecase.UpdateUserInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Gender:       req.Gender,
		NationalID:   req.NationalID,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
		Role:         req.Role,
		Address:      req.Address,
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(*req.BirthDate)
		if err != nil {
			return response.BadRequest(c, "VALIDATION_FAILED", "birthDate must be a date in YYYY-MM-DD format")
		}
		input.BirthDate = &birthDate
	}

	user, err := h.userUC.Update(c.Request().Context(), userID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}

// DeleteUser removes a member. Their reservations and reviews are kept.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	if err := h.userUC.Delete(c.Request().Context(), userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Confirm(c, "User deleted successfully")
}
