package handler

import (
	"net/http"

	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/response"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReservationHandlerParams holds dependencies for ReservationHandler, injected by Fx.
type ReservationHandlerParams struct {
	fx.In

	ReservationUC usecase.ReservationUsecase
}

// ReservationHandler serves the reservation lifecycle.
type ReservationHandler struct {
	reservationUC usecase.ReservationUsecase
}

// NewReservationHandler is the constructor for ReservationHandler.
func NewReservationHandler(params ReservationHandlerParams) *ReservationHandler {
	return &ReservationHandler{reservationUC: params.ReservationUC}
}

// ReserveRequest represents the request body for reserving a book.
type ReserveRequest struct {
	BookID string `json:"bookId" validate:"required,uuid"`
}

// ReservationRequest identifies the reservation to loan or return.
type ReservationRequest struct {
	ReservationID string `json:"reservationId" validate:"required,uuid"`
}

// Reserve holds a book for the authenticated member.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req ReserveRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reservation input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	reservation, err := h.reservationUC.Reserve(c.Request().Context(), uuid.MustParse(req.BookID), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, reservation)
}

// Loan hands the reserved book to the member.
func (h *ReservationHandler) Loan(c echo.Context) error {
	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reservation input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	reservation, err := h.reservationUC.Loan(c.Request().Context(), uuid.MustParse(req.ReservationID))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, reservation)
}

// Return takes a loaned book back.
func (h *ReservationHandler) Return(c echo.Context) error {
	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reservation input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	reservation, err := h.reservationUC.Return(c.Request().Context(), uuid.MustParse(req.ReservationID))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, reservation)
}

// History returns the member's current loans.
func (h *ReservationHandler) History(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	history, err := h.reservationUC.LoanHistory(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.List(c, history)
}

// List returns every reservation of the member with book and member details.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	reservations, err := h.reservationUC.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.List(c, reservations)
}

// PickupQR renders the QR code the member shows at the circulation desk.
func (h *ReservationHandler) PickupQR(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid reservation ID")
	}

	png, err := h.reservationUC.PickupQR(c.Request().Context(), reservationID, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
