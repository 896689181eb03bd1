package handler

import (
	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/response"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReviewHandlerParams holds dependencies for ReviewHandler, injected by Fx.
type ReviewHandlerParams struct {
	fx.In

	ReviewUC usecase.ReviewUsecase
}

// ReviewHandler serves book reviews.
type ReviewHandler struct {
	reviewUC usecase.ReviewUsecase
}

// NewReviewHandler is the constructor for ReviewHandler.
func NewReviewHandler(params ReviewHandlerParams) *ReviewHandler {
	return &ReviewHandler{reviewUC: params.ReviewUC}
}

// CreateReviewRequest represents the request body for reviewing a book.
type CreateReviewRequest struct {
	BookID  string `json:"bookId" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// CreateReview stores a review by the authenticated member.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	review, err := h.reviewUC.Create(c.Request().Context(), &usecase.CreateReviewInput{
		BookID:  uuid.MustParse(req.BookID),
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, review)
}

// ListReviews returns the reviews of a book, newest first.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	reviews, err := h.reviewUC.ListByBook(c.Request().Context(), bookID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.List(c, reviews)
}

// DeleteReview removes a review written by the authenticated member.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid review ID")
	}

	if err := h.reviewUC.Delete(c.Request().Context(), reviewID, userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Confirm(c, "Review deleted successfully")
}
