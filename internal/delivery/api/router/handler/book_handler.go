package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"library/internal/delivery/api/response"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// coverFormField is the multipart field carrying the cover image.
const coverFormField = "coverImage"

// BookHandlerParams holds dependencies for BookHandler, injected by Fx.
type BookHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// BookHandler serves the catalog.
type BookHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewBookHandler is the constructor for BookHandler.
func NewBookHandler(params BookHandlerParams) *BookHandler {
	return &BookHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// BookRequest is a book sent as multipart form or JSON.
type BookRequest struct {
	Title       string `json:"title" form:"title"`
	Author      string `json:"author" form:"author"`
	Description string `json:"description" form:"description"`
	Year        int    `json:"year" form:"year"`
	Genre       string `json:"genre" form:"genre"`
	PageCount   int    `json:"pageCount" form:"pageCount"`
	CoverType   string `json:"coverType" form:"coverType"`
	ISBN        string `json:"isbn" form:"isbn"`
}

func (r *BookRequest) toInput() *usecase.BookInput {
	return &usecase.BookInput{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		Year:        r.Year,
		Genre:       r.Genre,
		PageCount:   r.PageCount,
		CoverType:   r.CoverType,
		ISBN:        r.ISBN,
	}
}

// ListBooks returns the catalog.
func (h *BookHandler) ListBooks(c echo.Context) error {
	books, err := h.catalogUC.List(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.List(c, books)
}

// RecentBooks returns the newest additions to the catalog.
func (h *BookHandler) RecentBooks(c echo.Context) error {
	books, err := h.catalogUC.Recent(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.List(c, books)
}

// GetBook returns a book by ID.
func (h *BookHandler) GetBook(c echo.Context) error {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	book, err := h.catalogUC.Get(c.Request().Context(), bookID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, book)
}

// CreateBook adds a book, with an optional cover image.
func (h *BookHandler) CreateBook(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid book input")
	}

	cover, closeCover, err := h.coverFromRequest(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cover image upload")
	}
	defer closeCover()

	book, err := h.catalogUC.Create(c.Request().Context(), req.toInput(), cover)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, book)
}

// UpdateBook changes the non-empty fields of a book and optionally replaces its cover.
func (h *BookHandler) UpdateBook(c echo.Context) error {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid book input")
	}

	cover, closeCover, err := h.coverFromRequest(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cover image upload")
	}
	defer closeCover()

	book, err := h.catalogUC.Update(c.Request().Context(), bookID, req.toInput(), cover)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, book)
}

// DeleteBook removes a book and its cover.
func (h *BookHandler) DeleteBook(c echo.Context) error {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid book ID")
	}

	if err := h.catalogUC.Delete(c.Request().Context(), bookID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Confirm(c, "Book deleted successfully")
}

// coverFromRequest opens the uploaded cover, if any. The returned func closes it.
func (h *BookHandler) coverFromRequest(c echo.Context) (*usecase.CoverUpload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, noop, nil
	}

	fileHeader, err := c.FormFile(coverFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}

		return nil, noop, errors.WithStack(err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, noop, errors.WithStack(err)
	}

	closeFile := func() {
		if err := file.Close(); err != nil {
			h.logger.Warn("Failed to close uploaded cover", slog.Any("error", err))
		}
	}

	return &usecase.CoverUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	}, closeFile, nil
}
