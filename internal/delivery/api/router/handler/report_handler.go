package handler

import (
	"context"

	"library/internal/delivery/api/response"
	"library/internal/domain/entity"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves the administrator's rankings.
type ReportHandler struct {
	reportUC usecase.ReportUsecase
}

// NewReportHandler is the constructor for ReportHandler.
func NewReportHandler(reportUC usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// TopBooks ranks books by number of reservations.
func (h *ReportHandler) TopBooks(c echo.Context) error {
	return h.serve(c, h.reportUC.TopBooks)
}

// TopUsers ranks members by number of reservations.
func (h *ReportHandler) TopUsers(c echo.Context) error {
	return h.serve(c, h.reportUC.TopUsers)
}

// TopRated ranks books by average review rating.
func (h *ReportHandler) TopRated(c echo.Context) error {
	return h.serve(c, h.reportUC.TopRated)
}

func (h *ReportHandler) serve(c echo.Context, build func(ctx context.Context) ([]entity.ReportEntry, error)) error {
	entries, err := build(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.List(c, entries)
}
