package impl

import (
	"context"

	"library/internal/domain/entity"
	"library/internal/domain/repository"
	"library/internal/usecase"

	"github.com/pkg/errors"
)

// reportLimit is the length of every ranking.
const reportLimit = 10

// reportService implements the ReportUsecase interface.
type reportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService is the constructor for reportService.
func NewReportService(reportRepo repository.ReportRepository) usecase.ReportUsecase {
	return &reportService{reportRepo: reportRepo}
}

func (srv *reportService) TopBooks(ctx context.Context) ([]entity.ReportEntry, error) {
	entries, err := srv.reportRepo.TopBooksByReservations(ctx, reportLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build top books report")
	}

	return nonNilEntries(entries), nil
}

func (srv *reportService) TopUsers(ctx context.Context) ([]entity.ReportEntry, error) {
	entries, err := srv.reportRepo.TopUsersByReservations(ctx, reportLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build top users report")
	}

	return nonNilEntries(entries), nil
}

func (srv *reportService) TopRated(ctx context.Context) ([]entity.ReportEntry, error) {
	entries, err := srv.reportRepo.TopBooksByRating(ctx, reportLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build top rated report")
	}

	return nonNilEntries(entries), nil
}

// nonNilEntries makes empty rankings encode as [] rather than null.
func nonNilEntries(entries []entity.ReportEntry) []entity.ReportEntry {
	if entries == nil {
		return []entity.ReportEntry{}
	}

	return entries
}
