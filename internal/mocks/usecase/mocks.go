// Package usecase provides testify mocks of the usecase interfaces.
package usecase

import (
	"context"

	"library/internal/domain/entity"
	"library/internal/domain/service"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type cleanupT interface {
	Cleanup(func())
}

func newMock(t mock.TestingT, m *mock.Mock) {
	m.Test(t)
	if c, ok := t.(cleanupT); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
}

// MockAuthUsecase is a mock of usecase.AuthUsecase.
type MockAuthUsecase struct {
	mock.Mock
}

// NewMockAuthUsecase creates the mock and asserts its expectations on cleanup.
func NewMockAuthUsecase(t mock.TestingT) *MockAuthUsecase {
	m := &MockAuthUsecase{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockAuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(*usecase.LoginOutput)

	return output, args.Error(1)
}

func (m *MockAuthUsecase) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

// MockUserUsecase is a mock of usecase.UserUsecase.
type MockUserUsecase struct {
	mock.Mock
}

// NewMockUserUsecase creates the mock and asserts its expectations on cleanup.
func NewMockUserUsecase(t mock.TestingT) *MockUserUsecase {
	m := &MockUserUsecase{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockUserUsecase) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *MockUserUsecase) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
	args := m.Called(ctx, id, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserUsecase) PurgeWithoutUsername(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	deleted, _ := args.Get(0).(int64)

	return deleted, args.Error(1)
}

// MockCatalogUsecase is a mock of usecase.CatalogUsecase.
type MockCatalogUsecase struct {
	mock.Mock
}

// NewMockCatalogUsecase creates the mock and asserts its expectations on cleanup.
func NewMockCatalogUsecase(t mock.TestingT) *MockCatalogUsecase {
	m := &MockCatalogUsecase{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockCatalogUsecase) Create(ctx context.Context, input *usecase.BookInput, cover *usecase.CoverUpload) (*entity.Book, error) {
	args := m.Called(ctx, input, cover)
	book, _ := args.Get(0).(*entity.Book)

	return book, args.Error(1)
}

func (m *MockCatalogUsecase) List(ctx context.Context) ([]*entity.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]*entity.Book)

	return books, args.Error(1)
}

func (m *MockCatalogUsecase) Recent(ctx context.Context) ([]*entity.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]*entity.Book)

	return books, args.Error(1)
}

func (m *MockCatalogUsecase) Get(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	args := m.Called(ctx, id)
	book, _ := args.Get(0).(*entity.Book)

	return book, args.Error(1)
}

func (m *MockCatalogUsecase) Update(ctx context.Context, id uuid.UUID, input *usecase.BookInput, cover *usecase.CoverUpload) (*entity.Book, error) {
	args := m.Called(ctx, id, input, cover)
	book, _ := args.Get(0).(*entity.Book)

	return book, args.Error(1)
}

func (m *MockCatalogUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockReservationUsecase is a mock of usecase.ReservationUsecase.
type MockReservationUsecase struct {
	mock.Mock
}

// NewMockReservationUsecase creates the mock and asserts its expectations on cleanup.
func NewMockReservationUsecase(t mock.TestingT) *MockReservationUsecase {
	m := &MockReservationUsecase{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockReservationUsecase) Reserve(ctx context.Context, bookID, userID uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, bookID, userID)
	reservation, _ := args.Get(0).(*entity.Reservation)

	return reservation, args.Error(1)
}

func (m *MockReservationUsecase) Loan(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, reservationID)
	reservation, _ := args.Get(0).(*entity.Reservation)

	return reservation, args.Error(1)
}

func (m *MockReservationUsecase) Return(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, reservationID)
	reservation, _ := args.Get(0).(*entity.Reservation)

	return reservation, args.Error(1)
}

func (m *MockReservationUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error) {
	args := m.Called(ctx, userID)
	details, _ := args.Get(0).([]*entity.ReservationDetail)

	return details, args.Error(1)
}

func (m *MockReservationUsecase) LoanHistory(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error) {
	args := m.Called(ctx, userID)
	details, _ := args.Get(0).([]*entity.ReservationDetail)

	return details, args.Error(1)
}

func (m *MockReservationUsecase) PickupQR(ctx context.Context, reservationID, requesterID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, reservationID, requesterID)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

// MockReviewUsecase is a mock of usecase.ReviewUsecase.
type MockReviewUsecase struct {
	mock.Mock
}

// NewMockReviewUsecase creates the mock and asserts its expectations on cleanup.
func NewMockReviewUsecase(t mock.TestingT) *MockReviewUsecase {
	m := &MockReviewUsecase{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockReviewUsecase) Create(ctx context.Context, input *usecase.CreateReviewInput) (*entity.Review, error) {
	args := m.Called(ctx, input)
	review, _ := args.Get(0).(*entity.Review)

	return review, args.Error(1)
}

func (m *MockReviewUsecase) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Review, error) {
	args := m.Called(ctx, bookID)
	reviews, _ := args.Get(0).([]*entity.Review)

	return reviews, args.Error(1)
}

func (m *MockReviewUsecase) Delete(ctx context.Context, reviewID, requesterID uuid.UUID) error {
	return m.Called(ctx, reviewID, requesterID).Error(0)
}

// MockReportUsecase is a mock of usecase.ReportUsecase.
type MockReportUsecase struct {
	mock.Mock
}

// NewMockReportUsecase creates the mock and asserts its expectations on cleanup.
func NewMockReportUsecase(t mock.TestingT) *MockReportUsecase {
	m := &MockReportUsecase{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockReportUsecase) TopBooks(ctx context.Context) ([]entity.ReportEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]entity.ReportEntry)

	return entries, args.Error(1)
}

func (m *MockReportUsecase) TopUsers(ctx context.Context) ([]entity.ReportEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]entity.ReportEntry)

	return entries, args.Error(1)
}

func (m *MockReportUsecase) TopRated(ctx context.Context) ([]entity.ReportEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]entity.ReportEntry)

	return entries, args.Error(1)
}

// MockCirculationUsecase is a mock of usecase.CirculationUsecase.
type MockCirculationUsecase struct {
	mock.Mock
}

// NewMockCirculationUsecase creates the mock and asserts its expectations on cleanup.
func NewMockCirculationUsecase(t mock.TestingT) *MockCirculationUsecase {
	m := &MockCirculationUsecase{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockCirculationUsecase) Record(ctx context.Context, messageID string, event *service.ReservationEvent) (bool, error) {
	args := m.Called(ctx, messageID, event)

	return args.Bool(0), args.Error(1)
}
