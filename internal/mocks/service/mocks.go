// Package service provides testify mocks of the domain service interfaces.
package service

import (
	"context"
	"io"
	"time"

	"library/internal/domain/service"

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

// MockPasswordHasher is a mock of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates the mock and asserts its expectations on cleanup.
func NewMockPasswordHasher(t mock.TestingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockTokenService is a mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates the mock and asserts its expectations on cleanup.
func NewMockTokenService(t mock.TestingT) *MockTokenService {
	m := &MockTokenService{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockTokenService) Issue(userID uuid.UUID, roles []string) (string, error) {
	args := m.Called(userID, roles)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) TTL() time.Duration {
	args := m.Called()
	ttl, _ := args.Get(0).(time.Duration)

	return ttl
}

// MockQRCodeService is a mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates the mock and asserts its expectations on cleanup.
func NewMockQRCodeService(t mock.TestingT) *MockQRCodeService {
	m := &MockQRCodeService{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockQRCodeService) GeneratePickupQR(reservationID uuid.UUID) ([]byte, error) {
	args := m.Called(reservationID)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

func (m *MockQRCodeService) ParsePickupQR(qrData string) (uuid.UUID, error) {
	args := m.Called(qrData)
	id, _ := args.Get(0).(uuid.UUID)

	return id, args.Error(1)
}

// MockEventPublisher is a mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates the mock and asserts its expectations on cleanup.
func NewMockEventPublisher(t mock.TestingT) *MockEventPublisher {
	m := &MockEventPublisher{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockEventPublisher) PublishReservationEvent(ctx context.Context, event *service.ReservationEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockAddressLookup is a mock of service.AddressLookup.
type MockAddressLookup struct {
	mock.Mock
}

// NewMockAddressLookup creates the mock and asserts its expectations on cleanup.
func NewMockAddressLookup(t mock.TestingT) *MockAddressLookup {
	m := &MockAddressLookup{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockAddressLookup) Lookup(ctx context.Context, postalCode string) (*service.PostalAddress, error) {
	args := m.Called(ctx, postalCode)
	address, _ := args.Get(0).(*service.PostalAddress)

	return address, args.Error(1)
}

// MockCoverStorage is a mock of service.CoverStorage.
type MockCoverStorage struct {
	mock.Mock
}

// NewMockCoverStorage creates the mock and asserts its expectations on cleanup.
func NewMockCoverStorage(t mock.TestingT) *MockCoverStorage {
	m := &MockCoverStorage{}
	newMock(t, &m.Mock)

	return m
}

func (m *MockCoverStorage) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, name, r, contentType)

	return args.String(0), args.Error(1)
}

func (m *MockCoverStorage) Delete(ctx context.Context, location string) error {
	return m.Called(ctx, location).Error(0)
}
