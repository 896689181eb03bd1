package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GeneratePickupQR generates a PNG QR code the circulation desk scans to find a reservation
	GeneratePickupQR(reservationID uuid.UUID) ([]byte, error)

	// ParsePickupQR parses QR code data and returns the reservation ID
	ParsePickupQR(qrData string) (uuid.UUID, error)
}
