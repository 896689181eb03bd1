package qrcode

import (
	"encoding/json"

	"library/config"
	"library/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	pickupType  = "reservation_pickup"
	defaultSize = 256
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	ReservationID string `json:"reservation_id"`
	Type          string `json:"type"`
}

// New builds the QR code service from configuration, falling back to defaults when unset.
func New(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(defaultSize, "M")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	if size <= 0 {
		size = defaultSize
	}

	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GeneratePickupQR generates a PNG QR code identifying a reservation at the circulation desk
func (s *qrcodeService) GeneratePickupQR(reservationID uuid.UUID) ([]byte, error) {
	data := QRCodeData{
		ReservationID: reservationID.String(),
		Type:          pickupType,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParsePickupQR parses QR code data and returns the reservation ID
func (s *qrcodeService) ParsePickupQR(qrData string) (uuid.UUID, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to unmarshal QR code data")
	}

	if data.Type != pickupType {
		return uuid.Nil, errors.Errorf("invalid QR code type: %s", data.Type)
	}

	reservationID, err := uuid.Parse(data.ReservationID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse reservation ID")
	}

	return reservationID, nil
}
