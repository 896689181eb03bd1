package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is a state of the reservation lifecycle.
type ReservationStatus string

const (
	ReservationStatusReserved ReservationStatus = "Reserved"
	ReservationStatusLoaned   ReservationStatus = "Loaned"
	ReservationStatusReturned ReservationStatus = "Returned"
)

// ActiveReservationStatuses block new reservations on the same book.
var ActiveReservationStatuses = []ReservationStatus{ReservationStatusReserved, ReservationStatusLoaned}

// IsActive reports whether the status blocks other reservations of the book.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusReserved || s == ReservationStatusLoaned
}

// IsTerminal reports whether no further transition is expected.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusReturned
}

// Reservation binds one book to one member through hold, loan and return.
type Reservation struct {
	ID         uuid.UUID         `json:"id"`
	BookID     uuid.UUID         `json:"bookId"`
	UserID     uuid.UUID         `json:"userId"`
	Status     ReservationStatus `json:"status"`
	ReservedAt time.Time         `json:"reservedAt"`
	LoanedAt   *time.Time        `json:"loanedAt,omitempty"`
	ReturnedAt *time.Time        `json:"returnedAt,omitempty"`
}

// MarkLoaned moves the reservation to Loaned. The prior status is not checked.
// A reservation that is already Loaned keeps its loan time, and any return time is cleared.
func (r *Reservation) MarkLoaned(at time.Time) {
	if r.Status != ReservationStatusLoaned || r.LoanedAt == nil {
		r.LoanedAt = &at
	}
	r.Status = ReservationStatusLoaned
	r.ReturnedAt = nil
}

// MarkReturned moves a Loaned reservation to Returned.
// It reports false and leaves the reservation untouched for any other status.
func (r *Reservation) MarkReturned(at time.Time) bool {
	if r.Status != ReservationStatusLoaned {
		return false
	}
	r.Status = ReservationStatusReturned
	r.ReturnedAt = &at

	return true
}

// ReservationDetail is a reservation joined with the referenced book and member for display.
// Book or User is nil when the referenced record no longer exists.
type ReservationDetail struct {
	Reservation
	Book *Book `json:"book"`
	User *User `json:"user"`
}
