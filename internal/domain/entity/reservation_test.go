package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservation_MarkLoaned(t *testing.T) {
	reservedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	firstLoan := reservedAt.Add(time.Hour)
	returnedAt := firstLoan.Add(24 * time.Hour)
	secondLoan := returnedAt.Add(time.Hour)

	tests := []struct {
		name         string
		reservation  Reservation
		wantLoanedAt time.Time
	}{
		{
			name:         "reserved",
			reservation:  Reservation{Status: ReservationStatusReserved, ReservedAt: reservedAt},
			wantLoanedAt: secondLoan,
		},
		{
			name:         "already loaned keeps loan time",
			reservation:  Reservation{Status: ReservationStatusLoaned, ReservedAt: reservedAt, LoanedAt: &firstLoan},
			wantLoanedAt: firstLoan,
		},
		{
			name: "returned is loaned again",
			reservation: Reservation{
				Status:     ReservationStatusReturned,
				ReservedAt: reservedAt,
				LoanedAt:   &firstLoan,
				ReturnedAt: &returnedAt,
			},
			wantLoanedAt: secondLoan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservation := tt.reservation

			reservation.MarkLoaned(secondLoan)

			assert.Equal(t, ReservationStatusLoaned, reservation.Status)
			require.NotNil(t, reservation.LoanedAt)
			assert.Equal(t, tt.wantLoanedAt, *reservation.LoanedAt)
			assert.Nil(t, reservation.ReturnedAt)
		})
	}
}

func TestReservation_MarkReturned(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	reserved := Reservation{Status: ReservationStatusReserved}
	assert.False(t, reserved.MarkReturned(at))
	assert.Equal(t, ReservationStatusReserved, reserved.Status)
	assert.Nil(t, reserved.ReturnedAt)

	loaned := Reservation{Status: ReservationStatusLoaned}
	assert.True(t, loaned.MarkReturned(at))
	assert.Equal(t, ReservationStatusReturned, loaned.Status)
	require.NotNil(t, loaned.ReturnedAt)
	assert.Equal(t, at, *loaned.ReturnedAt)
}
