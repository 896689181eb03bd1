package postgres

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCirculationEvent() *entity.CirculationEvent {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	return &entity.CirculationEvent{
		MessageID:     "msg-1",
		Type:          "reservation.loaned",
		ReservationID: uuid.New(),
		BookID:        uuid.New(),
		UserID:        uuid.New(),
		Status:        entity.ReservationStatusLoaned,
		OccurredAt:    at,
		ReceivedAt:    at.Add(time.Second),
	}
}

func TestCirculationEventRepository_Record(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCirculationEventRepository(db)
	eventID := uuid.New()

	mock.ExpectQuery(`INSERT INTO "circulation_events" .* ON CONFLICT \("message_id"\) DO NOTHING RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(eventID.String()))

	event := newTestCirculationEvent()
	inserted, err := repo.Record(context.Background(), event)

	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, eventID, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationEventRepository_Record_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCirculationEventRepository(db)

	mock.ExpectQuery(`INSERT INTO "circulation_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	event := newTestCirculationEvent()
	inserted, err := repo.Record(context.Background(), event)

	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, uuid.Nil, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationEventRepository_Record_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCirculationEventRepository(db)

	mock.ExpectQuery(`INSERT INTO "circulation_events"`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Record(context.Background(), newTestCirculationEvent())

	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCirculationEventRepository_Record_ValueTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCirculationEventRepository(db)

	mock.ExpectQuery(`INSERT INTO "circulation_events"`).
		WillReturnError(&pgconn.PgError{Code: pgStringTooLong, Message: "value too long for type character varying(128)"})

	event := newTestCirculationEvent()
	event.RequestID = strings.Repeat("a", 129)
	_, err := repo.Record(context.Background(), event)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.NoError(t, mock.ExpectationsWereMet())
}
