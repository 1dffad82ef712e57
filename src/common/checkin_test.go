package common

import (
	"ngocms/src/db"
	"ngocms/src/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func ticketRow(status types.TicketStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_id", "ticket_type_id", "order_number", "attendee_name", "status"}).
		AddRow(7, 1, 5, "TKT-ABCDEF1234", "Asha", string(status))
}

func ticketTypeRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_id", "name"}).AddRow(5, 1, "General")
}

func TestCheckInTicketNotFound(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := CheckInTicket(1, 7, "gate-a")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestCheckInTicketWrongEvent(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(ticketRow(types.TICKET_PENDING))
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).
		WillReturnRows(ticketTypeRow())

	_, err := CheckInTicket(99, 7, "gate-a")
	assert.ErrorIs(t, err, ErrWrongEvent)
}

func TestCheckInTicketCancelled(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(ticketRow(types.TICKET_CANCELLED))
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).
		WillReturnRows(ticketTypeRow())

	ticket, err := CheckInTicket(1, 7, "gate-a")
	assert.ErrorIs(t, err, ErrTicketCancelled)
	assert.NotNil(t, ticket)
}

func TestCheckInTicketAlreadyCheckedIn(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(ticketRow(types.TICKET_CHECKED_IN))
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).
		WillReturnRows(ticketTypeRow())

	ticket, err := CheckInTicket(1, 7, "gate-a")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.NotNil(t, ticket)
	assert.Equal(t, "Asha", ticket.AttendeeName)
}

func TestCheckInTicketSuccess(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(ticketRow(types.TICKET_PENDING))
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).
		WillReturnRows(ticketTypeRow())
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tickets"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ticket, err := CheckInTicket(1, 7, "gate-a")
	assert.Nil(t, err)
	assert.Equal(t, types.TICKET_CHECKED_IN, ticket.Status)
	assert.NotNil(t, ticket.CheckedInAt)
	assert.WithinDuration(t, time.Now(), *ticket.CheckedInAt, time.Minute)
	assert.Equal(t, "gate-a", *ticket.CheckedInBy)
	assert.Nil(t, mock.ExpectationsWereMet())
}

// A scan that loses the pending->checked_in race affects zero rows; the
// re-read reports the terminal state instead of claiming a second success.
func TestCheckInTicketLosesRace(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(ticketRow(types.TICKET_PENDING))
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).
		WillReturnRows(ticketTypeRow())
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tickets"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(ticketRow(types.TICKET_CHECKED_IN))
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).
		WillReturnRows(ticketTypeRow())

	ticket, err := CheckInTicket(1, 7, "gate-a")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.NotNil(t, ticket)
	assert.Nil(t, mock.ExpectationsWereMet())
}
