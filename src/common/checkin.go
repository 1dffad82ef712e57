package common

import (
	"errors"
	"fmt"
	"log"
	"ngocms/src/db"
	"ngocms/src/models"
	"ngocms/src/types"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTicketNotFound   = errors.New("Ticket not found")
	ErrWrongEvent       = errors.New("Ticket does not belong to this event")
	ErrTicketCancelled  = errors.New("Ticket cancelled")
	ErrAlreadyCheckedIn = errors.New("Ticket already checked in")
)

// CheckInTicket moves a pending ticket to checked_in, stamping time and the
// acting identity. The transition is a single conditional UPDATE keyed on the
// prior status, so two concurrent scans of the same ticket resolve to exactly
// one success. On ErrAlreadyCheckedIn the ticket is still returned so the
// operator can see who already checked in and when.
func CheckInTicket(eventId uint, ticketId uint, actor string) (*models.Ticket, error) {
	var ticket models.Ticket
	db := db.GetDb()
	if err := db.
		Where(&models.Ticket{ID: ticketId}).
		Preload("TicketType").
		First(&ticket).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		log.Printf("Error retrieving Ticket [%d]: %s\n", ticketId, err.Error())
		return nil, err
	}
	if ticket.EventID != eventId {
		return nil, ErrWrongEvent
	}
	switch ticket.Status {
	case types.TICKET_CANCELLED:
		return &ticket, ErrTicketCancelled
	case types.TICKET_CHECKED_IN:
		return &ticket, ErrAlreadyCheckedIn
	}

	now := time.Now()
	res := db.
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticketId, types.TICKET_PENDING).
		Updates(map[string]any{
			"status":        types.TICKET_CHECKED_IN,
			"checked_in_at": now,
			"checked_in_by": actor,
		})
	if res.Error != nil {
		log.Printf("Error on Ticket check-in [%d]: %s\n", ticketId, res.Error.Error())
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// lost the race: somebody else moved the ticket out of pending
		if err := db.
			Where(&models.Ticket{ID: ticketId}).
			Preload("TicketType").
			First(&ticket).
			Error; err != nil {
			return nil, err
		}
		if ticket.Status == types.TICKET_CANCELLED {
			return &ticket, ErrTicketCancelled
		}
		return &ticket, ErrAlreadyCheckedIn
	}

	ticket.Status = types.TICKET_CHECKED_IN
	ticket.CheckedInAt = &now
	ticket.CheckedInBy = &actor
	return &ticket, nil
}

// SearchTickets fuzzy-matches attendee name, email, phone and order number
// within one event. Read-only projection over committed state, never cached.
func SearchTickets(eventId uint, q string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	pattern := fmt.Sprintf("%%%s%%", q)
	db := db.GetDb()
	if err := db.
		Where("event_id = ?", eventId).
		Where(
			db.Where("attendee_name ILIKE ?", pattern).
				Or("attendee_email ILIKE ?", pattern).
				Or("attendee_phone ILIKE ?", pattern).
				Or("order_number ILIKE ?", pattern),
		).
		Preload("TicketType").
		Order("attendee_name asc").
		Limit(50).
		Find(&tickets).
		Error; err != nil {
		log.Printf("Error searching Tickets for Event [%d]: %s\n", eventId, err.Error())
		return nil, err
	}
	return tickets, nil
}

func GetCheckInStats(eventId uint) (*types.CheckInStats, error) {
	var rows []struct {
		Status types.TicketStatus
		Count  int64
	}
	db := db.GetDb()
	if err := db.
		Model(&models.Ticket{}).
		Select("status, count(*) as count").
		Where("event_id = ?", eventId).
		Group("status").
		Find(&rows).
		Error; err != nil {
		log.Printf("Error retrieving check-in stats for Event [%d]: %s\n", eventId, err.Error())
		return nil, err
	}
	stats := &types.CheckInStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case types.TICKET_PENDING:
			stats.Pending = row.Count
		case types.TICKET_CHECKED_IN:
			stats.CheckedIn = row.Count
		case types.TICKET_CANCELLED:
			stats.Cancelled = row.Count
		}
	}
	return stats, nil
}
