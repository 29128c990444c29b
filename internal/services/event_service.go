package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/remindly/remindly-be/internal/models"
)

// EventInput is the client-supplied portion of an event. ReminderMinutes
// is a pointer so "absent" and "zero minutes" stay distinct.
type EventInput struct {
	Title           string
	Start           time.Time
	End             *time.Time
	ReminderMinutes *int
}

// DueReminder pairs an event whose reminder window has arrived with its
// owner's contact details.
type DueReminder struct {
	Event      models.Event
	OwnerName  string
	OwnerEmail string
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ownerID string, input EventInput) (models.Event, error)
	GetEventsForUser(ownerID string) ([]models.Event, error)
	DeleteEvent(eventID, ownerID string) error
	GetDueReminders(now time.Time, lookBack, lookAhead time.Duration) ([]DueReminder, error)
	MarkReminderSent(eventID string) error
}

// EventService provides business logic for event management. Every read
// and mutation is scoped to the owning user.
type EventService struct {
	db                     *sql.DB
	defaultReminderMinutes int
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, defaultReminderMinutes int) *EventService {
	return &EventService{db: db, defaultReminderMinutes: defaultReminderMinutes}
}

// CreateEvent validates the input, derives the reminder trigger time and
// persists the event bound to ownerID.
func (s *EventService) CreateEvent(ownerID string, input EventInput) (models.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Event{}, validationError("title required")
	}
	if input.Start.IsZero() {
		return models.Event{}, validationError("start required")
	}
	if input.End != nil && input.End.Before(input.Start) {
		return models.Event{}, validationError("end before start")
	}

	reminderMinutes := s.defaultReminderMinutes
	if input.ReminderMinutes != nil && *input.ReminderMinutes >= 0 {
		reminderMinutes = *input.ReminderMinutes
	}

	event := models.Event{
		ID:              uuid.New().String(),
		Title:           title,
		Start:           input.Start.UTC(),
		ReminderMinutes: reminderMinutes,
		UserID:          ownerID,
	}
	if input.End != nil {
		end := input.End.UTC()
		event.End = &end
	}
	event.ComputeReminderAt()

	stmt, err := s.db.Prepare(`
		INSERT INTO events (id, title, starts_at, ends_at, reminder_minutes, reminder_at, reminder_sent, user_id)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`)
	if err != nil {
		return models.Event{}, err
	}
	defer stmt.Close()

	var end interface{}
	if event.End != nil {
		end = *event.End
	}
	if _, err = stmt.Exec(event.ID, event.Title, event.Start, end, event.ReminderMinutes, event.ReminderAt, event.UserID); err != nil {
		return models.Event{}, err
	}

	return s.getEventByIDAndOwner(event.ID, ownerID)
}

// GetEventsForUser retrieves all events owned by the given user, in
// insertion order.
func (s *EventService) GetEventsForUser(ownerID string) ([]models.Event, error) {
	rows, err := s.db.Query(`
		SELECT id, title, starts_at, ends_at, reminder_minutes, reminder_at, reminder_sent, user_id, created_at
		FROM events WHERE user_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanEvents(rows)
}

// DeleteEvent deletes the event only when it exists AND is owned by
// ownerID. The match-and-delete is a single conditional statement, so two
// racing deletes cannot both succeed and a delete can never remove another
// user's event.
func (s *EventService) DeleteEvent(eventID, ownerID string) error {
	if _, err := uuid.Parse(eventID); err != nil {
		return ErrInvalidID
	}

	res, err := s.db.Exec("DELETE FROM events WHERE id = ? AND user_id = ?", eventID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Missing and foreign are deliberately indistinguishable.
		return ErrNotFound
	}
	return nil
}

// GetDueReminders retrieves events whose reminder time falls inside the
// scan window [now-lookBack, now+lookAhead], that have not started yet and
// whose reminder has not been sent.
func (s *EventService) GetDueReminders(now time.Time, lookBack, lookAhead time.Duration) ([]DueReminder, error) {
	now = now.UTC()
	rows, err := s.db.Query(`
		SELECT e.id, e.title, e.starts_at, e.ends_at, e.reminder_minutes, e.reminder_at, e.reminder_sent, e.user_id, e.created_at,
		       u.name, u.email
		FROM events e
		JOIN users u ON u.id = e.user_id
		WHERE e.reminder_sent = 0
		  AND e.reminder_at >= ?
		  AND e.reminder_at <= ?
		  AND e.starts_at > ?`,
		now.Add(-lookBack), now.Add(lookAhead), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []DueReminder
	for rows.Next() {
		var d DueReminder
		var end sql.NullTime
		err := rows.Scan(
			&d.Event.ID, &d.Event.Title, &d.Event.Start, &end,
			&d.Event.ReminderMinutes, &d.Event.ReminderAt, &d.Event.ReminderSent,
			&d.Event.UserID, &d.Event.CreatedAt,
			&d.OwnerName, &d.OwnerEmail,
		)
		if err != nil {
			return nil, err
		}
		if end.Valid {
			t := end.Time
			d.Event.End = &t
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// MarkReminderSent flips the reminderSent flag once dispatch is confirmed.
func (s *EventService) MarkReminderSent(eventID string) error {
	_, err := s.db.Exec("UPDATE events SET reminder_sent = 1 WHERE id = ? AND reminder_sent = 0", eventID)
	return err
}

// getEventByIDAndOwner retrieves a single owned event.
func (s *EventService) getEventByIDAndOwner(eventID, ownerID string) (models.Event, error) {
	row := s.db.QueryRow(`
		SELECT id, title, starts_at, ends_at, reminder_minutes, reminder_at, reminder_sent, user_id, created_at
		FROM events WHERE id = ? AND user_id = ?`, eventID, ownerID)
	return s.scanEvent(row)
}

// scanEvents is a helper to scan multiple rows into a slice of Events.
func (s *EventService) scanEvents(rows *sql.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		event, err := s.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// scanEvent is a helper to scan a single row into an Event struct.
func (s *EventService) scanEvent(scanner interface{ Scan(...interface{}) error }) (models.Event, error) {
	var event models.Event
	var end sql.NullTime
	err := scanner.Scan(
		&event.ID,
		&event.Title,
		&event.Start,
		&end,
		&event.ReminderMinutes,
		&event.ReminderAt,
		&event.ReminderSent,
		&event.UserID,
		&event.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Event{}, ErrNotFound
		}
		return models.Event{}, err
	}
	if end.Valid {
		t := end.Time
		event.End = &t
	}
	return event, nil
}
