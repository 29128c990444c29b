package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/remindly/remindly-be/internal/email"
	"github.com/remindly/remindly-be/internal/services"
	ws "github.com/remindly/remindly-be/internal/websocket"
)

const (
	// lookBack catches reminders a slow or restarted scan would otherwise
	// skip past.
	lookBack = 5 * time.Minute

	// lookAhead is how far into the future a scan reaches.
	lookAhead = 30 * time.Minute

	sendTimeout = 30 * time.Second
)

// Scheduler periodically scans for events whose reminder time has arrived
// and dispatches notifications to their owners.
type Scheduler struct {
	events   services.EventServiceProvider
	mailer   email.Mailer
	hub      *ws.Hub
	schedule cron.Schedule
	done     chan bool
}

// NewScheduler creates a scheduler that scans on the cadence given by a
// standard cron expression, e.g. "*/5 * * * *".
func NewScheduler(events services.EventServiceProvider, mailer email.Mailer, hub *ws.Hub, cronExpr string) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder cron expression: %w", err)
	}
	return &Scheduler{
		events:   events,
		mailer:   mailer,
		hub:      hub,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the scheduler's scan loop.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting reminder scheduler...")

	// Run once immediately on start
	s.checkAndSendReminders()

	for {
		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping reminder scheduler.")
			return
		case <-timer.C:
			s.checkAndSendReminders()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// checkAndSendReminders queries for due reminders and dispatches them. A
// reminder is marked sent only after the email goes out, so a failed send
// is retried on the next scan.
func (s *Scheduler) checkAndSendReminders() {
	now := time.Now().UTC()
	due, err := s.events.GetDueReminders(now, lookBack, lookAhead)
	if err != nil {
		log.Error().Err(err).Msg("Reminder scan failed")
		return
	}
	if len(due) == 0 {
		return
	}
	log.Info().Int("count", len(due)).Msg("Found events needing reminders")

	for _, d := range due {
		s.dispatch(d)
	}
}

func (s *Scheduler) dispatch(d services.DueReminder) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	subject := "Reminder: " + d.Event.Title
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>You have an upcoming event:</p><p><strong>%s</strong><br>%s</p><p>Don't forget to prepare!</p>",
		d.OwnerName, d.Event.Title, d.Event.Start.Format("Monday, January 2 at 3:04 PM MST"),
	)

	if err := s.mailer.Send(ctx, d.OwnerEmail, subject, body); err != nil {
		log.Error().Err(err).Str("event_id", d.Event.ID).Msg("Failed to send reminder email")
		return
	}

	if err := s.events.MarkReminderSent(d.Event.ID); err != nil {
		log.Error().Err(err).Str("event_id", d.Event.ID).Msg("Failed to mark reminder as sent")
		return
	}

	if s.hub != nil {
		s.hub.NotifyUser(d.Event.UserID, ws.NewReminderMessage(d.Event))
	}

	log.Info().Str("event_id", d.Event.ID).Str("to", d.OwnerEmail).Msg("Reminder dispatched")
}
