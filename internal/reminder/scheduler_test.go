package reminder

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/remindly/remindly-be/internal/database"
	"github.com/remindly/remindly-be/internal/services"
)

type recordingMailer struct {
	sent []string
	fail error
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, to)
	return nil
}

func newFixture(t *testing.T) (*sql.DB, *services.EventService, *recordingMailer, *Scheduler) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	events := services.NewEventService(db, 30)
	mailer := &recordingMailer{}
	scheduler, err := NewScheduler(events, mailer, nil, "*/5 * * * *")
	require.NoError(t, err)
	return db, events, mailer, scheduler
}

func seedUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec("INSERT INTO users(id, name, email, password_hash, verified) VALUES(?, ?, ?, 'x', 1)", id, "Ann", email)
	require.NoError(t, err)
	return id
}

func TestNewScheduler_BadCron(t *testing.T) {
	_, err := NewScheduler(nil, nil, nil, "every five minutes or so")
	require.Error(t, err)
}

func TestCheckAndSendReminders(t *testing.T) {
	db, events, mailer, scheduler := newFixture(t)
	userID := seedUser(t, db, "ann@x.com")

	// Reminder due five minutes from now.
	minutes := 15
	due, err := events.CreateEvent(userID, services.EventInput{
		Title:           "Standup",
		Start:           time.Now().UTC().Add(20 * time.Minute),
		ReminderMinutes: &minutes,
	})
	require.NoError(t, err)

	// Reminder not due for another hour and change.
	_, err = events.CreateEvent(userID, services.EventInput{
		Title:           "Later",
		Start:           time.Now().UTC().Add(2 * time.Hour),
		ReminderMinutes: &minutes,
	})
	require.NoError(t, err)

	scheduler.checkAndSendReminders()
	require.Equal(t, []string{"ann@x.com"}, mailer.sent)

	listed, err := events.GetEventsForUser(userID)
	require.NoError(t, err)
	for _, e := range listed {
		require.Equal(t, e.ID == due.ID, e.ReminderSent)
	}

	// A second scan finds nothing new.
	scheduler.checkAndSendReminders()
	require.Len(t, mailer.sent, 1)
}

func TestCheckAndSendReminders_FailedSendRetries(t *testing.T) {
	db, events, mailer, scheduler := newFixture(t)
	userID := seedUser(t, db, "ann@x.com")

	minutes := 5
	_, err := events.CreateEvent(userID, services.EventInput{
		Title:           "Standup",
		Start:           time.Now().UTC().Add(10 * time.Minute),
		ReminderMinutes: &minutes,
	})
	require.NoError(t, err)

	mailer.fail = errors.New("smtp down")
	scheduler.checkAndSendReminders()
	require.Empty(t, mailer.sent)

	// The reminder stays unsent, so the next scan picks it up again.
	mailer.fail = nil
	scheduler.checkAndSendReminders()
	require.Equal(t, []string{"ann@x.com"}, mailer.sent)
}

func TestRunAndStop(t *testing.T) {
	_, _, _, scheduler := newFixture(t)

	done := make(chan struct{})
	go func() {
		scheduler.Run()
		close(done)
	}()

	scheduler.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
