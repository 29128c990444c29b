package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/remindly/remindly-be/internal/email"
)

func newUserService(t *testing.T, requireVerification bool) (*UserService, *recordingMailer) {
	t.Helper()
	mailer := &recordingMailer{}
	return NewUserService(newTestDB(t), mailer, requireVerification, "http://localhost:8080"), mailer
}

func TestRegister(t *testing.T) {
	svc, _ := newUserService(t, false)

	user, err := svc.Register(context.Background(), "Ann", "Ann@X.com", "pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "Ann", user.Name)
	require.Equal(t, "ann@x.com", user.Email, "email must be lowercase-normalized")
	require.Empty(t, user.PasswordHash, "hash must never leave the service")
	require.True(t, user.Verified)
	require.False(t, user.CreatedAt.IsZero())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t, false)

	_, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw123456")
	require.NoError(t, err)

	// Same address in different case still collides.
	_, err = svc.Register(context.Background(), "Other Ann", "ANN@x.com", "different-pw")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newUserService(t, false)

	cases := []struct {
		name, email, password string
	}{
		{"", "ann@x.com", "pw123456"},
		{"Ann", "", "pw123456"},
		{"Ann", "not-an-email", "pw123456"},
		{"Ann", "ann@x.com", "short"},
	}
	for _, c := range cases {
		_, err := svc.Register(context.Background(), c.name, c.email, c.password)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "name=%q email=%q", c.name, c.email)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserService(t, false)

	_, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw123456")
	require.NoError(t, err)

	user, err := svc.Authenticate("ann@x.com", "pw123456")
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", user.Email)
	require.Empty(t, user.PasswordHash)

	// Unknown email and wrong password are indistinguishable.
	_, err = svc.Authenticate("nobody@x.com", "pw123456")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("ann@x.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnverifiedAccount(t *testing.T) {
	svc, mailer := newUserService(t, true)

	_, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw123456")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1, "verification email should be sent")

	_, err = svc.Authenticate("ann@x.com", "pw123456")
	require.ErrorIs(t, err, ErrUnverifiedAccount)
}

func TestVerifyEmail(t *testing.T) {
	svc, _ := newUserService(t, true)

	registered, err := svc.Register(context.Background(), "Ann", "ann@x.com", "pw123456")
	require.NoError(t, err)
	require.False(t, registered.Verified)

	var token string
	row := svc.db.QueryRow("SELECT verification_token FROM users WHERE id = ?", registered.ID)
	require.NoError(t, row.Scan(&token))

	user, err := svc.VerifyEmail(token)
	require.NoError(t, err)
	require.True(t, user.Verified)

	// Token is single-use.
	_, err = svc.VerifyEmail(token)
	require.ErrorIs(t, err, ErrBadVerificationToken)

	_, err = svc.Authenticate("ann@x.com", "pw123456")
	require.NoError(t, err)
}

func TestVerifyEmail_BadToken(t *testing.T) {
	svc, _ := newUserService(t, true)

	_, err := svc.VerifyEmail("")
	require.ErrorIs(t, err, ErrBadVerificationToken)

	_, err = svc.VerifyEmail("no-such-token")
	require.ErrorIs(t, err, ErrBadVerificationToken)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, _ := newUserService(t, false)

	_, err := svc.GetUserByID("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

// recordingMailer captures outgoing mail for assertions.
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

var _ email.Mailer = (*recordingMailer)(nil)
