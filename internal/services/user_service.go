package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/remindly/remindly-be/internal/email"
	"github.com/remindly/remindly-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, name, emailAddr, password string) (models.User, error)
	Authenticate(emailAddr, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	VerifyEmail(token string) (models.User, error)
}

// UserService provides business logic for accounts: registration, login
// and the email verification flow.
type UserService struct {
	db                  *sql.DB
	validate            *validator.Validate
	mailer              email.Mailer
	requireVerification bool
	baseURL             string
}

// NewUserService creates a new UserService. When requireVerification is
// set, new accounts start unverified and receive a confirmation link;
// otherwise they are usable immediately.
func NewUserService(db *sql.DB, mailer email.Mailer, requireVerification bool, baseURL string) *UserService {
	return &UserService{
		db:                  db,
		validate:            validator.New(),
		mailer:              mailer,
		requireVerification: requireVerification,
		baseURL:             baseURL,
	}
}

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// Register creates a new account. The email is lowercase-normalized and
// must be unique; the password is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, name, emailAddr, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	input := registerInput{Name: name, Email: emailAddr, Password: password}
	if err := s.validate.Struct(input); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return models.User{}, validationError(registerFieldMessage(errs[0]))
		}
		return models.User{}, validationError("invalid registration data")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        emailAddr,
		PasswordHash: string(hashedPassword),
		Verified:     !s.requireVerification,
	}

	var verificationToken sql.NullString
	if s.requireVerification {
		token, err := randomToken()
		if err != nil {
			return models.User{}, err
		}
		verificationToken = sql.NullString{String: token, Valid: true}
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, name, email, password_hash, verified, verification_token) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Name, user.Email, user.PasswordHash, user.Verified, verificationToken); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	if s.requireVerification {
		s.sendVerificationEmail(ctx, user, verificationToken.String)
	}

	// Return the persisted copy, without the password hash
	return s.GetUserByID(user.ID)
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password produce the same error.
func (s *UserService) Authenticate(emailAddr, password string) (models.User, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, password_hash, verified, created_at FROM users WHERE email = ?", emailAddr)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Verified, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if s.requireVerification && !user.Verified {
		return models.User{}, ErrUnverifiedAccount
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, verified, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Verified, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// VerifyEmail marks the account holding the given verification token as
// verified. The token is single-use.
func (s *UserService) VerifyEmail(token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrBadVerificationToken
	}

	var id string
	row := s.db.QueryRow("SELECT id FROM users WHERE verification_token = ?", token)
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrBadVerificationToken
		}
		return models.User{}, err
	}

	if _, err := s.db.Exec("UPDATE users SET verified = 1, verification_token = NULL WHERE id = ?", id); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

func (s *UserService) sendVerificationEmail(ctx context.Context, user models.User, token string) {
	link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", s.baseURL, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Confirm your email address to activate your account:</p><p><a href=%q>Verify email</a></p>",
		user.Name, link,
	)
	if err := s.mailer.Send(ctx, user.Email, "Confirm your email", body); err != nil {
		// Registration still succeeds; the user can request the link again.
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to send verification email")
	}
}

func registerFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "name required"
	case "Email":
		return "a valid email is required"
	case "Password":
		return "password must be at least 8 characters"
	}
	return "invalid registration data"
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
