package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tender_backend/internal/feature/auth/domain/entity"
	"tender_backend/internal/platform/apperr"
	platformmail "tender_backend/internal/platform/mail"
)

const (
	minPasswordLength = 8
	tokenBytes        = 32
)

// UserRepository abstracts the persistence layer for user entities.
// Interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create returns ErrEmailAlreadyExists for a duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdateStatus moves the user from one status to another. It returns ErrStatusChanged
	// if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uint, from, to entity.Status) error
}

// TokenRepository persists email tokens by hash.
type TokenRepository interface {
	Create(ctx context.Context, token *entity.EmailToken) error

	// FindByHash returns ErrTokenNotFound when no token of kind has hash.
	FindByHash(ctx context.Context, kind entity.TokenKind, hash string) (*entity.EmailToken, error)

	// MarkUsed sets used_at only if it is still NULL. It returns ErrTokenUsed when
	// another consumer got there first.
	MarkUsed(ctx context.Context, id uint, at time.Time) error
}

// Transactor runs fn inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// JWTGenerator creates signed access tokens.
type JWTGenerator interface {
	GenerateToken(userID uint, email, role string) (string, error)
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg platformmail.Message) error
}

// Config holds the registration settings.
type Config struct {
	// AppBaseURL prefixes API links sent by email.
	AppBaseURL      string
	// FrontendBaseURL prefixes links to frontend pages. Empty falls back to AppBaseURL.
	FrontendBaseURL string
	ConfirmationTTL time.Duration
	InvitationTTL   time.Duration
}

// authUsecase implements registration, confirmation, invitations and login.
type authUsecase struct {
	users        UserRepository
	tokens       TokenRepository
	tx           Transactor
	jwtGenerator JWTGenerator
	mailer       Mailer
	cfg          Config

	now      func() time.Time
	newToken func() (string, error)
}

// NewAuthUsecase creates a new authUsecase.
func NewAuthUsecase(users UserRepository, tokens TokenRepository, tx Transactor,
	jwtGenerator JWTGenerator, mailer Mailer, cfg Config) *authUsecase {
	return &authUsecase{
		users:        users,
		tokens:       tokens,
		tx:           tx,
		jwtGenerator: jwtGenerator,
		mailer:       mailer,
		cfg:          cfg,
		now:          time.Now,
		newToken:     randomToken,
	}
}

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	CompanyName string
	Position    string
}

// RegisterPublisher creates a publisher in PENDING_EMAIL_CONFIRMATION and mails a
// confirmation link. A mail failure rolls the registration back.
func (u *authUsecase) RegisterPublisher(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, ErrCompanyRequired
	}
	user, err := u.newUser(in, entity.RolePublisher, entity.StatusPendingEmailConfirmation)
	if err != nil {
		return nil, err
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.ensureEmailFree(ctx, user.Email); err != nil {
			return err
		}
		if err := u.users.Create(ctx, user); err != nil {
			return err
		}
		raw, err := u.issueToken(ctx, &entity.EmailToken{
			Kind:      entity.TokenConfirmation,
			Email:     user.Email,
			ExpiresAt: u.now().Add(u.cfg.ConfirmationTTL),
		})
		if err != nil {
			return err
		}
		return u.send(ctx, platformmail.Message{
			To:      user.Email,
			Subject: "Confirm your email address",
			Body: fmt.Sprintf("Hello %s,\n\nconfirm your email address to continue your publisher registration:\n%s\n\n"+
				"The link expires in %s. After confirmation an administrator will review your account.\n",
				user.Name, link(u.cfg.AppBaseURL, "/api/confirm-email", raw, user.Email), u.cfg.ConfirmationTTL),
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterBidder creates an ACTIVE bidder. Bidders need no confirmation or approval.
func (u *authUsecase) RegisterBidder(ctx context.Context, in RegisterInput) (*entity.User, error) {
	user, err := u.newUser(in, entity.RoleBidder, entity.StatusActive)
	if err != nil {
		return nil, err
	}
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.ensureEmailFree(ctx, user.Email); err != nil {
			return err
		}
		return u.users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAdmin creates an ACTIVE admin account. Used by the CLI only.
func (u *authUsecase) CreateAdmin(ctx context.Context, in RegisterInput) (*entity.User, error) {
	user, err := u.newUser(in, entity.RoleAdmin, entity.StatusActive)
	if err != nil {
		return nil, err
	}
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.ensureEmailFree(ctx, user.Email); err != nil {
			return err
		}
		return u.users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ConfirmEmail consumes a confirmation token and moves the account to PENDING_ADMIN_APPROVAL.
func (u *authUsecase) ConfirmEmail(ctx context.Context, email, rawToken string) error {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(rawToken) == "" {
		return ErrTokenNotRecognised
	}

	return u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := u.consume(ctx, entity.TokenConfirmation, email, rawToken); err != nil {
			return err
		}
		user, err := u.users.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrTokenNotRecognised
			}
			return err
		}
		next, err := user.Status.Next(entity.EventConfirmEmail)
		if err != nil {
			return err
		}
		return u.users.UpdateStatus(ctx, user.ID, user.Status, next)
	})
}

// Login verifies credentials, then the account status, and returns a signed token.
// bcrypt runs even for unknown emails so response time does not reveal which emails exist.
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))

	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // dummy
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return "", nil, err
		}
		return "", nil, ErrInvalidCredentials
	}

	if err := user.CanAccess(); err != nil {
		return "", nil, err
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// Me returns the current user.
func (u *authUsecase) Me(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

func (u *authUsecase) newUser(in RegisterInput, role entity.Role, status entity.Status) (*entity.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email, err := validateEmail(in.Email)
	if err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		Name:        name,
		Email:       email,
		Password:    hashed,
		Role:        role,
		Status:      status,
		CompanyName: strings.TrimSpace(in.CompanyName),
		Position:    strings.TrimSpace(in.Position),
	}, nil
}

func (u *authUsecase) ensureEmailFree(ctx context.Context, email string) error {
	_, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailAlreadyExists
	case errors.Is(err, ErrUserNotFound):
		return nil
	default:
		return err
	}
}

// issueToken fills in the hash of a fresh random token, stores it and returns the raw value.
func (u *authUsecase) issueToken(ctx context.Context, tok *entity.EmailToken) (string, error) {
	raw, err := u.newToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	tok.TokenHash = hashToken(raw)
	if err := u.tokens.Create(ctx, tok); err != nil {
		return "", err
	}
	return raw, nil
}

// consume validates a raw token for email and marks it used.
func (u *authUsecase) consume(ctx context.Context, kind entity.TokenKind, email, raw string) (*entity.EmailToken, error) {
	tok, err := u.tokens.FindByHash(ctx, kind, hashToken(strings.TrimSpace(raw)))
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrTokenNotRecognised
		}
		return nil, err
	}
	if !strings.EqualFold(tok.Email, email) {
		return nil, ErrTokenNotRecognised
	}
	if tok.IsUsed() {
		return nil, ErrTokenUsed
	}
	now := u.now()
	if tok.IsExpired(now) {
		return nil, ErrTokenExpired
	}
	if err := u.tokens.MarkUsed(ctx, tok.ID, now); err != nil {
		return nil, err
	}
	tok.UsedAt = &now
	return tok, nil
}

func (u *authUsecase) send(ctx context.Context, msg platformmail.Message) error {
	if err := u.mailer.Send(ctx, msg); err != nil {
		return apperr.Wrap(apperr.KindUpstream, mailDeliveryMessage, err)
	}
	return nil
}

func link(base, path, raw, email string) string {
	return fmt.Sprintf("%s%s?token=%s&email=%s", base, path, raw, url.QueryEscape(email))
}

func (u *authUsecase) frontendBase() string {
	if u.cfg.FrontendBaseURL != "" {
		return u.cfg.FrontendBaseURL
	}
	return u.cfg.AppBaseURL
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if err := validatePassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) (string, error) {
	email = normalizeEmail(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func randomToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
