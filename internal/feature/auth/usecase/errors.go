// Package usecase implements the business logic for the auth feature.
package usecase

import "tender_backend/internal/platform/apperr"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperr.New(apperr.KindConflict, "an account with this email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = apperr.New(apperr.KindAuth, "invalid email or password")

	ErrNameRequired    = apperr.New(apperr.KindValidation, "name is required")
	ErrInvalidEmail    = apperr.New(apperr.KindValidation, "a valid email address is required")
	ErrWeakPassword    = apperr.New(apperr.KindValidation, "password must be at least 8 characters long")
	ErrCompanyRequired = apperr.New(apperr.KindValidation, "companyName is required")

	// Token errors share a prefix so clients can match on "invalid or expired token".
	ErrTokenNotRecognised = apperr.New(apperr.KindValidation, "invalid or expired token: token not recognised")
	ErrTokenExpired       = apperr.New(apperr.KindValidation, "invalid or expired token: token has expired")
	ErrTokenUsed          = apperr.New(apperr.KindValidation, "invalid or expired token: token already used")

	// ErrTokenNotFound is returned by token repositories; the usecase reports it as ErrTokenNotRecognised.
	ErrTokenNotFound = apperr.New(apperr.KindNotFound, "token not found")

	// ErrStatusChanged is returned when a conditional status update finds the row in another state.
	ErrStatusChanged = apperr.New(apperr.KindConflict, "account status changed concurrently")

	ErrInviterNotAllowed    = apperr.New(apperr.KindForbidden, "only admins and publishers can send invitations")
	ErrInviteRoleNotAllowed = apperr.New(apperr.KindForbidden, "publishers can only invite publisher team members")
)

const mailDeliveryMessage = "could not send email"
