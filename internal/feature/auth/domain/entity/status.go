package entity

import (
	"fmt"

	"tender_backend/internal/platform/apperr"
)

// Status is the registration state of an account.
//
//	PENDING_EMAIL_CONFIRMATION --confirm-email--> PENDING_ADMIN_APPROVAL
//	PENDING_ADMIN_APPROVAL     --approve-------> ACTIVE
//	PENDING_ADMIN_APPROVAL     --reject--------> REJECTED
//	ACTIVE                     --suspend-------> SUSPENDED
//	SUSPENDED                  --reactivate----> ACTIVE
type Status string

const (
	StatusPendingEmailConfirmation Status = "PENDING_EMAIL_CONFIRMATION"
	StatusPendingAdminApproval     Status = "PENDING_ADMIN_APPROVAL"
	StatusActive                   Status = "ACTIVE"
	StatusSuspended                Status = "SUSPENDED"
	StatusRejected                 Status = "REJECTED"
)

// Event drives a status transition.
type Event string

const (
	EventConfirmEmail Event = "confirm-email"
	EventApprove      Event = "approve"
	EventReject       Event = "reject"
	EventSuspend      Event = "suspend"
	EventReactivate   Event = "reactivate"
)

var (
	ErrInvalidStatus     = apperr.New(apperr.KindValidation, "invalid status")
	ErrInvalidTransition = apperr.New(apperr.KindConflict, "invalid status transition")

	ErrEmailNotConfirmed = apperr.New(apperr.KindForbidden, "email address has not been confirmed")
	ErrAwaitingApproval  = apperr.New(apperr.KindForbidden, "account is awaiting admin approval")
	ErrAccountSuspended  = apperr.New(apperr.KindForbidden, "account has been suspended")
	ErrAccountRejected   = apperr.New(apperr.KindForbidden, "account registration was rejected")
)

var transitions = map[Status]map[Event]Status{
	StatusPendingEmailConfirmation: {EventConfirmEmail: StatusPendingAdminApproval},
	StatusPendingAdminApproval:     {EventApprove: StatusActive, EventReject: StatusRejected},
	StatusActive:                   {EventSuspend: StatusSuspended},
	StatusSuspended:                {EventReactivate: StatusActive},
}

// Valid reports whether s is one of the defined states.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingEmailConfirmation, StatusPendingAdminApproval, StatusActive, StatusSuspended, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseStatus parses an exact status name.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return s, nil
}

// Next returns the state reached from s on e, or ErrInvalidTransition.
func (s Status) Next(e Event) (Status, error) {
	if to, ok := transitions[s][e]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: cannot %s an account in state %s", ErrInvalidTransition, e, s)
}

// AccessError is nil for ACTIVE and a distinct forbidden error for every other state.
func (s Status) AccessError() error {
	switch s {
	case StatusActive:
		return nil
	case StatusPendingEmailConfirmation:
		return ErrEmailNotConfirmed
	case StatusPendingAdminApproval:
		return ErrAwaitingApproval
	case StatusSuspended:
		return ErrAccountSuspended
	case StatusRejected:
		return ErrAccountRejected
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
}
