// Package apperr defines the business failures the API reports to clients.
// Every failure carries a short machine-readable kind and a longer
// human-readable explanation; handlers translate them into the standard
// response envelope. Infrastructure errors are not apperr values and
// surface as generic internal errors instead.
package apperr

// Error is an expected business-rule failure.
type Error struct {
	Kind     string // machine-readable, stable across releases
	Friendly string // shown to the user verbatim
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Kind }

var (
	// ── eligibility ──

	ErrAlreadyJoined = &Error{
		Kind:     "Already Joined Event",
		Friendly: "You've already joined this event.",
	}
	ErrEventFull = &Error{
		Kind:     "Event is Full",
		Friendly: "This event has reached its participant limit.",
	}
	ErrPositionsReserved = &Error{
		Kind:     "Remaining Positions Reserved",
		Friendly: "The remaining positions for this event are reserved for a specific class period.",
	}

	// ── QR check-in ──

	ErrUnlistedUser = &Error{
		Kind:     "Unlisted User",
		Friendly: "You aren't listed as a participant of this event and thus cannot be issued a check in/out code.",
	}
	ErrEventAlreadyComplete = &Error{
		Kind:     "User Event Complete",
		Friendly: "You've already been checked in and out of this event, a check in/out code is useless.",
	}
	ErrInvalidQR = &Error{
		Kind:     "Invalid QR",
		Friendly: "This code doesn't match any issued check in/out code.",
	}
	ErrExpiredQR = &Error{
		Kind:     "Expired QR Code",
		Friendly: "This code has expired.  Ask the participant to generate a fresh one.",
	}
	ErrDuplicateQR = &Error{
		Kind:     "Duplicate QR Code",
		Friendly: "This code has already been scanned.",
	}

	// ── input ──

	ErrInvalidTime = &Error{
		Kind:     "Invalid Time",
		Friendly: "Times must be entered as hour:minute, like 14:30.",
	}

	// ── lookup ──

	ErrInvalidEvent = &Error{
		Kind:     "Invalid Event",
		Friendly: "There is no record of this event.",
	}
	ErrNotFound = &Error{
		Kind:     "Not Found",
		Friendly: "There is no matching sign up record.",
	}

	// ── auth ──

	ErrUnauthorizedUser = &Error{
		Kind:     "Unauthorized User",
		Friendly: "The credentials used to login are not authorized to use this application.  If you should be able to access this application, ask your teacher to grant permission.",
	}
	ErrAuthenticationFailure = &Error{
		Kind:     "Authentication Failure",
		Friendly: "Google failed to verify your identity.  Try again in a few moments.",
	}
)
