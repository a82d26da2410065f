package service

import (
	"github.com/TRHS-OMNIA/crew-backend/pkg/apperr"
)

// EligibilityEngine decides whether a candidate may join an event given its
// capacity configuration and current roster. It is pure: no I/O, no clock.
// The privileged-period set is injected at construction so tests can vary it.
type EligibilityEngine struct {
	privileged map[int]bool
}

// NewEligibilityEngine creates an engine entitling the given class periods to
// reserved seats.
func NewEligibilityEngine(privilegedPeriods []int) *EligibilityEngine {
	m := make(map[int]bool, len(privilegedPeriods))
	for _, p := range privilegedPeriods {
		m[p] = true
	}
	return &EligibilityEngine{privileged: m}
}

// EventCaps is the capacity configuration of an event. A nil Limit means
// unlimited; a nil Reserved means no seats held back.
type EventCaps struct {
	Limit    *int
	Reserved *int
}

// RosterEntry is one current enrollment as the engine sees it.
type RosterEntry struct {
	UserID string
	Period int
}

// Candidate is the user asking to join.
type Candidate struct {
	ID     string
	Period int
}

// Limits is the aggregate availability of an event. Max and Available are nil
// for unlimited events. Available may go negative when a capped event has
// been overfilled by admin override; ReservedAvailable is clamped at zero.
type Limits struct {
	Max               *int
	Reserved          int
	Filled            int
	Available         *int
	ReservedAvailable int
}

// Decision is the per-candidate outcome. Reason is nil exactly when the
// candidate is eligible.
type Decision struct {
	Eligible bool
	Reason   *apperr.Error
}

// Justification is the display string for the decision.
func (d Decision) Justification() string {
	if d.Eligible {
		return "Join Event"
	}
	return d.Reason.Kind
}

// Limits computes aggregate availability from the event caps and roster.
func (e *EligibilityEngine) Limits(caps EventCaps, roster []RosterEntry) Limits {
	reserved := 0
	if caps.Reserved != nil {
		reserved = *caps.Reserved
	}

	filled := len(roster)
	reserveFilled := 0
	for _, r := range roster {
		if e.privileged[r.Period] {
			reserveFilled++
		}
	}

	reservedAvailable := reserved - reserveFilled
	if reservedAvailable < 0 {
		reservedAvailable = 0
	}

	l := Limits{
		Max:               caps.Limit,
		Reserved:          reserved,
		Filled:            filled,
		ReservedAvailable: reservedAvailable,
	}
	if caps.Limit != nil {
		available := *caps.Limit - filled
		l.Available = &available
	}
	return l
}

// Decide evaluates the candidate against the computed limits, first match
// wins: duplicate membership, then a hard capacity cap, then the reserved
// pool guard for non-privileged candidates.
func (e *EligibilityEngine) Decide(l Limits, roster []RosterEntry, c Candidate) Decision {
	for _, r := range roster {
		if r.UserID == c.ID {
			return Decision{Reason: apperr.ErrAlreadyJoined}
		}
	}

	if l.Max != nil && l.Filled >= *l.Max {
		return Decision{Reason: apperr.ErrEventFull}
	}

	// An unlimited event can never reduce to just its reserved pool.
	if l.Available != nil && *l.Available <= l.ReservedAvailable && !e.privileged[c.Period] {
		return Decision{Reason: apperr.ErrPositionsReserved}
	}

	return Decision{Eligible: true}
}
