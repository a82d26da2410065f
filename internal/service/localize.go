package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/model"
)

// Wall-clock layouts used by the web forms.
const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04"
	dateTimeLayout = "2006-01-02 15:04"
)

// parseLocalDateTime interprets a form date+clock pair in the display
// timezone and returns the absolute UTC instant.
func parseLocalDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local time %q %q: %w", date, clock, err)
	}
	return t.UTC(), nil
}

// anchorClock interprets a bare clock time on the calendar day of anchor
// (localized), not today. Manual check-in/out edits always land on the
// event's own date.
func anchorClock(clock string, anchor time.Time, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock time %q: %w", clock, err)
	}
	day := anchor.In(loc)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc).UTC(), nil
}

// normalizeCap parses a limit/reserved form value. Empty and zero both mean
// unset; caps never block when unset.
func normalizeCap(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parse cap %q: %w", s, err)
	}
	if n <= 0 {
		return nil, nil
	}
	return &n, nil
}

// formatClock renders an optional timestamp as a localized clock string.
func formatClock(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(clockLayout)
	return &s
}

// toEventData builds the display form of an event.
func toEventData(ev *model.Event, loc *time.Location) dto.EventData {
	start := ev.Start.In(loc)
	end := ev.End.In(loc)
	return dto.EventData{
		ID:        ev.ID,
		Title:     ev.Title,
		StartISO:  ev.Start.UTC().Format(time.RFC3339),
		EndISO:    ev.End.UTC().Format(time.RFC3339),
		Date:      start.Format(dateLayout),
		StartTime: start.Format(clockLayout),
		EndTime:   end.Format(clockLayout),
	}
}

// toUserPayload builds the client-facing view of a user.
func toUserPayload(u *model.User) dto.UserPayload {
	return dto.UserPayload{
		ID:          u.ID,
		DisplayName: u.DisplayName(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Nickname:    u.Nickname,
		Grade:       u.Grade,
		Period:      u.Period,
		Admin:       u.Admin(),
	}
}

// toEntryStatus builds the member-facing slice of an entry.
func toEntryStatus(e *model.Entry, loc *time.Location) dto.EntryStatus {
	return dto.EntryStatus{
		CheckIn:  formatClock(e.CheckIn, loc),
		CheckOut: formatClock(e.CheckOut, loc),
		Position: e.Position,
	}
}

// toLimits maps the engine aggregate into its wire form.
func toLimits(l Limits) dto.EventLimits {
	return dto.EventLimits{
		Max:               l.Max,
		Reserved:          l.Reserved,
		Filled:            l.Filled,
		Available:         l.Available,
		ReservedAvailable: l.ReservedAvailable,
	}
}

// rosterOf projects stored entries into the engine's roster view.
func rosterOf(entries []model.Entry) []RosterEntry {
	roster := make([]RosterEntry, 0, len(entries))
	for _, e := range entries {
		period := 0
		if e.User != nil {
			period = e.User.Period
		}
		roster = append(roster, RosterEntry{UserID: e.UserID, Period: period})
	}
	return roster
}
