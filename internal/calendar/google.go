package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/TRHS-OMNIA/crew-backend/config"
)

// googleSync mirrors to a Google Calendar. Event identifiers double as the
// calendar event ids: the 8-hex tokens fall inside Google's allowed id
// alphabet, so no mapping table is needed.
type googleSync struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleSync builds a Sync from an authorized-user credentials file (the
// JSON written by the one-time OAuth consent flow, refresh token included).
func NewGoogleSync(ctx context.Context, cfg *config.GoogleConfig) (Sync, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read calendar credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse calendar credentials: %w", err)
	}

	svc, err := gcal.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("build calendar client: %w", err)
	}

	return &googleSync{svc: svc, calendarID: cfg.CalendarID}, nil
}

func (s *googleSync) CreateEvent(ctx context.Context, eventID, summary string, start, end time.Time) error {
	event := &gcal.Event{
		Id:      eventID,
		Summary: summary,
		Start:   &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	_, err := s.svc.Events.Insert(s.calendarID, event).Context(ctx).Do()
	return err
}

func (s *googleSync) UpdateEvent(ctx context.Context, eventID, summary string, start, end time.Time) error {
	patch := &gcal.Event{
		Summary: summary,
		Start:   &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	_, err := s.svc.Events.Patch(s.calendarID, eventID, patch).Context(ctx).Do()
	return err
}

func (s *googleSync) DeleteEvent(ctx context.Context, eventID string) error {
	return s.svc.Events.Delete(s.calendarID, eventID).Context(ctx).Do()
}

func (s *googleSync) AddAttendee(ctx context.Context, eventID, email string) error {
	event, err := s.svc.Events.Get(s.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return err
	}
	for _, a := range event.Attendees {
		if a.Email == email {
			return nil
		}
	}
	attendees := append(event.Attendees, &gcal.EventAttendee{Email: email})
	_, err = s.svc.Events.Patch(s.calendarID, eventID, &gcal.Event{Attendees: attendees}).Context(ctx).Do()
	return err
}

func (s *googleSync) RemoveAttendee(ctx context.Context, eventID, email string) error {
	event, err := s.svc.Events.Get(s.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return err
	}
	attendees := make([]*gcal.EventAttendee, 0, len(event.Attendees))
	removed := false
	for _, a := range event.Attendees {
		if a.Email == email {
			removed = true
			continue
		}
		attendees = append(attendees, a)
	}
	if !removed {
		return nil
	}
	_, err = s.svc.Events.Patch(s.calendarID, eventID, &gcal.Event{Attendees: attendees}).Context(ctx).Do()
	return err
}
