// Package calendar mirrors event and attendee state to an external calendar.
// All operations are best-effort side channels: callers log failures and move
// on, they never roll back store mutations because a mirror call failed.
package calendar

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sync is the mirror consumed by the event and enrollment services.
type Sync interface {
	CreateEvent(ctx context.Context, eventID, summary string, start, end time.Time) error
	UpdateEvent(ctx context.Context, eventID, summary string, start, end time.Time) error
	DeleteEvent(ctx context.Context, eventID string) error
	// AddAttendee is idempotent: adding an email that is already on the
	// event is a no-op.
	AddAttendee(ctx context.Context, eventID, email string) error
	RemoveAttendee(ctx context.Context, eventID, email string) error
}

// logSync is the fallback used when no calendar is configured. It records
// each mirror call at debug level and reports success.
type logSync struct {
	logger *zap.Logger
}

// NewLogSync creates a Sync that only logs.
func NewLogSync(logger *zap.Logger) Sync {
	return &logSync{logger: logger}
}

func (s *logSync) CreateEvent(_ context.Context, eventID, summary string, start, end time.Time) error {
	s.logger.Debug("calendar mirror skipped: create event",
		zap.String("event_id", eventID),
		zap.String("summary", summary),
		zap.Time("start", start),
		zap.Time("end", end),
	)
	return nil
}

func (s *logSync) UpdateEvent(_ context.Context, eventID, summary string, start, end time.Time) error {
	s.logger.Debug("calendar mirror skipped: update event", zap.String("event_id", eventID))
	return nil
}

func (s *logSync) DeleteEvent(_ context.Context, eventID string) error {
	s.logger.Debug("calendar mirror skipped: delete event", zap.String("event_id", eventID))
	return nil
}

func (s *logSync) AddAttendee(_ context.Context, eventID, email string) error {
	s.logger.Debug("calendar mirror skipped: add attendee",
		zap.String("event_id", eventID),
		zap.String("email", email),
	)
	return nil
}

func (s *logSync) RemoveAttendee(_ context.Context, eventID, email string) error {
	s.logger.Debug("calendar mirror skipped: remove attendee",
		zap.String("event_id", eventID),
		zap.String("email", email),
	)
	return nil
}
