package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TRHS-OMNIA/crew-backend/internal/calendar"
	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/model"
	"github.com/TRHS-OMNIA/crew-backend/internal/repository"
	"github.com/TRHS-OMNIA/crew-backend/pkg/apperr"
)

// EnrollmentService orchestrates joining, removal and attendance stamping
// against the eligibility engine and the stores.
type EnrollmentService interface {
	// Join enrolls user in the event. With adminOverride the capacity and
	// reservation rules are bypassed; duplicate membership never is.
	Join(ctx context.Context, eventID string, user Identity, adminOverride bool) error
	// AdminJoin enrolls an arbitrary user on an admin's behalf, with
	// override semantics.
	AdminJoin(ctx context.Context, eventID, userID string) error
	// Remove deletes the enrollment. Removing an absent enrollment is a
	// success with zero effect.
	Remove(ctx context.Context, eventID, userID string) error
	CheckIn(ctx context.Context, eventID, userID string) error
	CheckOut(ctx context.Context, eventID, userID string) error
	EditEntry(ctx context.Context, eventID, userID string, req *dto.EditEntryRequest) error
	ListUserEvents(ctx context.Context, userID string) ([]dto.UserEventResponse, error)
	GetUserEntry(ctx context.Context, eventID, userID string) (*dto.UserEventResponse, error)
}

type enrollmentService struct {
	repo       *repository.Repository
	engine     *EligibilityEngine
	cal        calendar.Sync
	loc        *time.Location
	mailDomain string
	logger     *zap.Logger
}

// NewEnrollmentService creates an EnrollmentService instance.
func NewEnrollmentService(
	repo *repository.Repository,
	engine *EligibilityEngine,
	cal calendar.Sync,
	loc *time.Location,
	mailDomain string,
	logger *zap.Logger,
) EnrollmentService {
	return &enrollmentService{
		repo:       repo,
		engine:     engine,
		cal:        cal,
		loc:        loc,
		mailDomain: mailDomain,
		logger:     logger,
	}
}

func (s *enrollmentService) Join(ctx context.Context, eventID string, user Identity, adminOverride bool) error {
	// Check and insert run in one transaction with the event row locked, so
	// two concurrent joins at the capacity boundary serialize instead of
	// both passing the check.
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		event, err := tx.Event.GetForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrInvalidEvent
			}
			return err
		}

		entries, err := tx.Entry.ListByEvent(ctx, eventID)
		if err != nil {
			return err
		}

		roster := rosterOf(entries)
		limits := s.engine.Limits(EventCaps{Limit: event.Limit, Reserved: event.Reserved}, roster)
		decision := s.engine.Decide(limits, roster, Candidate{ID: user.ID, Period: user.Period})

		if !decision.Eligible {
			// Override exists to bypass capacity and reservation rules,
			// never duplicate-membership protection.
			if !adminOverride || decision.Reason == apperr.ErrAlreadyJoined {
				return decision.Reason
			}
		}

		return tx.Entry.Create(ctx, &model.Entry{EventID: eventID, UserID: user.ID})
	})
	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			s.logger.Error("join failed", zap.String("event_id", eventID), zap.String("user_id", user.ID), zap.Error(err))
		}
		return err
	}

	if email := user.Email(s.mailDomain); email != "" {
		if err := s.cal.AddAttendee(ctx, eventID, email); err != nil {
			s.logger.Warn("calendar attendee add failed",
				zap.String("event_id", eventID),
				zap.String("email", email),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (s *enrollmentService) AdminJoin(ctx context.Context, eventID, userID string) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}

	return s.Join(ctx, eventID, Identity{ID: user.ID, Period: user.Period}, true)
}

func (s *enrollmentService) Remove(ctx context.Context, eventID, userID string) error {
	// Deleting zero rows is not an error; removal is idempotent.
	if _, err := s.repo.Entry.Delete(ctx, eventID, userID); err != nil {
		s.logger.Error("remove entry failed", zap.String("event_id", eventID), zap.String("user_id", userID), zap.Error(err))
		return err
	}

	if s.mailDomain != "" {
		email := userID + "@" + s.mailDomain
		if err := s.cal.RemoveAttendee(ctx, eventID, email); err != nil {
			s.logger.Warn("calendar attendee remove failed",
				zap.String("event_id", eventID),
				zap.String("email", email),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (s *enrollmentService) CheckIn(ctx context.Context, eventID, userID string) error {
	rows, err := s.repo.Entry.SetCheckIn(ctx, eventID, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *enrollmentService) CheckOut(ctx context.Context, eventID, userID string) error {
	rows, err := s.repo.Entry.SetCheckOut(ctx, eventID, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// EditEntry overwrites check-in/out stamps, position and private note.
// Supplied clock times are anchored to the event's own calendar day, not the
// day of the edit.
func (s *enrollmentService) EditEntry(ctx context.Context, eventID, userID string, req *dto.EditEntryRequest) error {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrInvalidEvent
		}
		return err
	}

	entry := &model.Entry{EventID: eventID, UserID: userID}

	if req.CheckIn != "" {
		at, err := anchorClock(req.CheckIn, event.Start, s.loc)
		if err != nil {
			return apperr.ErrInvalidTime
		}
		entry.CheckIn = &at
	}
	if req.CheckOut != "" {
		at, err := anchorClock(req.CheckOut, event.Start, s.loc)
		if err != nil {
			return apperr.ErrInvalidTime
		}
		entry.CheckOut = &at
	}
	if req.Position != "" {
		entry.Position = &req.Position
	}
	if req.PrivateNote != "" {
		entry.PrivateNote = &req.PrivateNote
	}

	rows, err := s.repo.Entry.Overwrite(ctx, entry)
	if err != nil {
		s.logger.Error("edit entry failed", zap.String("event_id", eventID), zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *enrollmentService) ListUserEvents(ctx context.Context, userID string) ([]dto.UserEventResponse, error) {
	entries, err := s.repo.Entry.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list user events failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.UserEventResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.Event == nil {
			continue
		}
		list = append(list, dto.UserEventResponse{
			EventData: toEventData(e.Event, s.loc),
			Entry:     toEntryStatus(e, s.loc),
		})
	}
	return list, nil
}

func (s *enrollmentService) GetUserEntry(ctx context.Context, eventID, userID string) (*dto.UserEventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidEvent
		}
		return nil, err
	}

	entry, err := s.repo.Entry.Get(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &dto.UserEventResponse{
		EventData: toEventData(event, s.loc),
		Entry:     toEntryStatus(entry, s.loc),
	}, nil
}
