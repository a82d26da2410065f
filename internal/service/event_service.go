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
	"github.com/TRHS-OMNIA/crew-backend/pkg/token"
)

// EventService is the event CRUD and display interface.
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.CreateEventResponse, error)
	Get(ctx context.Context, eventID string, viewer *Identity) (*dto.EventDetailResponse, error)
	List(ctx context.Context) ([]dto.EventData, error)
	Update(ctx context.Context, eventID string, req *dto.UpdateEventRequest) error
	Delete(ctx context.Context, eventID string) error
	Dashboard(ctx context.Context, eventID string) (*dto.DashboardResponse, error)
}

type eventService struct {
	repo   *repository.Repository
	engine *EligibilityEngine
	cal    calendar.Sync
	loc    *time.Location
	logger *zap.Logger
}

// NewEventService creates an EventService instance.
func NewEventService(
	repo *repository.Repository,
	engine *EligibilityEngine,
	cal calendar.Sync,
	loc *time.Location,
	logger *zap.Logger,
) EventService {
	return &eventService{
		repo:   repo,
		engine: engine,
		cal:    cal,
		loc:    loc,
		logger: logger,
	}
}

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.CreateEventResponse, error) {
	// 1. Interpret form values: local wall-clock → UTC, caps normalized.
	start, err := parseLocalDateTime(req.Date, req.StartTime, s.loc)
	if err != nil {
		return nil, apperr.ErrInvalidEvent
	}
	end, err := parseLocalDateTime(req.Date, req.EndTime, s.loc)
	if err != nil {
		return nil, apperr.ErrInvalidEvent
	}
	limit, err := normalizeCap(req.Limit)
	if err != nil {
		return nil, apperr.ErrInvalidEvent
	}
	reserved, err := normalizeCap(req.Reserved)
	if err != nil {
		return nil, apperr.ErrInvalidEvent
	}

	// 2. Generate an unused identifier. Collisions in an 8-hex space are a
	// theoretical possibility only, but the retry loop is still required.
	var id string
	for {
		id, err = token.Hex(token.EventIDBytes)
		if err != nil {
			return nil, err
		}
		exists, err := s.repo.Event.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	event := &model.Event{
		ID:       id,
		Title:    req.EventTitle,
		Start:    start,
		End:      end,
		Limit:    limit,
		Reserved: reserved,
	}
	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("create event failed", zap.Error(err))
		return nil, err
	}

	// 3. Mirror to the calendar, best effort.
	if err := s.cal.CreateEvent(ctx, id, event.Title, event.Start, event.End); err != nil {
		s.logger.Warn("calendar create failed", zap.String("event_id", id), zap.Error(err))
	}

	return &dto.CreateEventResponse{ID: id}, nil
}

func (s *eventService) Get(ctx context.Context, eventID string, viewer *Identity) (*dto.EventDetailResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidEvent
		}
		s.logger.Error("load event failed", zap.Error(err))
		return nil, err
	}

	entries, err := s.repo.Entry.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("load roster failed", zap.Error(err))
		return nil, err
	}

	roster := rosterOf(entries)
	limits := s.engine.Limits(EventCaps{Limit: event.Limit, Reserved: event.Reserved}, roster)

	// Anonymous viewers see availability but can never join.
	userLimits := dto.UserEventLimits{UserAvailable: false, UserJustification: "Join Event"}
	if viewer != nil {
		decision := s.engine.Decide(limits, roster, Candidate{ID: viewer.ID, Period: viewer.Period})
		userLimits = dto.UserEventLimits{
			UserAvailable:     decision.Eligible,
			UserJustification: decision.Justification(),
		}
	}

	return &dto.EventDetailResponse{
		EventData:       toEventData(event, s.loc),
		EventLimits:     toLimits(limits),
		UserEventLimits: userLimits,
	}, nil
}

// List returns events that have not yet ended, soonest first.
func (s *eventService) List(ctx context.Context) ([]dto.EventData, error) {
	events, err := s.repo.Event.ListFrom(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return nil, err
	}

	list := make([]dto.EventData, 0, len(events))
	for i := range events {
		list = append(list, toEventData(&events[i], s.loc))
	}
	return list, nil
}

func (s *eventService) Update(ctx context.Context, eventID string, req *dto.UpdateEventRequest) error {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrInvalidEvent
		}
		return err
	}

	start, err := parseLocalDateTime(req.Date, req.StartTime, s.loc)
	if err != nil {
		return apperr.ErrInvalidEvent
	}
	end, err := parseLocalDateTime(req.Date, req.EndTime, s.loc)
	if err != nil {
		return apperr.ErrInvalidEvent
	}
	limit, err := normalizeCap(req.Limit)
	if err != nil {
		return apperr.ErrInvalidEvent
	}
	reserved, err := normalizeCap(req.Reserved)
	if err != nil {
		return apperr.ErrInvalidEvent
	}

	event.Title = req.EventTitle
	event.Start = start
	event.End = end
	event.Limit = limit
	event.Reserved = reserved

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("update event failed", zap.String("event_id", eventID), zap.Error(err))
		return err
	}

	if err := s.cal.UpdateEvent(ctx, eventID, event.Title, event.Start, event.End); err != nil {
		s.logger.Warn("calendar update failed", zap.String("event_id", eventID), zap.Error(err))
	}

	return nil
}

// Delete removes the event; entries and QR tokens cascade at the store.
func (s *eventService) Delete(ctx context.Context, eventID string) error {
	exists, err := s.repo.Event.Exists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.ErrInvalidEvent
	}

	if err := s.repo.Event.Delete(ctx, eventID); err != nil {
		s.logger.Error("delete event failed", zap.String("event_id", eventID), zap.Error(err))
		return err
	}

	if err := s.cal.DeleteEvent(ctx, eventID); err != nil {
		s.logger.Warn("calendar delete failed", zap.String("event_id", eventID), zap.Error(err))
	}

	return nil
}

func (s *eventService) Dashboard(ctx context.Context, eventID string) (*dto.DashboardResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidEvent
		}
		return nil, err
	}

	entries, err := s.repo.Entry.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("load roster failed", zap.Error(err))
		return nil, err
	}

	rows := make([]dto.DashboardEntry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		row := dto.DashboardEntry{
			UserID:      e.UserID,
			CheckIn:     formatClock(e.CheckIn, s.loc),
			CheckOut:    formatClock(e.CheckOut, s.loc),
			Position:    e.Position,
			PrivateNote: e.PrivateNote,
		}
		if e.User != nil {
			row.DisplayName = e.User.DisplayName()
			row.FirstName = e.User.FirstName
			row.LastName = e.User.LastName
			row.Grade = e.User.Grade
			row.Period = e.User.Period
		}
		rows = append(rows, row)
	}

	return &dto.DashboardResponse{
		EventData: toEventData(event, s.loc),
		Entries:   rows,
	}, nil
}
