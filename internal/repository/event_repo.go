package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TRHS-OMNIA/crew-backend/internal/model"
)

// EventRepository is the event data-access interface.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	// GetForUpdate reads the event row under a clause.Locking FOR UPDATE
	// lock so a join's capacity check and insert observe a stable roster.
	// Must run inside a transaction injected via Repository.WithTx.
	GetForUpdate(ctx context.Context, id string) (*model.Event, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListFrom(ctx context.Context, from time.Time) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	// Delete removes the event; entries and QR tokens cascade at the store.
	Delete(ctx context.Context, id string) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository backed by GORM.
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) GetForUpdate(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Exists(ctx context.Context, id string) (bool, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Select("id").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListFrom returns events ending at or after from, ordered by start time.
func (r *eventRepo) ListFrom(ctx context.Context, from time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where(`"end" >= ?`, from).
		Order(`"start"`).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	// Save with Select forces nullable limit/reserved columns to be written
	// even when cleared back to NULL.
	return r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", event.ID).
		Select("title", "start", "end", "limit", "reserved").
		Updates(event).Error
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Event{}).Error
}
