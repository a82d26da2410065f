package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/TRHS-OMNIA/crew-backend/internal/model"
)

// EntryRepository is the enrollment data-access interface. Mutations that can
// legitimately match zero rows report rows-affected so callers can surface a
// not-found outcome instead of silently succeeding.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.Entry) error
	Get(ctx context.Context, eventID, userID string) (*model.Entry, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Entry, error)
	ListByUser(ctx context.Context, userID string) ([]model.Entry, error)
	Delete(ctx context.Context, eventID, userID string) (int64, error)
	SetCheckIn(ctx context.Context, eventID, userID string, at time.Time) (int64, error)
	SetCheckOut(ctx context.Context, eventID, userID string, at time.Time) (int64, error)
	// Overwrite replaces check-in/out stamps, position and private note
	// unconditionally (last-write-wins, nils clear).
	Overwrite(ctx context.Context, entry *model.Entry) (int64, error)
}

type entryRepo struct {
	db *gorm.DB
}

// NewEntryRepo creates an EntryRepository backed by GORM.
func NewEntryRepo(db *gorm.DB) EntryRepository {
	return &entryRepo{db: db}
}

func (r *entryRepo) Create(ctx context.Context, entry *model.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *entryRepo) Get(ctx context.Context, eventID, userID string) (*model.Entry, error) {
	var entry model.Entry
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByEvent returns the event's roster with users preloaded, ordered by
// member name for dashboard display.
func (r *entryRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Entry, error) {
	var entries []model.Entry
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = entries.user_id").
		Where("entries.event_id = ?", eventID).
		Order("users.last_name, users.first_name").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUser returns the user's enrollments with events preloaded, ordered by
// event start time.
func (r *entryRepo) ListByUser(ctx context.Context, userID string) ([]model.Entry, error) {
	var entries []model.Entry
	err := r.db.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.id = entries.event_id").
		Where("entries.user_id = ?", userID).
		Order(`events."start"`).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepo) Delete(ctx context.Context, eventID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&model.Entry{})
	return res.RowsAffected, res.Error
}

func (r *entryRepo) SetCheckIn(ctx context.Context, eventID, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Entry{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Update("check_in", at)
	return res.RowsAffected, res.Error
}

func (r *entryRepo) SetCheckOut(ctx context.Context, eventID, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Entry{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Update("check_out", at)
	return res.RowsAffected, res.Error
}

func (r *entryRepo) Overwrite(ctx context.Context, entry *model.Entry) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Entry{}).
		Where("event_id = ? AND user_id = ?", entry.EventID, entry.UserID).
		Select("check_in", "check_out", "position", "private_note").
		Updates(entry)
	return res.RowsAffected, res.Error
}
