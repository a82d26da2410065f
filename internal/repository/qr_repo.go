package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TRHS-OMNIA/crew-backend/internal/model"
)

// QRTokenRepository is the QR token data-access interface.
type QRTokenRepository interface {
	Create(ctx context.Context, token *model.QRToken) error
	Exists(ctx context.Context, qrid string) (bool, error)
	// GetForUpdate reads the token row under a clause.Locking FOR UPDATE
	// lock so concurrent scans of the same code serialize. Must run inside
	// a transaction injected via Repository.WithTx.
	GetForUpdate(ctx context.Context, qrid string) (*model.QRToken, error)
	GetByIDAndUser(ctx context.Context, qrid, userID string) (*model.QRToken, error)
	MarkScanned(ctx context.Context, qrid string) error
	// ExpireActive retires any still-live unscanned tokens for an enrollment
	// by moving their expiry into the past.
	ExpireActive(ctx context.Context, eventID, userID string, now time.Time) error
}

type qrTokenRepo struct {
	db *gorm.DB
}

// NewQRTokenRepo creates a QRTokenRepository backed by GORM.
func NewQRTokenRepo(db *gorm.DB) QRTokenRepository {
	return &qrTokenRepo{db: db}
}

func (r *qrTokenRepo) Create(ctx context.Context, token *model.QRToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *qrTokenRepo) Exists(ctx context.Context, qrid string) (bool, error) {
	var token model.QRToken
	err := r.db.WithContext(ctx).
		Select("qrid").
		Where("qrid = ?", qrid).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *qrTokenRepo) GetForUpdate(ctx context.Context, qrid string) (*model.QRToken, error) {
	var token model.QRToken
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("qrid = ?", qrid).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *qrTokenRepo) GetByIDAndUser(ctx context.Context, qrid, userID string) (*model.QRToken, error) {
	var token model.QRToken
	err := r.db.WithContext(ctx).
		Where("qrid = ? AND user_id = ?", qrid, userID).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *qrTokenRepo) MarkScanned(ctx context.Context, qrid string) error {
	return r.db.WithContext(ctx).
		Model(&model.QRToken{}).
		Where("qrid = ?", qrid).
		Update("scanned", true).Error
}

func (r *qrTokenRepo) ExpireActive(ctx context.Context, eventID, userID string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.QRToken{}).
		Where("event_id = ? AND user_id = ? AND scanned = FALSE AND exp > ?", eventID, userID, now).
		Update("exp", now).Error
}
