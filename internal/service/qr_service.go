package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/model"
	"github.com/TRHS-OMNIA/crew-backend/internal/repository"
	"github.com/TRHS-OMNIA/crew-backend/pkg/apperr"
	"github.com/TRHS-OMNIA/crew-backend/pkg/token"
)

// ScanCache is an optional scan-status cache consulted by Peek before the
// store. Entries are keyed per issuing user so a poll only ever sees the
// caller's own codes.
type ScanCache interface {
	MarkScanned(ctx context.Context, qrid, userID string, ttl time.Duration) error
	WasScanned(ctx context.Context, qrid, userID string) (bool, error)
}

// QRService issues, consumes and reports on the short-lived single-use codes
// that drive check-in/out. Token lifecycle is issued → scanned or expired,
// both terminal.
type QRService interface {
	// Issue creates a code for the caller's enrollment. Only the code
	// identifier leaves the service; the scanning admin looks the
	// enrollment up through Consume.
	Issue(ctx context.Context, eventID, userID string) (*dto.QRIssueResponse, error)
	// Consume burns a code and returns the joined enrollment. A code is
	// burned on first lookup even when the scan then fails as expired or
	// duplicate; burning wins over validity.
	Consume(ctx context.Context, qrid string) (*dto.QRScanResponse, error)
	// Peek reports scan status for the issuing user's own code. An unknown
	// code reads as unscanned, never as an error.
	Peek(ctx context.Context, qrid, userID string) (*dto.QRPeekResponse, error)
}

type qrService struct {
	repo   *repository.Repository
	cache  ScanCache
	loc    *time.Location
	ttl    time.Duration
	logger *zap.Logger
}

// NewQRService creates a QRService. The token lifetime is injected from
// config; cache may be nil, dropping the scan-status cache.
func NewQRService(
	repo *repository.Repository,
	cache ScanCache,
	loc *time.Location,
	ttl time.Duration,
	logger *zap.Logger,
) QRService {
	return &qrService{
		repo:   repo,
		cache:  cache,
		loc:    loc,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *qrService) Issue(ctx context.Context, eventID, userID string) (*dto.QRIssueResponse, error) {
	now := time.Now().UTC()
	var qrid string

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		// 1. Only enrolled users get codes.
		entry, err := tx.Entry.Get(ctx, eventID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrUnlistedUser
			}
			return err
		}

		// 2. Fully checked in and out: nothing left for a code to do.
		if entry.Complete() {
			return apperr.ErrEventAlreadyComplete
		}

		// 3. Retire any still-live earlier codes for this enrollment.
		if err := tx.QR.ExpireActive(ctx, eventID, userID, now); err != nil {
			return err
		}

		// 4. Generate an unused identifier; retry on collision.
		for {
			qrid, err = token.Hex(token.QRIDBytes)
			if err != nil {
				return err
			}
			exists, err := tx.QR.Exists(ctx, qrid)
			if err != nil {
				return err
			}
			if !exists {
				break
			}
		}

		return tx.QR.Create(ctx, &model.QRToken{
			QRID:    qrid,
			EventID: eventID,
			UserID:  userID,
			Exp:     now.Add(s.ttl),
		})
	})
	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			s.logger.Error("issue qr failed", zap.String("event_id", eventID), zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	return &dto.QRIssueResponse{QRID: qrid}, nil
}

func (s *qrService) Consume(ctx context.Context, qrid string) (*dto.QRScanResponse, error) {
	now := time.Now().UTC()

	var (
		tok *model.QRToken
		res *dto.QRScanResponse
	)

	// The lookup, burn and joined read happen in one transaction with the
	// token row locked, so concurrent scans of the same code serialize. The
	// transaction itself never fails for expired or already-scanned codes:
	// the burn must commit regardless, so those verdicts are applied after.
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		t, err := tx.QR.GetForUpdate(ctx, qrid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrInvalidQR
			}
			return err
		}
		tok = t

		if err := tx.QR.MarkScanned(ctx, qrid); err != nil {
			return err
		}

		user, err := tx.User.GetByID(ctx, t.UserID)
		if err != nil {
			return err
		}
		event, err := tx.Event.GetByID(ctx, t.EventID)
		if err != nil {
			return err
		}
		entry, err := tx.Entry.Get(ctx, t.EventID, t.UserID)
		if err != nil {
			return err
		}

		res = &dto.QRScanResponse{
			User:      toUserPayload(user),
			EventData: toEventData(event, s.loc),
			Entry:     toEntryStatus(entry, s.loc),
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			s.logger.Error("consume qr failed", zap.String("qrid", qrid), zap.Error(err))
		}
		return nil, err
	}

	s.cacheScanned(ctx, qrid, tok.UserID)

	// Verdicts on the pre-burn state: expiry first, then duplicate.
	if tok.Expired(now) {
		return nil, apperr.ErrExpiredQR
	}
	if tok.Scanned {
		return nil, apperr.ErrDuplicateQR
	}

	return res, nil
}

func (s *qrService) Peek(ctx context.Context, qrid, userID string) (*dto.QRPeekResponse, error) {
	// Cache hit short-circuits the poll; a miss still consults the store.
	// The cache key carries the issuing user, so a hit already proves the
	// caller owns the code.
	if s.cache != nil {
		if hit, err := s.cache.WasScanned(ctx, qrid, userID); err == nil && hit {
			return &dto.QRPeekResponse{Scanned: true}, nil
		}
	}

	tok, err := s.repo.QR.GetByIDAndUser(ctx, qrid, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.QRPeekResponse{Scanned: false}, nil
		}
		s.logger.Error("peek qr failed", zap.String("qrid", qrid), zap.Error(err))
		return nil, err
	}

	return &dto.QRPeekResponse{Scanned: tok.Scanned}, nil
}

// cacheScanned records the burn for Peek polling; best effort only.
func (s *qrService) cacheScanned(ctx context.Context, qrid, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkScanned(ctx, qrid, userID, s.ttl); err != nil {
		s.logger.Debug("scan-status cache write failed", zap.String("qrid", qrid), zap.Error(err))
	}
}
