package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/TRHS-OMNIA/crew-backend/config"
	"github.com/TRHS-OMNIA/crew-backend/internal/calendar"
	"github.com/TRHS-OMNIA/crew-backend/internal/repository"
	"github.com/TRHS-OMNIA/crew-backend/pkg/jwt"
	"github.com/TRHS-OMNIA/crew-backend/pkg/redis"
)

// Service aggregates all business services for dependency injection.
type Service struct {
	Auth       AuthService
	Event      EventService
	Enrollment EnrollmentService
	QR         QRService
	User       UserService
	Export     ExportService
}

// New wires up all services from their shared dependencies. rdb may
// be nil when Redis is unavailable; the QR scan-status cache degrades to
// store lookups.
func New(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	cal calendar.Sync,
	logger *zap.Logger,
) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Event.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("load display timezone: %w", err)
	}

	engine := NewEligibilityEngine(cfg.Event.PrivilegedPeriods)
	verifier := NewGoogleVerifier(cfg.Google.OAuthClientID)

	// A nil *redis.Client must stay a nil interface for the cache check in
	// Peek to short-circuit.
	var scanCache ScanCache
	if rdb != nil {
		scanCache = rdb
	}

	return &Service{
		Auth:       NewAuthService(repo, verifier, jwtMgr, logger),
		Event:      NewEventService(repo, engine, cal, loc, logger),
		Enrollment: NewEnrollmentService(repo, engine, cal, loc, cfg.Event.MailDomain, logger),
		QR:         NewQRService(repo, scanCache, loc, cfg.Event.QRTokenTTL, logger),
		User:       NewUserService(repo, logger),
		Export:     NewExportService(repo, loc, logger),
	}, nil
}
