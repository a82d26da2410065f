package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/repository"
	"github.com/TRHS-OMNIA/crew-backend/pkg/apperr"
	"github.com/TRHS-OMNIA/crew-backend/pkg/jwt"
)

// TokenVerifier validates a Google ID token and returns the asserted email.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (string, error)
}

type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier creates a TokenVerifier backed by Google's public keys.
func NewGoogleVerifier(clientID string) TokenVerifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, idTok string) (string, error) {
	payload, err := idtoken.Validate(ctx, idTok, v.clientID)
	if err != nil {
		return "", err
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return "", errors.New("id token carries no email claim")
	}
	return email, nil
}

// AuthService exchanges a Google identity for an application session.
type AuthService interface {
	GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.SessionResponse, error)
}

type authService struct {
	repo     *repository.Repository
	verifier TokenVerifier
	jwtMgr   *jwt.Manager
	logger   *zap.Logger
}

// NewAuthService creates an AuthService instance.
func NewAuthService(
	repo *repository.Repository,
	verifier TokenVerifier,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		verifier: verifier,
		jwtMgr:   jwtMgr,
		logger:   logger,
	}
}

// GoogleLogin verifies the Google ID token, matches the email's local part
// against the roster, and issues a session token. Verified identities with no
// roster record are rejected rather than auto-provisioned.
func (s *authService) GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.SessionResponse, error) {
	// 1. Verify the token against Google.
	email, err := s.verifier.Verify(ctx, req.Token)
	if err != nil {
		s.logger.Warn("google token verification failed", zap.Error(err))
		return nil, apperr.ErrAuthenticationFailure
	}

	// 2. The email local part is the roster ID.
	uid := email
	if at := strings.Index(email, "@"); at >= 0 {
		uid = email[:at]
	}

	user, err := s.repo.User.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUnauthorizedUser
		}
		s.logger.Error("load user failed", zap.String("user_id", uid), zap.Error(err))
		return nil, err
	}

	// 3. Issue the session.
	tok, err := s.jwtMgr.GenerateSessionToken(user.ID, user.DisplayName(), user.Period, user.Grade, user.Admin())
	if err != nil {
		s.logger.Error("sign session token failed", zap.String("user_id", uid), zap.Error(err))
		return nil, err
	}

	return &dto.SessionResponse{
		Token: tok,
		User:  toUserPayload(user),
	}, nil
}
