package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/mail"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthService coordinates credential verification, token issuance and
// refresh, and the password-recovery flows.
type AuthService struct {
	users          repository.UserRepository
	epochs         repository.EpochSource
	mailer         mail.Mailer
	dispatcher     events.Dispatcher
	tokenMgr       *auth.TokenManager
	logger         *zap.Logger
	bcryptCost     int
	maxRefreshRate int
	resetTTL       time.Duration
	resetURLBase   string
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Epochs     repository.EpochSource
	Mailer     mail.Mailer
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, logger *zap.Logger, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:          deps.UserRepo,
		epochs:         deps.Epochs,
		mailer:         deps.Mailer,
		dispatcher:     deps.Dispatcher,
		tokenMgr:       auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		logger:         logger,
		bcryptCost:     cfg.Auth.BcryptCost,
		maxRefreshRate: cfg.Auth.MaxRefreshRate,
		resetTTL:       cfg.Auth.ResetTokenTTL(),
		resetURLBase:   cfg.Auth.ResetPasswordURLBase,
	}
}

// Signin verifies credentials and starts a new token chain at counter 1.
// It performs no persistence write.
func (s *AuthService) Signin(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewInvalidAuth()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if !user.Active() || auth.ComparePassword(user.PasswordHash, password) != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidAuth()
	}

	token, expiresAt, err := s.tokenMgr.Issue(user, 1, s.epochs.Current(ctx))
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	user.SecToken = token

	return user, token, expiresAt, nil
}

// Signup registers an account with default ACTIVE status.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if user.ID <= 0 {
		return nil, apperrors.NewNoDataSaved()
	}

	s.publish(ctx, events.Event{Type: events.EventUserRegistered, UserID: user.ID, Email: user.Email})
	return user, nil
}

// RefreshToken exchanges a presented token for the next one in its chain.
// Expired tokens remain exchangeable as long as their claims are recoverable
// and the chain limits hold; epoch mismatch and the counter ceiling are the
// two hard stops.
func (s *AuthService) RefreshToken(ctx context.Context, tokenStr string) (*domain.User, string, time.Time, error) {
	parsed := s.tokenMgr.Parse(tokenStr)
	currentEpoch := s.epochs.Current(ctx)

	decision := auth.EvaluateRefresh(parsed, currentEpoch, s.maxRefreshRate)
	switch decision {
	case auth.RefreshMalformed:
		return nil, "", time.Time{}, apperrors.NewInvalidToken("")
	case auth.RefreshReplayDetected:
		return nil, "", time.Time{}, apperrors.NewDuplicatedToken("token chain invalidated by re-login")
	case auth.RefreshRateExceeded:
		return nil, "", time.Time{}, apperrors.NewDuplicatedToken("refresh limit reached")
	case auth.RefreshClaimsUnrecoverable:
		return nil, "", time.Time{}, apperrors.NewGeneralFailure(nil)
	}

	user, err := s.users.FindByUsername(ctx, parsed.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewInvalidToken("unknown subject")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	newToken, expiresAt, err := s.tokenMgr.Issue(user, parsed.RefreshCount+1, currentEpoch)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	user.SecToken = newToken

	s.logger.Debug("token refreshed",
		zap.String("subject", parsed.Subject),
		zap.Int("refresh_count", parsed.RefreshCount+1),
		zap.String("decision", decision.String()),
	)
	return user, newToken, expiresAt, nil
}

// UpdatePassword changes the acting user's password after verifying the old
// one. A persistence write that reports no row updated is logged and
// tolerated rather than surfaced.
func (s *AuthService) UpdatePassword(ctx context.Context, oldPassword, newPassword string, actingUserID int64) error {
	if actingUserID <= 0 || oldPassword == "" || newPassword == "" {
		return apperrors.NewBadRequest("old password, new password and acting user are required")
	}

	user, err := s.users.FindByID(ctx, actingUserID)
	if err != nil {
		return apperrors.MapError(err)
	}

	if auth.ComparePassword(user.PasswordHash, oldPassword) != nil {
		return apperrors.NewForbidden("old password does not match")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	updated, err := s.users.UpdatePassword(ctx, hash, user.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !updated {
		s.logger.Warn("password update reported no row written", zap.Int64("user_id", user.ID))
	}

	s.publish(ctx, events.Event{Type: events.EventPasswordChanged, UserID: user.ID, Email: user.Email})
	return nil
}

// ForgetPassword issues a single-use reset token and mails the reset link.
// An unknown email is a silent no-op so the endpoint cannot be used to probe
// for registered accounts. The mail is dispatched only after the token has
// been persisted.
func (s *AuthService) ForgetPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewBadRequest("email is required")
	}

	user, err := s.users.FindByUsername(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return apperrors.MapError(err)
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	expiresAt := time.Now().Add(s.resetTTL)
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiresAt

	updated, err := s.users.UpdateResetToken(ctx, user)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !updated {
		return apperrors.NewGeneralFailure(nil)
	}

	resetURL := s.resetURLBase + "/" + token
	if err := s.mailer.SendResetPasswordMail(ctx, user, resetURL); err != nil {
		s.logger.Warn("reset mail dispatch failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:    events.EventPasswordResetRequested,
		UserID:  user.ID,
		Email:   user.Email,
		Payload: events.PasswordResetRequestedPayload{ExpiresAt: expiresAt},
	})
	return nil
}

// ResetPassword consumes a reset token and installs the new password. The
// token match and its invalidation happen in one store call, so the token
// cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.NewBadRequest("token is required")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	reset, err := s.users.ResetPassword(ctx, token, hash)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !reset {
		return apperrors.NewInvalidToken("reset token not found or expired")
	}

	s.publish(ctx, events.Event{Type: events.EventPasswordResetCompleted})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
