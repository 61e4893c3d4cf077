package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
)

// Mailer dispatches outbound account mail. Delivery is fire-and-forget from
// the auth flow's perspective; a failed send never unwinds the state that
// triggered it.
type Mailer interface {
	SendResetPasswordMail(ctx context.Context, user *domain.User, resetURL string) error
}

type logMailer struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewLogMailer returns a Mailer that records dispatches through the logger.
// It stands in for a real delivery backend behind the same interface.
func NewLogMailer(logger *zap.Logger, cfg config.NotificationConfig) Mailer {
	return &logMailer{logger: logger, cfg: cfg}
}

func (m *logMailer) SendResetPasswordMail(_ context.Context, user *domain.User, resetURL string) error {
	m.logger.Info("sendResetPasswordMail",
		zap.String("from", m.cfg.EmailFrom),
		zap.String("to", user.Email),
		zap.String("reset_url", resetURL),
	)
	return nil
}
