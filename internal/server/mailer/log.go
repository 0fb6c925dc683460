package mailer

import (
	"context"
	"time"

	"github.com/validoio/valido/internal/logging"
)

// LogMailer writes verification codes to the log instead of sending mail.
// Development and test default; never use it where real users sign up.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mailer")}
}

func (m *LogMailer) SendVerificationEmail(ctx context.Context, to, code string, expiresIn time.Duration) error {
	m.logger.Info(ctx, "verification code issued",
		"to", to, "code", code, "expires_in", expiresIn.String())
	return nil
}
