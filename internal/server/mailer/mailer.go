// Package mailer delivers the signup verification email. The core treats
// delivery as fire-and-forget: callers log failures but never surface them
// to the user who triggered the send.
package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Mailer sends a verification code to an email address. expiresIn tells the
// recipient how long the code stays valid.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, code string, expiresIn time.Duration) error
}

// verificationTemplate is the onboarding email body. Kept inline: it is the
// only template the service renders.
var verificationTemplate = template.Must(template.New("welcome-onboarding").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 24px; background-color: #f5f6f8;">
  <div style="max-width: 520px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h1 style="font-size: 20px; margin-top: 0;">Welcome to {{.Brand}}</h1>
    <p>Use the code below to verify your email address.</p>
    <p style="font-size: 32px; letter-spacing: 8px; font-weight: bold; text-align: center; margin: 24px 0;">{{.Otp}}</p>
    <p>This code expires in {{.ExpiresInMinutes}} minutes. If you did not sign up, you can ignore this message.</p>
    <p style="color: #888; font-size: 12px; margin-bottom: 0;">&copy; {{.Year}} {{.Brand}}</p>
  </div>
</body>
</html>
`))

type templateData struct {
	Brand            string
	Otp              string
	ExpiresInMinutes int
	Year             int
}

func renderVerificationEmail(brand, code string, expiresIn time.Duration) (subject, htmlBody string, err error) {
	var b strings.Builder
	data := templateData{
		Brand:            brand,
		Otp:              code,
		ExpiresInMinutes: int(expiresIn.Minutes()),
		Year:             time.Now().Year(),
	}
	if err := verificationTemplate.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("rendering verification email: %w", err)
	}
	return "Welcome to " + brand + " - Verify Your Email", b.String(), nil
}
