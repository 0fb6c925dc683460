package config

import (
	"flag"
	"os"
	"time"

	"github.com/validoio/valido/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-o int      OTP validity, minutes
//	-w int      OTP resend cooldown, seconds
//	-b string   brand name used in verification emails
//	-f string   From address for outbound mail
//	-m string   mailer mode ("ses" or "log")
//	-g string   SES region
//	-e string   SES endpoint override (local stacks)
//	-u string   SES access key id (empty uses the default chain)
//	-p string   SES secret access key
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config file flags.
// Duration flags are accepted as integers and converted to time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-o", "-w", "-b", "-f", "-m", "-g", "-e", "-u", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")
	otpValidityDuration := fs.Int("o", int(config.OtpValidityDuration.Minutes()), "otp_validity_duration (in minutes)")
	otpResendCooldown := fs.Int("w", int(config.OtpResendCooldown.Seconds()), "otp_resend_cooldown (in seconds)")

	fs.StringVar(&config.Brand, "b", config.Brand, "brand name for verification emails")
	fs.StringVar(&config.EmailFrom, "f", config.EmailFrom, "from address for outbound mail")
	fs.StringVar(&config.MailerMode, "m", config.MailerMode, "mailer mode (ses|log)")
	fs.StringVar(&config.SESRegion, "g", config.SESRegion, "SES region")
	fs.StringVar(&config.SESEndpoint, "e", config.SESEndpoint, "SES endpoint override")
	fs.StringVar(&config.SESAccessKeyID, "u", config.SESAccessKeyID, "SES access key id")
	fs.StringVar(&config.SESSecretAccessKey, "p", config.SESSecretAccessKey, "SES secret access key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.OtpValidityDuration = time.Duration(*otpValidityDuration) * time.Minute
	config.OtpResendCooldown = time.Duration(*otpResendCooldown) * time.Second
}
