package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/validoio/valido/internal/flagx"
	"github.com/validoio/valido/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file. Duration fields
// use timex.Duration so both "30m" strings and integer nanoseconds parse.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	OtpValidityDuration          timex.Duration `json:"otp_validity_duration"`
	OtpResendCooldown            timex.Duration `json:"otp_resend_cooldown"`
	Brand                        string         `json:"brand"`
	EmailFrom                    string         `json:"email_from"`
	MailerMode                   string         `json:"mailer_mode"`
	SESRegion                    string         `json:"ses_region"`
	SESEndpoint                  string         `json:"ses_endpoint"`
	SESAccessKeyID               string         `json:"ses_access_key_id"`
	SESSecretAccessKey           string         `json:"ses_secret_access_key"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. Absent file path means nothing
// is loaded; unreadable or invalid files panic, as startup cannot proceed
// with half-applied configuration. Zero-valued fields in the file leave the
// current Config value untouched.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, v timex.Duration) {
		if v.Duration != 0 {
			*dst = v.Duration
		}
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&config.OtpValidityDuration, c.OtpValidityDuration)
	setDuration(&config.OtpResendCooldown, c.OtpResendCooldown)
	setString(&config.Brand, c.Brand)
	setString(&config.EmailFrom, c.EmailFrom)
	setString(&config.MailerMode, c.MailerMode)
	setString(&config.SESRegion, c.SESRegion)
	setString(&config.SESEndpoint, c.SESEndpoint)
	setString(&config.SESAccessKeyID, c.SESAccessKeyID)
	setString(&config.SESSecretAccessKey, c.SESSecretAccessKey)
}
