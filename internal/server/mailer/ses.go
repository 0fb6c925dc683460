package mailer

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	sc "github.com/validoio/valido/internal/server/config"
)

// sesClient is the subset of the SES v2 API the mailer uses.
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer delivers verification emails through Amazon SES.
type SESMailer struct {
	client sesClient
	from   string
	brand  string
}

// NewSESMailer builds the SES client from the server config. Static
// credentials from the config take precedence; when absent the SDK's
// default chain applies. An endpoint override points the client at a local
// SES-compatible stack.
func NewSESMailer(ctx context.Context, config *sc.Config) (*SESMailer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.SESRegion),
	}
	if config.SESAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.SESAccessKeyID, config.SESSecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := sesv2.NewFromConfig(cfg, func(o *sesv2.Options) {
		if config.SESEndpoint != "" {
			o.BaseEndpoint = aws.String(config.SESEndpoint)
		}
	})

	return &SESMailer{client: client, from: config.EmailFrom, brand: config.Brand}, nil
}

func (m *SESMailer) SendVerificationEmail(ctx context.Context, to, code string, expiresIn time.Duration) error {
	subject, body, err := renderVerificationEmail(m.brand, code, expiresIn)
	if err != nil {
		return err
	}

	_, err = m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	return err
}
