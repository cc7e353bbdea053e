// internal/mailer/ses.go
package mailer

import (
	"context"
	"fmt"

	"apptrack-backend/internal/common/config"
	"apptrack-backend/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client the mailer needs.
type SESAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SESMailer sends HTML email through AWS SES. Send never returns an
// error; callers get a boolean so one failed recipient cannot propagate.
type SESMailer struct {
	client    SESAPI
	fromEmail string
	fromName  string
	enabled   bool
	log       logger.Logger
}

func NewSESMailer(client SESAPI, cfg config.IntegrationConfig, log logger.Logger) *SESMailer {
	return &SESMailer{
		client:    client,
		fromEmail: cfg.AWS.SES.FromEmail,
		fromName:  cfg.AWS.SES.FromName,
		enabled:   cfg.AWS.SES.Enabled,
		log:       log,
	}
}

// Send dispatches one email and reports success. When SES is disabled
// (local development) the message is logged and counted as sent.
func (m *SESMailer) Send(ctx context.Context, recipients []string, subject, htmlBody string) bool {
	if len(recipients) == 0 {
		m.log.Warn("email send skipped, no recipients", map[string]interface{}{
			"subject": subject,
		})
		return false
	}

	if !m.enabled {
		m.log.Info("email sending disabled, logging instead", map[string]interface{}{
			"recipients": recipients,
			"subject":    subject,
		})
		return true
	}

	source := m.fromEmail
	if m.fromName != "" {
		source = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: recipients,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	output, err := m.client.SendEmail(ctx, input)
	if err != nil {
		m.log.Error("ses send failed", map[string]interface{}{
			"recipients": recipients,
			"subject":    subject,
			"error":      err.Error(),
		})
		return false
	}

	fields := map[string]interface{}{
		"recipients": recipients,
		"subject":    subject,
	}
	if output.MessageId != nil {
		fields["messageId"] = *output.MessageId
	}
	m.log.Info("email sent", fields)
	return true
}
