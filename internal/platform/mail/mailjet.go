package mail

import (
	"context"
	"fmt"
	"log/slog"

	"tracker/contexts/audience-insights/tracking-service/ports"

	mailjet "github.com/mailjet/mailjet-apiv3-go/v4"
)

// Mailjet pushes notification mails through the Mailjet v3.1 send API.
// Stateless per call; the client is safe for concurrent use.
type Mailjet struct {
	client *mailjet.Client
	logger *slog.Logger
}

func NewMailjet(apiKey, apiSecret string, logger *slog.Logger) *Mailjet {
	return &Mailjet{
		client: mailjet.NewMailjetClient(apiKey, apiSecret),
		logger: logger,
	}
}

func (m *Mailjet) Send(_ context.Context, message ports.MailMessage) error {
	payload := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: message.FromEmail,
					Name:  message.FromName,
				},
				To: &mailjet.RecipientsV31{
					{
						Email: message.ToEmail,
						Name:  message.ToName,
					},
				},
				Subject:  message.Subject,
				TextPart: message.TextBody,
			},
		},
	}

	results, err := m.client.SendMailV31(&payload)
	if err != nil {
		return fmt.Errorf("mailjet send: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("mail accepted by mailjet",
			"event", "mailjet_sent",
			"module", "internal/platform/mail",
			"layer", "platform",
			"subject", message.Subject,
			"message_count", len(results.ResultsV31),
		)
	}
	return nil
}
