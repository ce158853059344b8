package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"sheetcli/internal/config"
)

// Message is one outbound notification.
type Message struct {
	To         []string
	Subject    string
	Body       string
	Attachment string // path of a file to attach, optional
}

// Client sends a prepared SendGrid mail. Satisfied by the real SendGrid
// client; tests substitute a fake.
type Client interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends notification mail through SendGrid.
type Mailer struct {
	cfg    config.MailConfig
	client Client
	logger *slog.Logger
}

// NewMailer creates a mailer from configuration.
func NewMailer(cfg config.MailConfig, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		cfg:    cfg,
		client: sendgrid.NewSendClient(cfg.APIKey),
		logger: logger,
	}
}

// NewMailerWithClient creates a mailer with an injected client.
func NewMailerWithClient(cfg config.MailConfig, client Client, logger *slog.Logger) *Mailer {
	m := NewMailer(cfg, logger)
	m.client = client
	return m
}

// Send delivers the message to every configured recipient, attaching
// the named file when set. Recipients on the message override the
// configured default list.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	to := msg.To
	if len(to) == 0 {
		to = m.cfg.To
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	email := mail.NewV3Mail()
	email.SetFrom(mail.NewEmail(m.cfg.FromName, m.cfg.From))
	email.Subject = msg.Subject
	email.AddContent(mail.NewContent("text/plain", msg.Body))

	personalization := mail.NewPersonalization()
	for _, recipient := range to {
		personalization.AddTos(mail.NewEmail("", recipient))
	}
	email.AddPersonalizations(personalization)

	if msg.Attachment != "" {
		attachment, err := buildAttachment(msg.Attachment)
		if err != nil {
			return err
		}
		email.AddAttachment(attachment)
	}

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail rejected with status %d: %s", resp.StatusCode, resp.Body)
	}

	m.logger.Info("notification sent",
		slog.Int("recipient_count", len(to)),
		slog.String("subject", msg.Subject),
		slog.String("attachment", msg.Attachment))

	return nil
}

// buildAttachment reads and encodes a file for the mail body.
func buildAttachment(path string) (*mail.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	attachment := mail.NewAttachment()
	attachment.SetContent(base64.StdEncoding.EncodeToString(data))
	attachment.SetType(contentType(path))
	attachment.SetFilename(filepath.Base(path))
	attachment.SetDisposition("attachment")
	return attachment, nil
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
