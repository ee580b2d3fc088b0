// Package notify emails analysis reports.
package notify

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/config"
	"github.com/iwvelando/finance-ratios/pkg/output"
	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

// ErrNoRecipients is returned when the configuration lists nobody to mail.
var ErrNoRecipients = errors.New("no email recipients configured")

// SendFunc delivers a message to an SMTP server.
type SendFunc func(e *email.Email, addr string, auth smtp.Auth) error

func smtpSend(e *email.Email, addr string, auth smtp.Auth) error {
	return e.Send(addr, auth)
}

// Mailer sends the Markdown report as the text part and its HTML
// rendering as the HTML part, with written output files attached.
type Mailer struct {
	cfg    config.EmailConfig
	logger *zap.Logger
	send   SendFunc
}

// NewMailer creates a mailer for the SMTP settings in cfg.
func NewMailer(logger *zap.Logger, cfg config.EmailConfig) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger, send: smtpSend}
}

// WithSendFunc replaces SMTP delivery, e.g. to capture messages.
func (m *Mailer) WithSendFunc(send SendFunc) *Mailer {
	m.send = send
	return m
}

// Message builds the email for a report without sending it.
func (m *Mailer) Message(report analysis.Report, opts output.Options, attachments []string) (*email.Email, error) {
	if len(m.cfg.To) == 0 {
		return nil, ErrNoRecipients
	}

	page, err := output.HTML(report, opts)
	if err != nil {
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = output.DefaultOptions().Title
	}

	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = append([]string(nil), m.cfg.To...)
	e.Subject = fmt.Sprintf("%s: %d companies (%s)", title, len(report.Companies), report.GeneratedAt.Format("2006-01-02"))
	e.Text = output.Markdown(report, opts)
	e.HTML = page

	for _, path := range attachments {
		if _, err := e.AttachFile(path); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", path, err)
		}
	}
	return e, nil
}

// Send emails the report to every configured recipient.
func (m *Mailer) Send(report analysis.Report, opts output.Options, attachments []string) error {
	e, err := m.Message(report, opts, attachments)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password(), m.cfg.SMTPHost)
	}

	if err := m.send(e, m.cfg.Address(), auth); err != nil {
		m.logger.Error("failed to send report email",
			zap.String("op", "notify.Send"),
			zap.Strings("to", e.To),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("report email sent",
		zap.String("op", "notify.Send"),
		zap.Strings("to", e.To),
		zap.String("subject", e.Subject),
		zap.Int("attachments", len(e.Attachments)),
	)
	return nil
}
