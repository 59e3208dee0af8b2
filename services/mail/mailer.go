package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/sahilchouksey/studynotion-api/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrMailerNotConfigured is returned when no transport credentials are set
var ErrMailerNotConfigured = errors.New("mailer not configured")

const senderName = "StudyNotion"

// Mailer delivers a single HTML email
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewMailer picks a transport from configuration. SendGrid is used when
// selected and keyed, SMTP when credentials are present, otherwise a mailer
// that only logs.
func NewMailer(cfg *config.EnviornmentVariable) Mailer {
	switch {
	case strings.EqualFold(cfg.MAIL_PROVIDER, "sendgrid") && cfg.SENDGRID_API_KEY != "":
		log.Println("[MAIL] Using SendGrid transport")
		return NewSendGridMailer(cfg.SENDGRID_API_KEY, cfg.SMTP_FROM, "")
	case cfg.SMTP_USERNAME != "" && cfg.SMTP_PASSWORD != "":
		log.Printf("[MAIL] Using SMTP transport via %s:%d", cfg.SMTP_HOST, cfg.SMTP_PORT)
		return NewSMTPMailer(cfg.SMTP_HOST, cfg.SMTP_PORT, cfg.SMTP_USERNAME, cfg.SMTP_PASSWORD, cfg.SMTP_FROM)
	default:
		log.Println("[MAIL] ⚠️  No mail transport configured, emails will not be delivered")
		return NoopMailer{}
	}
}

// SMTPMailer sends email over SMTP with STARTTLS
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers the message. The dial honours ctx; the rest of the exchange
// is bounded by a connection deadline.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	headers := []string{
		fmt.Sprintf("From: %s <%s>", senderName, m.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"X-Mailer: StudyNotion Mailer",
	}

	var message strings.Builder
	for _, h := range headers {
		message.WriteString(h)
		message.WriteString("\r\n")
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	rawConn.SetDeadline(time.Now().Add(30 * time.Second))

	conn, err := smtp.NewClient(rawConn, m.host)
	if err != nil {
		rawConn.Close()
		return fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer conn.Close()

	tlsConfig := &tls.Config{
		ServerName: m.host,
	}
	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(m.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err := w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("[MAIL] Email %q sent to %s via SMTP", subject, to)
	return nil
}

// SendGridMailer sends email through the SendGrid v3 API
type SendGridMailer struct {
	apiKey string
	from   string
	host   string
}

// NewSendGridMailer creates a SendGrid mailer. An empty host means the
// public API endpoint.
func NewSendGridMailer(apiKey, from, host string) *SendGridMailer {
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	return &SendGridMailer{
		apiKey: apiKey,
		from:   from,
		host:   host,
	}
}

// Send delivers the message via the mail/send endpoint
func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(senderName, m.from),
		subject,
		sgmail.NewEmail("", to),
		"",
		htmlBody,
	)

	request := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	request.Method = rest.Post
	request.Body = sgmail.GetRequestBody(message)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}

	log.Printf("[MAIL] Email %q sent to %s via SendGrid", subject, to)
	return nil
}

// NoopMailer is used when no transport is configured
type NoopMailer struct{}

// Send logs the attempt and reports ErrMailerNotConfigured
func (NoopMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	log.Printf("[MAIL] Not configured, dropping email %q to %s", subject, to)
	return ErrMailerNotConfigured
}
