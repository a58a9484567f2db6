// Package mail delivers transactional email (confirmation links, invitations).
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"tender_backend/internal/platform/config"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds SMTP settings. An empty Host selects the log-only sender.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// LoadConfigFromEnv reads SMTP_* and MAIL_FROM variables.
func LoadConfigFromEnv() Config {
	return Config{
		Host:     config.String("SMTP_HOST", ""),
		Port:     config.String("SMTP_PORT", "587"),
		Username: config.String("SMTP_USERNAME", ""),
		Password: config.String("SMTP_PASSWORD", ""),
		From:     config.String("MAIL_FROM", "no-reply@tenders.local"),
		FromName: config.String("MAIL_FROM_NAME", "Tender Portal"),
	}
}

// New returns an SMTP sender, or a LogSender when no host is configured.
func New(cfg Config, log *slog.Logger) Sender {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST not set, emails will only be logged")
		return NewLogSender(log)
	}
	return NewSMTPSender(cfg)
}

// SMTPSender sends through an SMTP relay. Port 465 uses implicit TLS; other ports use
// STARTTLS when the server offers it. Sends give up after the timeout.
type SMTPSender struct {
	cfg     Config
	timeout time.Duration
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg, timeout: 15 * time.Second}
}

// Send delivers msg. The whole exchange is bounded by ctx and by the sender timeout,
// whichever ends first.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("mail: dial: %w", err)
	}
	deadline, _ := ctx.Deadline()
	_ = conn.SetDeadline(deadline)
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fmt.Errorf("mail: smtp client: %w", err)
	}
	defer client.Close()

	if err := s.deliver(client, msg.To, buildRaw(s.cfg, msg, time.Now())); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("mail: send to %s: %w", msg.To, ctxErr)
		}
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	return nil
}

// dial opens the connection. Port 465 is wrapped in TLS straight away.
func (s *SMTPSender) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if s.cfg.Port == "465" {
		d := &tls.Dialer{NetDialer: &net.Dialer{Timeout: s.timeout}, Config: &tls.Config{ServerName: s.cfg.Host}}
		return d.DialContext(ctx, "tcp", addr)
	}
	d := &net.Dialer{Timeout: s.timeout}
	return d.DialContext(ctx, "tcp", addr)
}

func (s *SMTPSender) deliver(client *smtp.Client, to string, raw []byte) error {
	if s.cfg.Port != "465" {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildRaw(cfg Config, msg Message, now time.Time) []byte {
	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// LogSender writes messages to the log instead of delivering them. Used in development.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.InfoContext(ctx, "email not delivered (log sender)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
