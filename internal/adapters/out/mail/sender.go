// Package mail delivers HTML notifications over SMTP with a send-rate limit.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"blogjobs/internal/pkg/errs"

	"golang.org/x/time/rate"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// RatePerSec caps outgoing messages; burst equals the rate.
	RatePerSec int
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender implements ports.MailSender.
type SMTPSender struct {
	addr    string
	auth    smtp.Auth
	from    string
	limiter *rate.Limiter
	send    sendFunc
	now     func() time.Time
}

type Option func(*SMTPSender)

// WithSendFunc replaces smtp.SendMail.
func WithSendFunc(fn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) Option {
	return func(s *SMTPSender) { s.send = fn }
}

func NewSMTPSender(cfg Config, opts ...Option) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errs.NewValueIsRequiredError("smtp host")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errs.NewValueIsRequiredError("smtp from")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, errs.NewValueIsOutOfRangeError("smtp port", cfg.Port, 1, 65535)
	}
	rps := cfg.RatePerSec
	if rps < 1 {
		rps = 1
	}

	s := &SMTPSender{
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:    cfg.From,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		send:    smtp.SendMail,
		now:     time.Now,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send waits for the limiter, then delivers one message. A cancelled context
// while waiting returns the context error without sending.
func (s *SMTPSender) Send(ctx context.Context, subject, htmlBody, recipient string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return errs.NewValueIsRequiredError("recipient")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := s.compose(subject, htmlBody, recipient)
	if err := s.send(s.addr, s.auth, s.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}
	return nil
}

func (s *SMTPSender) compose(subject, htmlBody, recipient string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.Bytes()
}

// LogSender logs messages instead of sending them; used when no SMTP host is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "mail")}
}

func (s *LogSender) Send(_ context.Context, subject, htmlBody, recipient string) error {
	s.logger.Info("mail not sent, smtp disabled", "recipient", recipient, "subject", subject, "bytes", len(htmlBody))
	return nil
}
