package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender delivers transactional mail.
type Sender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// SMTPSender delivers mail over SMTP with PLAIN auth.
type SMTPSender struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

// NewSMTPSender creates an SMTP mail sender. host is the bare hostname used
// for authentication; addr is host:port.
func NewSMTPSender(addr, host, username, password, from string) *SMTPSender {
	return &SMTPSender{
		addr:     addr,
		host:     host,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPSender) Send(_ context.Context, to, subject, textBody, htmlBody string) error {
	msg := buildMessage(s.from, to, subject, textBody, htmlBody)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(s.addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative message with text and HTML
// parts.
func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	const boundary = "clinicore-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// LogSender logs mail instead of delivering it. Used in development when no
// SMTP server is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, textBody, _ string) error {
	s.logger.InfoContext(ctx, "mail suppressed (smtp disabled)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", textBody),
	)
	return nil
}
