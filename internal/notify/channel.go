package notify

import (
	"context"
	"log/slog"
	"net/smtp"
	"strings"
)

// Message is an ephemeral outbound notification: construct, send, discard.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Channel delivers one message to one recipient. Implementations must be
// safe for concurrent use; the dispatcher fans out across recipients.
type Channel interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPEmailChannel delivers messages over a plain SMTP relay.
type SMTPEmailChannel struct {
	Addr string // host:port of the relay
	From string
}

// NewSMTPEmailChannel constructs an SMTP-backed email channel.
func NewSMTPEmailChannel(addr, from string) *SMTPEmailChannel {
	return &SMTPEmailChannel{Addr: addr, From: from}
}

func (c *SMTPEmailChannel) Send(_ context.Context, msg Message) error {
	var b strings.Builder
	b.WriteString("From: " + c.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return smtp.SendMail(c.Addr, nil, c.From, []string{msg.To}, []byte(b.String()))
}

// LogEmailChannel records emails instead of sending them. Used when no
// SMTP relay is configured (local development).
type LogEmailChannel struct {
	Logger *slog.Logger
}

func (c *LogEmailChannel) Send(ctx context.Context, msg Message) error {
	c.Logger.InfoContext(ctx, "email notification",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}

// LogSMSChannel stands in for an SMS provider integration: it records the
// message instead of sending it. The provider wire format lives outside
// this service.
type LogSMSChannel struct {
	Logger *slog.Logger
}

func (c *LogSMSChannel) Send(ctx context.Context, msg Message) error {
	c.Logger.InfoContext(ctx, "sms notification",
		"to", msg.To,
		"body", msg.Body,
	)
	return nil
}
