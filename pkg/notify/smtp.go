package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPConfig configures delivery through an SMTP relay
type SMTPConfig struct {
	// Server is the relay address as host:port
	Server   string
	From     string
	Username string
	Password string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPTransport mails each message to the recipient's email address
type SMTPTransport struct {
	config   SMTPConfig
	auth     smtp.Auth
	sendMail sendMailFunc
}

// NewSMTPTransport creates a transport for config. PLAIN authentication is
// used when a username is configured.
func NewSMTPTransport(config SMTPConfig) (*SMTPTransport, error) {
	host, _, err := net.SplitHostPort(config.Server)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP server %q: %w", config.Server, err)
	}
	if config.From == "" {
		return nil, fmt.Errorf("a sender address is required for SMTP delivery")
	}
	var auth smtp.Auth
	if config.Username != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, host)
	}
	return &SMTPTransport{config: config, auth: auth, sendMail: smtp.SendMail}, nil
}

func (s *SMTPTransport) Name() string {
	return "smtp"
}

func (s *SMTPTransport) Deliver(_ context.Context, msg Message) error {
	to := msg.Recipient.Email
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid recipient address %q", to)
	}
	return s.sendMail(s.config.Server, s.auth, s.config.From, []string{to}, buildMail(s.config.From, to, msg))
}

func buildMail(from, to string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", strings.NewReplacer("\r", "", "\n", " ").Replace(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
