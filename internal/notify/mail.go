package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier delivers notifications directly over SMTP. Used when no AMQP
// broker is configured.
type SMTPNotifier struct {
	addr string // host:port
	from string
	auth smtp.Auth
}

// NewSMTPNotifier creates a new SMTPNotifier. user and pass may be empty for
// unauthenticated relays.
func NewSMTPNotifier(addr, from, user, pass string) *SMTPNotifier {
	var auth smtp.Auth
	if user != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPNotifier{addr: addr, from: from, auth: auth}
}

func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(n.addr, n.auth, n.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
