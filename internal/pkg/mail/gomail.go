package mail

import (
	"context"
	"crypto/tls"

	"gopkg.in/gomail.v2"
)

// Gomail is a Mail implementation backed by gopkg.in/gomail.v2.
//
// Unlike SMTP it supports implicit TLS (port 465) and skips STARTTLS
// negotiation quirks of some providers.
type Gomail struct {
	dialer      *gomail.Dialer
	defaultFrom string
}

// NewGomail constructs a gomail sender from the same settings as SMTP.
func NewGomail(cfg SMTPConfig) (*Gomail, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	return &Gomail{dialer: d, defaultFrom: cfg.From}, nil
}

// Send delivers msg over a fresh connection.
func (g *Gomail) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, _, err := envelope(msg, g.defaultFrom)
	if err != nil {
		return err
	}

	return g.dialer.DialAndSend(compose(from, msg))
}

// Close implements io.Closer.
func (g *Gomail) Close() error {
	return nil
}

func compose(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	if len(msg.To) > 0 {
		m.SetHeader("To", msg.To...)
	}
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	return m
}
