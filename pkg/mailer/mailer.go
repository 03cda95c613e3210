package mailer

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/yelrambob/supply-QR/pkg/logger"
)

var (
	// ErrNotConfigured is returned when any required transport field is
	// missing. Callers treat it as a skip, not a failure.
	ErrNotConfigured = errors.New("smtp transport is not configured")

	// ErrNoRecipients is returned when the resolved recipient set is empty
	// after filtering.
	ErrNoRecipients = errors.New("no recipients found")
)

// Mailer assembles notification payloads into mail messages and hands them
// to the SMTP transport. Delivery, authentication and retry are the
// transport's problem; this type only resolves recipients and sends once.
type Mailer struct {
	config Config
	logger *logger.Logger
}

func New(config Config, log *logger.Logger) *Mailer {
	return &Mailer{
		config: config,
		logger: log.WithComponent("mailer"),
	}
}

// Configured reports whether the transport can be used at all.
func (m *Mailer) Configured() bool {
	return m.config.Configured()
}

// Recipients resolves the final recipient set: the union of the explicit
// list and the configured defaults, deduplicated case-sensitively, with
// anything lacking an @ dropped, sorted.
func (m *Mailer) Recipients(explicit []string) []string {
	seen := make(map[string]struct{})
	for _, addr := range explicit {
		if addr != "" && strings.Contains(addr, "@") {
			seen[addr] = struct{}{}
		}
	}
	for _, addr := range m.config.DefaultTo {
		if addr != "" && strings.Contains(addr, "@") {
			seen[addr] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for addr := range seen {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

// Send delivers one message to the union of the explicit recipients and the
// configured defaults.
func (m *Mailer) Send(subject, body string, to []string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	recipients := m.Recipients(to)
	if len(recipients) == 0 {
		m.logger.Warn("No recipients resolved for notification", "subject", subject)
		return ErrNoRecipients
	}

	if m.config.SubjectPrefix != "" {
		subject = m.config.SubjectPrefix + subject
	}

	msg := m.buildMessage(subject, body, recipients)
	addr := net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))

	m.logger.Info("Sending notification email",
		"subject", subject,
		"recipients", len(recipients),
		"host", m.config.Host,
		"use_ssl", m.config.UseSSL)

	var err error
	if m.config.UseSSL {
		err = m.sendTLS(addr, recipients, msg)
	} else {
		err = m.sendStartTLS(addr, recipients, msg)
	}
	if err != nil {
		m.logger.Error("Failed to send notification email", "error", err, "subject", subject)
		return fmt.Errorf("failed to send email: %v", err)
	}

	m.logger.Info("Notification email sent", "subject", subject, "recipients", len(recipients))
	return nil
}

func (m *Mailer) buildMessage(subject, body string, recipients []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// sendTLS connects over an implicit TLS socket (typically port 465).
func (m *Mailer) sendTLS(addr string, recipients []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.config.Host})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	return m.transmit(client, recipients, msg)
}

// sendStartTLS connects in plaintext and upgrades with STARTTLS
// (typically port 587).
func (m *Mailer) sendStartTLS(addr string, recipients []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
		return err
	}

	return m.transmit(client, recipients, msg)
}

func (m *Mailer) transmit(client *smtp.Client, recipients []string, msg []byte) error {
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(m.config.From); err != nil {
		return err
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
