package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yelrambob/supply-QR/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stderr"})
}

func TestRecipients_DedupFilterSort(t *testing.T) {
	m := New(Config{DefaultTo: []string{"b@x.com"}}, testLogger())

	got := m.Recipients([]string{"a@x.com", "a@x.com"})
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got)
}

func TestRecipients_DropsAddressesWithoutAt(t *testing.T) {
	m := New(Config{DefaultTo: []string{"front desk", ""}}, testLogger())

	got := m.Recipients([]string{"a@x.com", "not-an-address"})
	assert.Equal(t, []string{"a@x.com"}, got)
}

func TestRecipients_CaseSensitiveDedup(t *testing.T) {
	m := New(Config{}, testLogger())

	got := m.Recipients([]string{"A@x.com", "a@x.com"})
	assert.Equal(t, []string{"A@x.com", "a@x.com"}, got)
}

func TestSend_NotConfigured(t *testing.T) {
	m := New(Config{}, testLogger())

	err := m.Send("subject", "body", []string{"a@x.com"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSend_NoRecipients(t *testing.T) {
	m := New(Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "u",
		Password: "p",
		From:     "orders@example.com",
	}, testLogger())

	err := m.Send("subject", "body", []string{"front desk"})
	require.ErrorIs(t, err, ErrNoRecipients)
}

func TestBuildMessage(t *testing.T) {
	m := New(Config{From: "orders@example.com"}, testLogger())

	msg := string(m.buildMessage("Supply order", "<p>body</p>", []string{"a@x.com", "b@x.com"}))
	assert.Contains(t, msg, "From: orders@example.com\r\n")
	assert.Contains(t, msg, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, msg, "Subject: Supply order\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "\r\n\r\n<p>body</p>")
}
