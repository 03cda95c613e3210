package mailer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mailer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_FullFile(t *testing.T) {
	path := writeConfigFile(t, `
smtp:
  host: smtp.example.com
  port: "465"
  user: orders@example.com
  password: "abcd efgh ijkl mnop"
  from: orders@example.com
  subject_prefix: "[supply] "
  to: "a@x.com; b@x.com, c@x.com"
  use_ssl: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", cfg.Host)
	assert.Equal(t, 465, cfg.Port)
	assert.Equal(t, "orders@example.com", cfg.Username)
	assert.Equal(t, "abcdefghijklmnop", cfg.Password, "spaces stripped from pasted app passwords")
	assert.Equal(t, "[supply] ", cfg.SubjectPrefix)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, cfg.DefaultTo)
	assert.True(t, cfg.UseSSL)
	assert.True(t, cfg.Configured())
}

func TestLoadConfig_MissingFileNotConfigured(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.Configured())
}

func TestLoadConfig_PortDefaults(t *testing.T) {
	path := writeConfigFile(t, `
smtp:
  host: smtp.example.com
  user: u
  password: p
  from: orders@example.com
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.True(t, cfg.Configured())
}

func TestConfigured_RequiresAllTransportFields(t *testing.T) {
	base := Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "u",
		Password: "p",
		From:     "orders@example.com",
	}
	require.True(t, base.Configured())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.Host = "" }},
		{"missing port", func(c *Config) { c.Port = 0 }},
		{"missing username", func(c *Config) { c.Username = "" }},
		{"missing password", func(c *Config) { c.Password = "" }},
		{"missing from", func(c *Config) { c.From = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.False(t, cfg.Configured())
		})
	}
}

func TestSplitAddresses(t *testing.T) {
	assert.Nil(t, SplitAddresses(""))
	assert.Equal(t, []string{"a@x.com"}, SplitAddresses("a@x.com"))
	assert.Equal(t,
		[]string{"a@x.com", "b@x.com", "c@x.com"},
		SplitAddresses("a@x.com;b@x.com, c@x.com"))
}
