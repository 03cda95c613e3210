package mailer

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yelrambob/supply-QR/pkg/envconfig"
)

// DefaultPort is used when the configured SMTP port is absent or unparseable.
const DefaultPort = 587

// Config holds the SMTP transport configuration. The transport counts as
// configured only when host, port, username, password and from are all
// present; otherwise sending is skipped with a warning and submissions
// still succeed.
type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	SubjectPrefix string
	DefaultTo     []string
	UseSSL        bool
}

// fileConfig mirrors the YAML layout: a single top-level smtp block.
type fileConfig struct {
	SMTP rawSMTP `yaml:"smtp"`
}

type rawSMTP struct {
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	From          string `yaml:"from"`
	SubjectPrefix string `yaml:"subject_prefix"`
	To            string `yaml:"to"`
	UseSSL        bool   `yaml:"use_ssl"`
}

// LoadConfig reads the mailer YAML file, falling back to SMTP_* environment
// variables for any field the file leaves empty. A missing file is not an
// error; the transport simply ends up not configured unless the environment
// fills it in.
func LoadConfig(path string) (Config, error) {
	var raw rawSMTP

	data, err := os.ReadFile(path)
	if err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse mailer config %s: %v", path, err)
		}
		raw = file.SMTP
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read mailer config %s: %v", path, err)
	}

	if raw.Host == "" {
		raw.Host = envconfig.GetEnv("SMTP_HOST", "")
	}
	if raw.Port == "" {
		raw.Port = envconfig.GetEnv("SMTP_PORT", "")
	}
	if raw.User == "" {
		raw.User = envconfig.GetEnv("SMTP_USER", "")
	}
	if raw.Password == "" {
		raw.Password = envconfig.GetEnv("SMTP_PASSWORD", "")
	}
	if raw.From == "" {
		raw.From = envconfig.GetEnv("SMTP_FROM", "")
	}
	if raw.SubjectPrefix == "" {
		raw.SubjectPrefix = envconfig.GetEnv("SMTP_SUBJECT_PREFIX", "")
	}
	if raw.To == "" {
		raw.To = envconfig.GetEnv("SMTP_TO", "")
	}
	if !raw.UseSSL {
		raw.UseSSL = envconfig.GetEnvBool("SMTP_USE_SSL", false)
	}

	return raw.normalize(), nil
}

// normalize coerces the loose file values into a typed Config. The port
// defaults to 587 and spaces are stripped from the password, which tend to
// sneak in when app passwords are pasted.
func (r rawSMTP) normalize() Config {
	port := DefaultPort
	if r.Port != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(r.Port)); err == nil {
			port = parsed
		}
	}

	return Config{
		Host:          strings.TrimSpace(r.Host),
		Port:          port,
		Username:      strings.TrimSpace(r.User),
		Password:      strings.ReplaceAll(r.Password, " ", ""),
		From:          strings.TrimSpace(r.From),
		SubjectPrefix: r.SubjectPrefix,
		DefaultTo:     SplitAddresses(r.To),
		UseSSL:        r.UseSSL,
	}
}

// Configured reports whether all required transport fields are present.
func (c Config) Configured() bool {
	return c.Host != "" && c.Port > 0 && c.Username != "" && c.Password != "" && c.From != ""
}

var addressSeparator = regexp.MustCompile(`[;,]\s*`)

// SplitAddresses splits a semicolon or comma separated address list,
// trimming whitespace and dropping empty parts.
func SplitAddresses(txt string) []string {
	if txt == "" {
		return nil
	}

	var out []string
	for _, part := range addressSeparator.Split(txt, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
