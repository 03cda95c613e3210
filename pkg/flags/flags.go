package flags

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Config holds all command-line configuration
type Config struct {
	Port       string
	DataDir    string
	MailConfig string
	Help       bool
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		Port:       "8080",
		DataDir:    "data",
		MailConfig: "mailer.yaml",
		Help:       false,
	}
}

// Parse parses command-line flags and returns configuration
func Parse() Config {
	config := DefaultConfig()

	var (
		port       = flag.String("port", config.Port, "Port number")
		dataDir    = flag.String("data", config.DataDir, "Directory holding catalog.csv, people.txt and emails.csv")
		mailConfig = flag.String("mail-config", config.MailConfig, "Path to the mailer YAML config")
		help       = flag.Bool("help", false, "Show this screen")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Supply Ordering & Inventory Tracker\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  supplyroom [--port <N>] [--data <dir>] [--mail-config <file>]\n")
		fmt.Fprintf(os.Stderr, "  supplyroom --help\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fmt.Fprintf(os.Stderr, "  --help              Show this screen.\n")
		fmt.Fprintf(os.Stderr, "  --port N            Port number (1-65535).\n")
		fmt.Fprintf(os.Stderr, "  --data DIR          Data directory for the CSV catalog and rosters.\n")
		fmt.Fprintf(os.Stderr, "  --mail-config FILE  Mailer YAML configuration file.\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if err := validatePort(*port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return Config{
		Port:       *port,
		DataDir:    *dataDir,
		MailConfig: *mailConfig,
		Help:       *help,
	}
}

// validatePort validates the port number
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port number '%s': must be a number", port)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("port number %d is out of range: must be between 1 and 65535", portNum)
	}

	if portNum < 1024 {
		fmt.Fprintf(os.Stderr, "Warning: Port %d is a privileged port (1-1023). You may need administrator privileges.\n", portNum)
	}

	return nil
}

// Validate validates the parsed configuration
func (c Config) Validate() error {
	if err := validatePort(c.Port); err != nil {
		return err
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	return nil
}
