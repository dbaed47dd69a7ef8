package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// envPrefix namespaces every environment variable read by WithEnv.
const envPrefix = "ATCMD_"

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the status server listens on; empty
	// disables it (e.g. "127.0.0.1:8080")
	BindAddress string `env:"BIND_ADDRESS"`
	// SerialPort is the path to the serial port (e.g. "/dev/ttyUSB0")
	SerialPort string `env:"SERIAL_PORT"`
	// BaudRate is the baud rate for serial communication (e.g. 115200)
	BaudRate int `env:"BAUD_RATE"`
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string `env:"LOG_LEVEL"`
	// BufferSize is the maximum request line length in bytes
	BufferSize int `env:"BUFFER_SIZE"`
	// Terminator ends a request line, with Go escapes (e.g. `\r\n`)
	Terminator string `env:"TERMINATOR"`
	// CaseSensitive requires exact case for the AT prefix and command names
	CaseSensitive bool `env:"CASE_SENSITIVE"`
	// PollInterval is how often the transport is polled for input
	PollInterval time.Duration `env:"POLL_INTERVAL"`
	// Timeout bounds how long send waits for a final response
	Timeout time.Duration `env:"TIMEOUT"`
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = ""
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.BufferSize = 128
		c.Terminator = `\r\n`
		c.PollInterval = 10 * time.Millisecond
		c.Timeout = 5 * time.Second
		return nil
	}
}

// WithDotEnv loads variables from a .env file into the process
// environment, without overriding variables that are already set. A missing
// file is not an error.
func WithDotEnv(path string) ConfigOption {
	return func(c *Config) error {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
		return nil
	}
}

// WithEnv loads configuration from ATCMD_* environment variables. Unset
// variables keep their current value.
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if err := env.ParseWithOptions(c, env.Options{Prefix: envPrefix}); err != nil {
			return fmt.Errorf("parse environment: %w", err)
		}
		return nil
	}
}

// WithFlags loads configuration from the command-line flags that were set
func WithFlags(fSet *pflag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *pflag.Flag) {
			value := f.Value.String()
			switch f.Name {
			case "bind-address":
				c.BindAddress = value
			case "serial-port":
				c.SerialPort = value
			case "baud-rate":
				if b, perr := strconv.Atoi(value); perr == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = value
			case "buffer-size":
				if n, perr := strconv.Atoi(value); perr == nil {
					c.BufferSize = n
				}
			case "terminator":
				c.Terminator = value
			case "case-sensitive":
				c.CaseSensitive = value == "true"
			case "poll-interval":
				if d, perr := time.ParseDuration(value); perr == nil {
					c.PollInterval = d
				} else {
					err = fmt.Errorf("poll-interval: %w", perr)
				}
			case "timeout":
				if d, perr := time.ParseDuration(value); perr == nil {
					c.Timeout = d
				} else {
					err = fmt.Errorf("timeout: %w", perr)
				}
			}
		})
		return err
	}
}

// TerminatorBytes decodes the escaped Terminator.
func (c *Config) TerminatorBytes() (string, error) {
	term, err := strconv.Unquote(`"` + c.Terminator + `"`)
	if err != nil {
		return "", fmt.Errorf("invalid terminator %q: %w", c.Terminator, err)
	}
	if term == "" {
		return "", fmt.Errorf("invalid terminator %q: empty", c.Terminator)
	}
	return term, nil
}
