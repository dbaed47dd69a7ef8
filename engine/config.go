package engine

import (
	"log/slog"

	"i4.energy/across/atcmd/at"
)

const (
	// DefaultBufferSize is the line capacity used when none is configured.
	DefaultBufferSize = 128
	// DefaultTerminator ends a request line when none is configured.
	DefaultTerminator = at.CRLF
)

func (c *Config) validate() error {
	if c.transport == nil {
		return ErrNoTransport
	}
	if c.bufferSize < 0 {
		return ErrInvalidBufferSize
	}
	return nil
}

// Config holds the settings of an Engine. It is fixed once the Engine is
// created; use NewConfigBuilder to assemble one.
type Config struct {
	transport     Transport
	commands      []Command
	bufferSize    int
	terminator    string
	caseSensitive bool
	errorHandler  ErrorHandler
	logger        *slog.Logger
}

func (c *Config) setDefaults() {
	if c.bufferSize == 0 {
		c.bufferSize = DefaultBufferSize
	}
	if c.terminator == "" {
		c.terminator = DefaultTerminator
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
}

// ConfigBuilder assembles a Config step by step.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns a builder with every setting at its default.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithTransport sets the byte stream commands are read from and
// acknowledgments are written to.
func (b *ConfigBuilder) WithTransport(t Transport) *ConfigBuilder {
	b.config.transport = t
	return b
}

// WithCommands registers the command table. The engine keeps a reference
// to commands and never modifies it; its length is the number of entries.
func (b *ConfigBuilder) WithCommands(commands []Command) *ConfigBuilder {
	b.config.commands = commands
	return b
}

// WithBufferSize sets the maximum line length in bytes, terminator
// excluded.
func (b *ConfigBuilder) WithBufferSize(size int) *ConfigBuilder {
	b.config.bufferSize = size
	return b
}

// WithTerminator sets the byte sequence that ends a request line.
func (b *ConfigBuilder) WithTerminator(terminator string) *ConfigBuilder {
	b.config.terminator = terminator
	return b
}

// WithCaseSensitive makes the AT prefix and command names match exactly.
func (b *ConfigBuilder) WithCaseSensitive(caseSensitive bool) *ConfigBuilder {
	b.config.caseSensitive = caseSensitive
	return b
}

// WithErrorHandler sets a callback invoked once per line naming an unknown
// command. When set, it replaces the ERROR acknowledgment for that line.
func (b *ConfigBuilder) WithErrorHandler(h ErrorHandler) *ConfigBuilder {
	b.config.errorHandler = h
	return b
}

// WithLogger sets the logger; the default discards everything.
func (b *ConfigBuilder) WithLogger(logger *slog.Logger) *ConfigBuilder {
	b.config.logger = logger
	return b
}

// Build applies defaults and validates the configuration.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	c.setDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
