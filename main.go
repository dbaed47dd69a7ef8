package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"i4.energy/across/atcmd/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "atcmd",
		Short:        "AT command processor",
		Long:         "atcmd serves an AT command table on a serial port, from an interactive console, or sends single commands to a device.",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("serial-port", "/dev/ttyUSB0", "Serial port to serve or send on")
	flags.Int("baud-rate", 115200, "Baud rate for serial communication")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Int("buffer-size", 128, "Maximum request line length in bytes")
	flags.String("terminator", `\r\n`, "Request line terminator, with Go escapes")
	flags.Bool("case-sensitive", false, "Require exact case for the AT prefix and command names")

	rootCmd.AddCommand(newServeCmd(), newConsoleCmd(), newSendCmd())
	return rootCmd
}

// loadConfig resolves the configuration for cmd and builds its logger.
func loadConfig(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	config, err := LoadConfig(WithDefaults(), WithDotEnv(".env"), WithEnv(), WithFlags(cmd.Flags()))
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	return config, logger, nil
}

// newEngine builds an engine serving device on transport.
func newEngine(config *Config, logger *slog.Logger, transport engine.Transport, device *Device) (*engine.Engine, error) {
	terminator, err := config.TerminatorBytes()
	if err != nil {
		return nil, err
	}

	engineConfig, err := engine.NewConfigBuilder().
		WithTransport(transport).
		WithCommands(device.Commands()).
		WithBufferSize(config.BufferSize).
		WithTerminator(terminator).
		WithCaseSensitive(config.CaseSensitive).
		WithErrorHandler(device.UnknownCommand).
		WithLogger(logger.With("component", "engine")).
		Build()
	if err != nil {
		return nil, fmt.Errorf("create engine config: %w", err)
	}

	return engine.New(engineConfig)
}

func serialDialer(config *Config) engine.SerialDialer {
	return engine.SerialDialer{
		PortName: config.SerialPort,
		Mode: &serial.Mode{
			BaudRate: config.BaudRate,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the emulated device on a serial port",
		RunE:  runServe,
	}
	cmd.Flags().String("bind-address", "", "Bind address for the HTTP status server (empty disables it)")
	cmd.Flags().Duration("poll-interval", 10*time.Millisecond, "How often the serial port is polled")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	config, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port, err := serialDialer(config).Dial(ctx)
	if err != nil {
		logger.Error("Failed to open serial port", "port", config.SerialPort, "error", err)
		return err
	}

	transport := engine.NewStreamTransport(port)
	e, err := newEngine(config, logger, transport, NewDevice(logger.With("component", "device")))
	if err != nil {
		port.Close()
		logger.Error("Failed to create engine", "error", err)
		return err
	}

	logger.Info("Serving AT commands", "port", config.SerialPort, "baud_rate", config.BaudRate)

	var httpServer *http.Server
	if config.BindAddress != "" {
		httpServer = &http.Server{
			Addr: config.BindAddress,
			Handler: &Server{
				Logger: logger.With("component", "server"),
				Engine: e,
			},
		}

		go func() {
			logger.Info("Starting HTTP server", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server failed", "error", err)
				stop()
			}
		}()
	}

	// Stop when the port goes away
	go func() {
		select {
		case <-transport.Done():
			logger.Error("Serial port closed", "error", transport.Err())
			stop()
		case <-ctx.Done():
		}
	}()

	err = e.Run(ctx, config.PollInterval)
	logger.Info("Engine stopped", "reason", err)

	logger.Info("Closing serial port")
	if err := port.Close(); err != nil {
		logger.Error("Failed to close serial port", "error", err)
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Closing HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to gracefully shutdown server", "error", err)
			return err
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
