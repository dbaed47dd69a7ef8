package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"i4.energy/across/atcmd/engine"
)

const consolePrompt = "> "

type lineSource interface {
	GetLine(prompt string) (string, error)
}

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Type AT commands against the emulated device",
		RunE:  runConsole,
	}
}

func runConsole(cmd *cobra.Command, _ []string) error {
	config, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	terminator, err := config.TerminatorBytes()
	if err != nil {
		return err
	}

	editor := NewLineEditor()
	defer editor.Close()

	transport := engine.NewBufferTransport()
	e, err := newEngine(config, logger, transport, NewDevice(logger.With("component", "device")))
	if err != nil {
		return err
	}

	return Console(editor, editor.Output(), e, transport, terminator, logger)
}

// Console feeds every input line, followed by terminator, to the engine and
// prints what the engine answered. It returns at end of input or on "exit".
func Console(in lineSource, out io.Writer, e *engine.Engine, transport *engine.BufferTransport, terminator string, logger *slog.Logger) error {
	for {
		line, err := in.GetLine(consolePrompt)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "exit" {
			return nil
		}

		transport.Feed(line + terminator)
		// Update stops at a failed line, so keep going until the input is
		// consumed.
		for transport.Available() > 0 {
			if err := e.Update(); err != nil {
				logger.Debug("Command failed", "error", err)
			}
		}

		for _, resp := range transport.Drain() {
			fmt.Fprintln(out, resp)
		}
	}
}
