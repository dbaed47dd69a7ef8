package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"i4.energy/across/atcmd/at"
)

// ErrCommandFailed is returned by Exchange when the device answered with a
// final result other than OK.
var ErrCommandFailed = errors.New("command failed")

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "send COMMAND",
		Short:   "Send one AT command to a device and print its response",
		Example: "  atcmd send --serial-port /dev/ttyUSB1 'AT+CFG=1,2,3'",
		Args:    cobra.ExactArgs(1),
		RunE:    runSend,
	}
	cmd.Flags().Duration("timeout", 5*time.Second, "How long to wait for the final response")
	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	config, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	terminator, err := config.TerminatorBytes()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), config.Timeout)
	defer cancel()

	port, err := serialDialer(config).Dial(ctx)
	if err != nil {
		logger.Error("Failed to open serial port", "port", config.SerialPort, "error", err)
		return err
	}
	defer port.Close()

	lines, err := Exchange(ctx, port, args[0], terminator)
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	if err != nil {
		logger.Debug("Command did not succeed", "command", args[0], "error", err)
	}
	return err
}

// Exchange writes command followed by terminator and collects the response
// lines up to and including the final result (OK, ERROR or +CME ERROR).
// Empty lines are skipped.
func Exchange(ctx context.Context, rw io.ReadWriter, command, terminator string) ([]string, error) {
	if _, err := io.WriteString(rw, command+terminator); err != nil {
		return nil, fmt.Errorf("write command %q: %w", command, err)
	}

	type result struct {
		lines []string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		scanner := bufio.NewScanner(rw)
		scanner.Split(at.Splitter)

		var lines []string
		for scanner.Scan() {
			token := scanner.Text()
			if token == "" {
				continue
			}
			lines = append(lines, token)
			if at.ClassifyResponse(token) == at.TypeFinal {
				done <- result{lines: lines}
				return
			}
		}

		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		done <- result{lines: lines, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("command timeout: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return r.lines, fmt.Errorf("read response: %w", r.err)
		}
		if final := r.lines[len(r.lines)-1]; final != at.OK {
			return r.lines, fmt.Errorf("%w: %s", ErrCommandFailed, final)
		}
		return r.lines, nil
	}
}
