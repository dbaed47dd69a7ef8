package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	historyFileName = ".atcmd_history"
	historySize     = 500
)

// LineEditor reads console input, with history and editing when stdin is
// a terminal and plain line scanning otherwise (pipes, redirects).
type LineEditor struct {
	interactive bool
	rl          *readline.Instance
	scanner     *bufio.Scanner
	out         io.Writer
}

// NewLineEditor picks the interactive or the plain editor for stdin.
func NewLineEditor() *LineEditor {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return newScannerEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
		out:         os.Stdout,
	}
}

func newScannerEditor(r io.Reader, w io.Writer) *LineEditor {
	return &LineEditor{
		scanner: bufio.NewScanner(r),
		out:     w,
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

// GetLine shows prompt and returns the next line, or io.EOF at the end of
// input (Ctrl-D, Ctrl-C, closed pipe).
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		le.rl.SetPrompt(prompt)
		line, err := le.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				return "", io.EOF
			}
			return "", err
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			le.rl.SaveToHistory(trimmed)
		}
		return line, nil
	}

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Output is where console responses should be written.
func (le *LineEditor) Output() io.Writer {
	return le.out
}

// Close releases the terminal.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}
