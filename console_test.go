package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single command",
			input: "AT+GMR\n",
			want:  Version + "\nOK\n",
		},
		{
			name:  "write then read",
			input: "AT+CFG=4,5,6\nAT+CFG?\n",
			want:  "OK\n+CFG: 4,5,6\nOK\n",
		},
		{
			name:  "errors",
			input: "AT+ERR\nAT+NOPE\nAT=?\n",
			want:  "ERROR\n+CME ERROR: 100\n+CME ERROR: 100\n",
		},
		{
			name:  "exit stops reading",
			input: "ATZ\nexit\nAT+GMR\n",
			want:  "OK\n",
		},
		{
			name:  "silent lines",
			input: "\nAT\n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newDeviceHarness(t)
			var out bytes.Buffer
			editor := newScannerEditor(strings.NewReader(tt.input), &out)

			err := Console(editor, editor.Output(), h.engine, h.transport, "\r\n", slog.New(slog.DiscardHandler))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}
