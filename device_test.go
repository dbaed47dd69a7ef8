package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i4.energy/across/atcmd/engine"
)

type deviceHarness struct {
	engine    *engine.Engine
	transport *engine.BufferTransport
	device    *Device
}

func newDeviceHarness(t *testing.T) *deviceHarness {
	t.Helper()

	config, err := LoadConfig(WithDefaults())
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	transport := engine.NewBufferTransport()
	device := NewDevice(logger)
	e, err := newEngine(config, logger, transport, device)
	require.NoError(t, err)

	return &deviceHarness{engine: e, transport: transport, device: device}
}

// send feeds one request line and returns everything the engine answered.
func (h *deviceHarness) send(line string) []string {
	h.transport.Feed(line + "\r\n")
	for h.transport.Available() > 0 {
		_ = h.engine.Update()
	}
	return h.transport.Drain()
}

func TestDeviceCommands(t *testing.T) {
	tests := []struct {
		name    string
		request string
		want    []string
	}{
		{"identify", "ATI", []string{"atcmd emulator", "rev " + Version, "OK"}},
		{"revision", "AT+GMR", []string{Version, "OK"}},
		{"lower case", "at+gmr", []string{Version, "OK"}},
		{"config read", "AT+CFG?", []string{"+CFG: 0,0,0", "OK"}},
		{"config run", "AT+CFG", []string{"+CFG: 0,0,0", "OK"}},
		{"config test", "AT+CFG=?", []string{"+CFG: (0-255),(0-255),(0-255)", "OK"}},
		{"echo", "AT+ECHO=a,b,c", []string{"+ECHO: a,b,c", "OK"}},
		{"echo usage", "AT+ECHO=?", []string{"+ECHO: <text>[,<text>...]", "OK"}},
		{"echo without text", "AT+ECHO=", []string{"ERROR"}},
		{"echo has no run form", "AT+ECHO", nil},
		{"failing command", "AT+ERR", []string{"ERROR"}},
		{"unknown command", "AT+NOPE", []string{"+CME ERROR: 100"}},
		{"missing prefix", "XYZ", []string{"ERROR"}},
		{"bare AT", "AT", nil},
		{"bare AT read", "AT?", []string{"+CME ERROR: 100"}},
		{"empty line", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newDeviceHarness(t)
			assert.Equal(t, tt.want, h.send(tt.request))
		})
	}
}

func TestDeviceConfigWrite(t *testing.T) {
	h := newDeviceHarness(t)

	assert.Equal(t, []string{"OK"}, h.send("AT+CFG=1,2,3"))
	assert.Equal(t, []string{"+CFG: 1,2,3", "OK"}, h.send("AT+CFG?"))

	t.Run("empty parameters keep slots", func(t *testing.T) {
		assert.Equal(t, []string{"OK"}, h.send("AT+CFG=,9"))
		assert.Equal(t, []string{"+CFG: 1,9,3", "OK"}, h.send("AT+CFG?"))
	})

	t.Run("rejected writes change nothing", func(t *testing.T) {
		for _, request := range []string{
			"AT+CFG=7,256",
			"AT+CFG=7,-1",
			"AT+CFG=7,x",
			"AT+CFG=7,7,7,7",
		} {
			assert.Equal(t, []string{"ERROR"}, h.send(request), request)
		}
		assert.Equal(t, []string{"+CFG: 1,9,3", "OK"}, h.send("AT+CFG?"))
	})

	t.Run("reset", func(t *testing.T) {
		assert.Equal(t, []string{"OK"}, h.send("ATZ"))
		assert.Equal(t, []string{"+CFG: 0,0,0", "OK"}, h.send("AT+CFG?"))
	})
}

func TestDeviceStats(t *testing.T) {
	h := newDeviceHarness(t)

	h.send("ATI")
	h.send("AT+ERR")
	h.send("AT+NOPE")
	h.send("AT")

	stats := h.engine.Stats()
	assert.Equal(t, uint64(4), stats.Lines)
	assert.Equal(t, uint64(1), stats.Handled)
	assert.Equal(t, uint64(1), stats.Failed)
	assert.Equal(t, uint64(2), stats.Silent)
}

func TestForms(t *testing.T) {
	commands := NewDevice(slog.New(slog.DiscardHandler)).Commands()
	forms := make(map[string][]string, len(commands))
	for _, c := range commands {
		forms[c.Name] = Forms(c)
	}

	assert.Equal(t, []string{"ATI"}, forms["I"])
	assert.Equal(t, []string{"AT+CFG", "AT+CFG?", "AT+CFG=?", "AT+CFG="}, forms["+CFG"])
	assert.Equal(t, []string{"AT+ECHO=?", "AT+ECHO="}, forms["+ECHO"])
	assert.Equal(t, []string{}, Forms(engine.Command{Name: "+NONE"}))
}
