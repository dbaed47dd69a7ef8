package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"i4.energy/across/atcmd/at"
	"i4.energy/across/atcmd/engine"
)

const (
	// Version is reported by AT+GMR and ATI.
	Version = "1.0.0"

	// CmeUnknown is the +CME ERROR code reported for unknown commands.
	CmeUnknown = 100

	cfgSlots = 3
	cfgMax   = 255
)

// Device is a small emulated AT device. Its state is only touched by
// handlers, so it shares the engine's single-threaded contract.
type Device struct {
	Logger *slog.Logger
	cfg    [cfgSlots]int
}

// NewDevice returns a device with its configuration at defaults.
func NewDevice(logger *slog.Logger) *Device {
	return &Device{Logger: logger}
}

// Commands returns the command table served by the device.
func (d *Device) Commands() []engine.Command {
	return []engine.Command{
		{Name: "I", Run: d.identify},
		{Name: "Z", Run: d.reset},
		{Name: "+GMR", Run: d.revision},
		{
			Name:  "+CFG",
			Run:   d.readConfig,
			Read:  d.readConfig,
			Test:  d.testConfig,
			Write: d.writeConfig,
		},
		{
			Name:  "+ECHO",
			Test:  d.testEcho,
			Write: d.echo,
		},
		{Name: "+ERR", Run: func(*engine.Engine) bool { return false }},
	}
}

// UnknownCommand reports an unresolved command as a +CME ERROR instead of
// the bare ERROR.
func (d *Device) UnknownCommand(e *engine.Engine) {
	d.Logger.Warn("Unknown command", "command", e.Command(), "line", e.Buffer())
	if err := e.Replyf("%s %d", at.CmeError, CmeUnknown); err != nil {
		d.Logger.Error("Failed to report unknown command", "error", err)
	}
}

func (d *Device) identify(e *engine.Engine) bool {
	return e.Reply("atcmd emulator") == nil && e.Reply("rev "+Version) == nil
}

func (d *Device) revision(e *engine.Engine) bool {
	return e.Reply(Version) == nil
}

func (d *Device) reset(*engine.Engine) bool {
	d.cfg = [cfgSlots]int{}
	return true
}

func (d *Device) readConfig(e *engine.Engine) bool {
	values := make([]string, len(d.cfg))
	for i, v := range d.cfg {
		values[i] = strconv.Itoa(v)
	}
	return e.Replyf("+CFG: %s", strings.Join(values, ",")) == nil
}

func (d *Device) testConfig(e *engine.Engine) bool {
	ranges := make([]string, cfgSlots)
	for i := range ranges {
		ranges[i] = fmt.Sprintf("(0-%d)", cfgMax)
	}
	return e.Replyf("+CFG: %s", strings.Join(ranges, ",")) == nil
}

// writeConfig sets up to three slots. Empty parameters leave a slot
// unchanged; the update is all or nothing.
func (d *Device) writeConfig(e *engine.Engine) bool {
	next := d.cfg
	for i := 0; e.HasNext(); i++ {
		if i >= cfgSlots {
			d.Logger.Debug("Too many config values", "payload", e.Params().Payload())
			return false
		}
		param := strings.TrimSpace(e.Next())
		if param == "" {
			continue
		}
		v, err := strconv.Atoi(param)
		if err != nil || v < 0 || v > cfgMax {
			d.Logger.Debug("Rejected config value", "slot", i, "value", param, "payload", e.Params().Payload())
			return false
		}
		next[i] = v
	}
	d.cfg = next
	return true
}

func (d *Device) testEcho(e *engine.Engine) bool {
	return e.Reply("+ECHO: <text>[,<text>...]") == nil
}

func (d *Device) echo(e *engine.Engine) bool {
	params := e.Params().Remaining()
	if len(params) == 0 {
		return false
	}
	return e.Replyf("+ECHO: %s", strings.Join(params, ",")) == nil
}

// Forms lists the command forms a table entry accepts, e.g. "AT+CFG?".
func Forms(c engine.Command) []string {
	forms := make([]string, 0, 4)
	if c.Run != nil {
		forms = append(forms, at.Prefix+c.Name)
	}
	if c.Read != nil {
		forms = append(forms, at.Prefix+c.Name+"?")
	}
	if c.Test != nil {
		forms = append(forms, at.Prefix+c.Name+"=?")
	}
	if c.Write != nil {
		forms = append(forms, at.Prefix+c.Name+"=")
	}
	return forms
}
