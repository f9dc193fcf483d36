package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gpiocdc/core"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpiocdc.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if cfg.Layout != core.ArduinoMicro.Name || cfg.Baud != 115200 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpiocdc.toml")

	cfg := DefaultConfig
	cfg.Device = "/dev/ttyACM1"
	cfg.Layout = core.Pico.Name
	cfg.Web.Verbose = true
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Device != "/dev/ttyACM1" || got.Layout != "pico" || !got.Web.Verbose {
		t.Errorf("values not kept: %+v", got)
	}
	if time.Duration(got.Client.EchoTimeout) != 500*time.Millisecond {
		t.Errorf("expected 500ms echo timeout, got %v", time.Duration(got.Client.EchoTimeout))
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpiocdc.toml")
	if err := os.WriteFile(path, []byte("Baud = [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestResolvers(t *testing.T) {
	cfg := DefaultConfig

	if l, err := cfg.BoardLayout(); err != nil || l.Name != "arduino-micro" {
		t.Errorf("BoardLayout: %v %v", l.Name, err)
	}
	cfg.Layout = "uno"
	if _, err := cfg.BoardLayout(); err == nil {
		t.Error("expected unknown layout error")
	}

	for _, tt := range []struct {
		in   string
		mode core.PulseMode
		ok   bool
	}{
		{"blocking", core.PulseBlocking, true},
		{"", core.PulseBlocking, true},
		{"scheduled", core.PulseScheduled, true},
		{"async", 0, false},
	} {
		cfg.Pulse = tt.in
		mode, err := cfg.PulseMode()
		if (err == nil) != tt.ok || (tt.ok && mode != tt.mode) {
			t.Errorf("PulseMode(%q) = %v, %v", tt.in, mode, err)
		}
	}

	opts := DefaultConfig.ClientOptions()
	if opts.HelpTimeout != 2*time.Second {
		t.Errorf("unexpected help timeout %v", opts.HelpTimeout)
	}
}
