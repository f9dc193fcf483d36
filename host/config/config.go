// Package config holds the host tools' settings file
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rkjdid/util"

	"gpiocdc/core"
	"gpiocdc/host/client"
)

// DefaultPath is the settings file used when -config is not given
const DefaultPath = "gpiocdc.toml"

var DefaultConfig = Config{
	Device: "",
	Baud:   115200,
	Layout: core.ArduinoMicro.Name,
	Pulse:  "blocking",
	Client: ClientConfig{
		EchoTimeout: util.Duration(500 * time.Millisecond),
		HelpIdle:    util.Duration(150 * time.Millisecond),
		HelpTimeout: util.Duration(2 * time.Second),
	},
	Web: WebConfig{
		ListenAddr: "localhost:8080",
	},
}

type Config struct {
	Device string // empty: probe the listed serial ports
	Baud   int
	Layout string // built-in layout name
	Pulse  string // simulator pulse mode: blocking or scheduled
	Client ClientConfig
	Web    WebConfig
}

type ClientConfig struct {
	EchoTimeout util.Duration
	HelpIdle    util.Duration
	HelpTimeout util.Duration
}

type WebConfig struct {
	ListenAddr string
	Verbose    bool
}

// Load reads the settings file at path. A missing file is created with
// the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig
	err := util.ReadTomlFile(&cfg, path)
	if err == nil {
		return &cfg, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading config %q: %w", path, err)
	}

	cfg = DefaultConfig
	if err := Save(&cfg, path); err != nil {
		return nil, err
	}
	log.Printf("created new config file %q", path)
	return &cfg, nil
}

// Save writes cfg to path
func Save(cfg *Config, path string) error {
	if err := util.WriteTomlFile(cfg, path); err != nil {
		return fmt.Errorf("error writing config %q: %w", path, err)
	}
	return nil
}

// ClientOptions returns the client timeouts
func (c *Config) ClientOptions() client.Options {
	return client.Options{
		EchoTimeout: time.Duration(c.Client.EchoTimeout),
		HelpIdle:    time.Duration(c.Client.HelpIdle),
		HelpTimeout: time.Duration(c.Client.HelpTimeout),
	}
}

// BoardLayout resolves the configured layout name
func (c *Config) BoardLayout() (core.Layout, error) {
	l, ok := core.LayoutByName(c.Layout)
	if !ok {
		return core.Layout{}, fmt.Errorf("unknown layout %q", c.Layout)
	}
	return l, nil
}

// PulseMode resolves the configured simulator pulse mode
func (c *Config) PulseMode() (core.PulseMode, error) {
	switch c.Pulse {
	case "", "blocking":
		return core.PulseBlocking, nil
	case "scheduled":
		return core.PulseScheduled, nil
	}
	return 0, fmt.Errorf("unknown pulse mode %q", c.Pulse)
}
