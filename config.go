package main

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/whyrusleeping/soundpaint/paint"
	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		Window       WindowConfig
		CanvasHeight int `yaml:"canvasheight"`
		Audio        AudioConfig
		Volume       float64
		Instrument   string
		Scope        bool
		Console      bool
		LogLevel     string     `yaml:"loglevel"`
		MIDI         MIDIConfig `yaml:"midi"`
	}

	WindowConfig struct {
		Width  int
		Height int
	}

	AudioConfig struct {
		SampleRate int           `yaml:"samplerate"`
		Buffer     time.Duration `yaml:"buffer"`
	}

	MIDIConfig struct {
		Enabled bool
		// Device selects the first input whose name starts with it; empty
		// means the system default input.
		Device     string
		VolumeKnob int64 `yaml:"volumeknob"`
		PlayCC     int64 `yaml:"playcc"`
		ClearCC    int64 `yaml:"clearcc"`
		Notes      map[int64]string
	}
)

//go:embed config.yml
var defaultConfigYaml []byte

const configFile = "config.yml"

func defaultConfig() *Config {
	var cfg Config
	if err := decodeConfig(bytes.NewReader(defaultConfigYaml), &cfg); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return &cfg
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// userConfigPath is where loadConfig looks when no path is given.
func userConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "soundpaint", configFile), nil
}

// loadConfig layers the file at path over the defaults. With an empty path
// the user config file is used if it exists.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := userConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	if err := decodeConfig(f, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.CanvasHeight <= 0 || c.CanvasHeight > c.Window.Height-toolbarHeight {
		return fmt.Errorf("canvas height %d does not fit a %d pixel window", c.CanvasHeight, c.Window.Height)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", c.Audio.SampleRate)
	}
	if c.Audio.Buffer <= 0 {
		return fmt.Errorf("invalid audio buffer %s", c.Audio.Buffer)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume %v out of range [0,1]", c.Volume)
	}
	cat := paint.DefaultCatalog()
	if _, err := cat.Lookup(c.Instrument); err != nil {
		return err
	}
	for note, name := range c.MIDI.Notes {
		if _, err := cat.Lookup(name); err != nil {
			return fmt.Errorf("midi note %d: %w", note, err)
		}
	}
	return nil
}

func (c *Config) logLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
