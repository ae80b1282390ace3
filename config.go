package formkit

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/formkit/retained"
)

// ConfigFile is the file LoadConfig looks for when no path is given.
const ConfigFile = "formkit.toml"

// Config represents the formkit.toml configuration file
type Config struct {
	Frame   FrameConfig   `toml:"frame"`
	Window  WindowConfig  `toml:"window"`
	Log     LogConfig     `toml:"log"`
	Backend BackendConfig `toml:"backend"`
}

// FrameConfig controls the pump cadence.
type FrameConfig struct {
	// Forced repaint interval in milliseconds
	ForceRepaintMS int `toml:"force_repaint_ms"`
	// Sleep between idle pump iterations in milliseconds
	IdleSleepMS int `toml:"idle_sleep_ms"`
	// "full" repaints the client area; "animated" repaints animated regions only
	ForcedMode string `toml:"forced_mode"`
}

type WindowConfig struct {
	Title          string `toml:"title"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	DPI            int    `toml:"dpi"`
	TitleBarHeight int    `toml:"title_bar_height"`
	// Colours as #RRGGBB or #RRGGBBAA
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
}

type LogConfig struct {
	// debug, info, warn or error
	Level string `toml:"level"`
}

type BackendConfig struct {
	// "", "terminal", "native" or "headless". Empty picks native when the
	// renderer library loads and the terminal otherwise.
	Kind string `toml:"kind"`
	// Renderer library path for the native backend
	Library string `toml:"library"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		Frame: FrameConfig{
			ForceRepaintMS: int(retained.DefaultForceInterval / time.Millisecond),
			IdleSleepMS:    int(retained.DefaultIdleSleep / time.Millisecond),
			ForcedMode:     retained.ForceFull.String(),
		},
		Window: WindowConfig{
			Title:      "formkit",
			Width:      640,
			Height:     480,
			DPI:        retained.BaseDPI,
			Background: "#FFFFFF",
			Foreground: "#000000",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from path, or from ./formkit.toml when path
// is empty. A missing default file yields the defaults; a missing explicit
// file is an error. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return config, fmt.Errorf("failed to parse %s: %s", path, strict.String())
		}
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid %s: %w", path, err)
	}
	return config, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Frame.ForceRepaintMS <= 0 {
		errs = append(errs, fmt.Errorf("frame.force_repaint_ms must be positive, got %d", c.Frame.ForceRepaintMS))
	}
	if c.Frame.IdleSleepMS < 0 {
		errs = append(errs, fmt.Errorf("frame.idle_sleep_ms must not be negative, got %d", c.Frame.IdleSleepMS))
	}
	if _, err := retained.ParseForcedMode(c.Frame.ForcedMode); err != nil {
		errs = append(errs, fmt.Errorf("frame.forced_mode: %w", err))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.DPI < 0 || c.Window.TitleBarHeight < 0 {
		errs = append(errs, errors.New("window.dpi and window.title_bar_height must not be negative"))
	}
	colours := []struct{ key, value string }{
		{"window.background", c.Window.Background},
		{"window.foreground", c.Window.Foreground},
	}
	for _, colour := range colours {
		if colour.value == "" {
			continue
		}
		if _, err := retained.ParseHex(colour.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", colour.key, err))
		}
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseBackendKind(c.Backend.Kind); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoopConfig converts the frame section. Invalid modes fall back to full.
func (c Config) LoopConfig() retained.LoopConfig {
	mode, _ := retained.ParseForcedMode(c.Frame.ForcedMode)
	return retained.LoopConfig{
		ForceInterval: time.Duration(c.Frame.ForceRepaintMS) * time.Millisecond,
		IdleSleep:     time.Duration(c.Frame.IdleSleepMS) * time.Millisecond,
		ForcedMode:    mode,
	}
}

// WindowOptions converts the window section. Unparseable colours are left
// zero so the window defaults apply.
func (c Config) WindowOptions() retained.WindowOptions {
	opts := retained.WindowOptions{
		Title:          c.Window.Title,
		Width:          c.Window.Width,
		Height:         c.Window.Height,
		DPI:            c.Window.DPI,
		TitleBarHeight: c.Window.TitleBarHeight,
	}
	if bg, err := retained.ParseHex(c.Window.Background); err == nil {
		opts.Background = bg
	}
	if fg, err := retained.ParseHex(c.Window.Foreground); err == nil {
		opts.Foreground = fg
	}
	return opts
}

// LogLevel returns the configured level, defaulting to info.
func (c Config) LogLevel() slog.Level {
	level, err := ParseLogLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Marshal renders the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveConfig writes the configuration to path.
func SaveConfig(path string, c Config) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
