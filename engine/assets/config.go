package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/renderer/sorting"
)

// DefaultConfigPath is where the engine looks for the renderer configuration.
const DefaultConfigPath = "config/renderer.toml"

/**
 * @brief The renderer configuration file: logging plus the sorting system.
 */
type RendererConfig struct {
	LogLevel string         `toml:"log_level"`
	Sorting  sorting.Config `toml:"sorting"`
}

func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		LogLevel: "info",
		Sorting:  sorting.DefaultConfig(),
	}
}

// Validate checks the log level and the sorting configuration.
func (c RendererConfig) Validate() error {
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, core.ErrInvalidConfig)
	}
	return c.Sorting.Validate()
}

/**
 * @brief Loads the configuration at path. Keys missing from the file keep
 * their default values; unknown keys are an error.
 */
func LoadConfig(path string) (RendererConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return RendererConfig{}, err
	}
	defer f.Close()

	config, err := DecodeConfig(f)
	if err != nil {
		return RendererConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// DecodeConfig reads a TOML configuration from r over the defaults.
func DecodeConfig(r io.Reader) (RendererConfig, error) {
	config := DefaultRendererConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return RendererConfig{}, fmt.Errorf("unknown keys:\n%s%w", strict.String(), core.ErrInvalidConfig)
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return RendererConfig{}, fmt.Errorf("line %d column %d: %s: %w", row, col, decodeErr.Error(), core.ErrInvalidConfig)
		}
		return RendererConfig{}, fmt.Errorf("%s: %w", err, core.ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return RendererConfig{}, err
	}
	return config, nil
}

// Encode writes c as TOML.
func (c RendererConfig) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
