package editor

import (
	"Inkwell/backend/types"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// EnvPrefix prefixes the environment variables overriding the configuration.
const EnvPrefix = "INKWELL_"

// Configuration of an editing surface.
type Configuration struct {
	// MergeWindow is the delay within which consecutive edits of the same kind
	// are recorded as one undo step.
	MergeWindow time.Duration

	// MaxHistory bounds the undo stack. 0 keeps every step.
	MaxHistory int

	LogLevel  zerolog.Level
	LogOutput io.Writer

	// Clock returns the time of an edit. Defaults to time.Now.
	Clock func() time.Time

	// History is shared by the surfaces configured with the same state. A nil
	// state gives the surface a history of its own.
	History *types.HistoryState
}

// FileConfiguration is the TOML form of a Configuration.
type FileConfiguration struct {
	MergeWindowMS int64  `toml:"merge_window_ms"`
	MaxHistory    int    `toml:"max_history"`
	LogLevel      string `toml:"log_level"`
}

// DefaultConfiguration returns the configuration used when nothing is set.
func DefaultConfiguration() Configuration {
	return Configuration{
		MergeWindow: 1000 * time.Millisecond,
		MaxHistory:  0,
		LogLevel:    zerolog.InfoLevel,
		LogOutput:   os.Stdout,
		Clock:       time.Now,
	}
}

// LoadConfiguration returns the defaults overridden by the TOML file at path
// (skipped when path is empty or missing) and then by INKWELL_* environment
// variables.
func LoadConfiguration(path string) (Configuration, error) {
	conf := DefaultConfiguration()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return conf, xerrors.Errorf("failed to read configuration %s: %v", path, err)
		default:
			if err := ParseConfiguration(data, &conf); err != nil {
				return conf, xerrors.Errorf("failed to parse configuration %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&conf, os.LookupEnv); err != nil {
		return conf, err
	}

	return conf, nil
}

// ParseConfiguration applies the TOML document data on top of conf. Keys
// absent from data keep their value.
func ParseConfiguration(data []byte, conf *Configuration) error {
	fc := FileConfiguration{
		MergeWindowMS: conf.MergeWindow.Milliseconds(),
		MaxHistory:    conf.MaxHistory,
		LogLevel:      conf.LogLevel.String(),
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return err
	}
	return fc.apply(conf)
}

// Export returns the TOML form of conf.
func (c Configuration) Export() ([]byte, error) {
	return toml.Marshal(FileConfiguration{
		MergeWindowMS: c.MergeWindow.Milliseconds(),
		MaxHistory:    c.MaxHistory,
		LogLevel:      c.LogLevel.String(),
	})
}

func (fc FileConfiguration) apply(conf *Configuration) error {
	if fc.MergeWindowMS < 0 {
		return xerrors.Errorf("merge_window_ms must not be negative, got %d", fc.MergeWindowMS)
	}
	if fc.MaxHistory < 0 {
		return xerrors.Errorf("max_history must not be negative, got %d", fc.MaxHistory)
	}
	level, err := zerolog.ParseLevel(fc.LogLevel)
	if err != nil {
		return xerrors.Errorf("invalid log_level: %v", err)
	}

	conf.MergeWindow = time.Duration(fc.MergeWindowMS) * time.Millisecond
	conf.MaxHistory = fc.MaxHistory
	conf.LogLevel = level
	return nil
}

func applyEnv(conf *Configuration, lookup func(string) (string, bool)) error {
	fc := FileConfiguration{
		MergeWindowMS: conf.MergeWindow.Milliseconds(),
		MaxHistory:    conf.MaxHistory,
		LogLevel:      conf.LogLevel.String(),
	}

	if v, ok := lookup(EnvPrefix + "MERGE_WINDOW_MS"); ok {
		ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return xerrors.Errorf("invalid %sMERGE_WINDOW_MS: %v", EnvPrefix, err)
		}
		fc.MergeWindowMS = ms
	}
	if v, ok := lookup(EnvPrefix + "MAX_HISTORY"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return xerrors.Errorf("invalid %sMAX_HISTORY: %v", EnvPrefix, err)
		}
		fc.MaxHistory = n
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		fc.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}

	return fc.apply(conf)
}
