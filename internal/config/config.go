package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "listquest.db"
	AppDirName            = "listquest"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "LISTQUEST_CONFIG"
)

var ErrInvalidConfig = errors.New("invalid config")

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Done       string `toml:"done"`
	Delete     string `toml:"delete"`
	Edit       string `toml:"edit"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	Complete   string `toml:"complete"`
	Sort       string `toml:"sort"`
	NextTab    string `toml:"next_tab"`
	PrevTab    string `toml:"prev_tab"`
	MoveUp     string `toml:"move_up"`
	MoveDown   string `toml:"move_down"`
	Export     string `toml:"export"`
	SkipRepeat string `toml:"skip_repeat"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives logs; empty means stderr for commands and no logs in the TUI.
	File string `toml:"file"`
}

type Config struct {
	DBPath    string `toml:"db_path"`
	ExportDir string `toml:"export_dir"`
	Log       Log    `toml:"log"`
	Keys      Keymap `toml:"keys"`
}

// ResolveConfigPath returns the config file location: $LISTQUEST_CONFIG,
// else config.toml under the user config directory, else the working
// directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist yet. Relative paths inside the file are
// resolved against its directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		cfg.resolvePaths(filepath.Dir(path))
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Validate rejects settings the logger cannot honour.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

func (c *Config) resolvePaths(base string) {
	c.DBPath = resolve(base, c.DBPath)
	c.ExportDir = resolve(base, c.ExportDir)
	c.Log.File = resolve(base, c.Log.File)
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(base, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:    DefaultDBName,
		ExportDir: ".",
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Done:       " ",
			Delete:     "d",
			Edit:       "e",
			Confirm:    "enter",
			Cancel:     "esc",
			Complete:   "tab",
			Sort:       "s",
			NextTab:    "l",
			PrevTab:    "h",
			MoveUp:     "K",
			MoveDown:   "J",
			Export:     "p",
			SkipRepeat: "x",
		},
	}
}
