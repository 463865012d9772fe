package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the assembler's runtime configuration
type Config struct {
	// Assembly settings
	Assembly struct {
		MaxErrors    int    `toml:"max_errors"`
		DefaultEntry string `toml:"default_entry"`
		DefaultPRG   int    `toml:"default_prg_banks"`
		DefaultCHR   int    `toml:"default_chr_banks"`
		DefaultMapper int   `toml:"default_mapper"`
		AllowRedefine bool  `toml:"allow_redefine_variable"`
	} `toml:"assembly"`

	// Include settings
	Include struct {
		MaxDepth   int      `toml:"max_depth"`
		SearchPath []string `toml:"search_path"`
	} `toml:"include"`

	// Display settings
	Display struct {
		ColorOutput   bool   `toml:"color_output"`
		BytesPerLine  int    `toml:"bytes_per_line"`
		ListingWidth  int    `toml:"listing_width"`
		NumberFormat  string `toml:"number_format"` // hex, dec
	} `toml:"display"`

	// Lint settings
	Lint struct {
		WarnUnreferencedLabels bool `toml:"warn_unreferenced_labels"`
		WarnShadowedVariable   bool `toml:"warn_shadowed_variable"`
	} `toml:"lint"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembly.MaxErrors = 3
	cfg.Assembly.DefaultEntry = "_main"
	cfg.Assembly.DefaultPRG = 1
	cfg.Assembly.DefaultCHR = 1
	cfg.Assembly.DefaultMapper = 0
	cfg.Assembly.AllowRedefine = false

	cfg.Include.MaxDepth = 64
	cfg.Include.SearchPath = nil

	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.ListingWidth = 80
	cfg.Display.NumberFormat = "hex"

	cfg.Lint.WarnUnreferencedLabels = true
	cfg.Lint.WarnShadowedVariable = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\nesasm\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "nesasm")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/nesasm/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "nesasm")

	default:
		// Unknown platform: use current directory
		return "config.toml"
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0750); err != nil {
		// If we can't create the directory, fall back to current directory
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read and parse config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	// Encode to TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
