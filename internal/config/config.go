package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cla7997/edl-timestamps/internal/edl"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "edltimestamps_config.json"

const (
	DefaultHotkey    = "alt gr+f10"
	DefaultEndHotkey = "ctrl+delete"
)

// ErrConfigRead is wrapped by Load when the config file exists but cannot
// be read or parsed. Defaults stay in effect.
var ErrConfigRead = errors.New("error reading config file")

// HotkeyConfig holds the two hotkey combos.
type HotkeyConfig struct {
	Marker string `mapstructure:"hotkey"`
	End    string `mapstructure:"end_hotkey"`
}

// EDLConfig holds output file settings.
type EDLConfig struct {
	OutputDir string
	Title     string
	Color     string
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// SetDefaults registers every default value with viper.
func SetDefaults() {
	viper.SetDefault("hotkey", DefaultHotkey)
	viper.SetDefault("end_hotkey", DefaultEndHotkey)

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")
	viper.SetDefault("outputDir", ".")

	viper.SetDefault("edl.title", edl.DefaultTitle)
	viper.SetDefault("edl.color", edl.DefaultColor)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "edl-timestamps")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// ConfigFilePath returns the config file path inside configDir.
func ConfigFilePath(configDir string) string {
	return filepath.Join(configDir, FileName)
}

// Load sets defaults and reads the JSON config file from configDir.
// A missing file is replaced by one holding the default hotkeys and
// created reports true. An unreadable or malformed file yields an error
// wrapping ErrConfigRead; defaults are used in that case.
func Load(configDir string) (created bool, err error) {
	SetDefaults()

	viper.SetEnvPrefix("EDLTIMESTAMPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path := ConfigFilePath(configDir)
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := WriteDefault(path); err != nil {
			return false, fmt.Errorf("%w: creating default: %v", ErrConfigRead, err)
		}
		created = true
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return created, fmt.Errorf("%w: %v", ErrConfigRead, err)
	}
	return created, nil
}

// WriteDefault writes a config file holding only the default hotkeys.
func WriteDefault(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("hotkey", DefaultHotkey)
	v.Set("end_hotkey", DefaultEndHotkey)
	return v.WriteConfigAs(path)
}

// GetHotkeyConfig returns the configured combos, falling back to the
// defaults for blank or undecodable values.
func GetHotkeyConfig() HotkeyConfig {
	var cfg HotkeyConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		cfg = HotkeyConfig{}
	}
	cfg.Marker = strings.TrimSpace(cfg.Marker)
	cfg.End = strings.TrimSpace(cfg.End)
	if cfg.Marker == "" {
		cfg.Marker = DefaultHotkey
	}
	if cfg.End == "" {
		cfg.End = DefaultEndHotkey
	}
	return cfg
}

// GetEDLConfig returns the output file settings.
func GetEDLConfig() EDLConfig {
	return EDLConfig{
		OutputDir: viper.GetString("outputDir"),
		Title:     viper.GetString("edl.title"),
		Color:     viper.GetString("edl.color"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}
