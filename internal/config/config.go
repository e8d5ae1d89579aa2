package config

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when none of the search paths holds a config file.
var ErrNotFound = errors.New("no config file found")

// Config represents the application configuration
type Config struct {
	Device DeviceConfig `yaml:"device"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`

	// ConfigPath is the path to the config file (not serialized)
	ConfigPath string `yaml:"-"`
}

// DeviceConfig configures the emulated device server
type DeviceConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// Root is the host directory that plays the device file system
	Root string `yaml:"root"`

	ConsoleCapacity int           `yaml:"console_capacity"`
	HistorySize     int           `yaml:"history_size"`
	BootFile        string        `yaml:"boot_file"`
	RebootDelay     time.Duration `yaml:"reboot_delay"`
}

// ClientConfig configures how the tools talk to a device
type ClientConfig struct {
	URL              string        `yaml:"url"`
	Timeout          time.Duration `yaml:"timeout"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	CommandEchoDelay time.Duration `yaml:"command_echo_delay"`
	StatusHideDelay  time.Duration `yaml:"status_hide_delay"`

	// Console stream settings
	WSReconnectDelay time.Duration `yaml:"ws_reconnect_delay"`
	WSMaxReconnect   time.Duration `yaml:"ws_max_reconnect_delay"`
}

// LogConfig selects the log level and an optional log file
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Addr returns the listen address of the device server
func (d DeviceConfig) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Root:            "device",
			ConsoleCapacity: 1000,
			HistorySize:     50,
			BootFile:        "code.py",
			RebootDelay:     2 * time.Second,
		},
		Client: ClientConfig{
			URL:              "http://192.168.4.1",
			Timeout:          15 * time.Second,
			PollInterval:     500 * time.Millisecond,
			CommandEchoDelay: 100 * time.Millisecond,
			StatusHideDelay:  3 * time.Second,
			WSReconnectDelay: 1 * time.Second,
			WSMaxReconnect:   30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SearchPaths lists the locations Load tries, in order
func SearchPaths() []string {
	paths := []string{
		"picoide.yaml",
		"configs/picoide.yaml",
	}
	if home, err := osUserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "picoide", "config.yaml"))
	}
	return paths
}

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

// Load loads configuration from the first config file found on the search path
func Load() (*Config, error) {
	for _, path := range SearchPaths() {
		cfg, err := LoadFile(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// LoadFile loads configuration from path, layered over Default()
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.ConfigPath = path
	return cfg, nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
