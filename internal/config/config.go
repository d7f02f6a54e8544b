package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MinReadBufferSize is the smallest per-connection read buffer accepted.
const MinReadBufferSize = 512

// Config represents the application configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Files   FilesConfig  `yaml:"files"`
	Logging LogConfig    `yaml:"logging"`
}

// ServerConfig contains settings for the listener and connections
type ServerConfig struct {
	Address        string `yaml:"address"`
	ReadBufferSize int    `yaml:"read_buffer_size"` // bytes, bounds one request
	ReadTimeout    int    `yaml:"read_timeout"`     // in seconds, 0 disables
}

// FilesConfig contains settings for the /files/ store
type FilesConfig struct {
	Directory string `yaml:"directory"`
}

// LogConfig contains settings for logging
type LogConfig struct {
	Debug       bool   `yaml:"debug"`
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // maximum size in megabytes
	MaxBackups  int    `yaml:"max_backups"` // maximum number of old log files to retain
	MaxAge      int    `yaml:"max_age"`     // maximum number of days to retain old log files
	Compress    bool   `yaml:"compress"`
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        "127.0.0.1:3221",
			ReadBufferSize: 4096,
			ReadTimeout:    0,
		},
		Files: FilesConfig{
			Directory: ".",
		},
		Logging: LogConfig{
			Debug:       false,
			LogToFile:   false,
			LogFilePath: "minihttpd.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
	}
}

// Load reads configuration from a file and merges it with default values
func Load(configPath string) (*Config, error) {
	cfg := LoadDefault()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.Server.Address != "" {
		cfg.Server.Address = fileCfg.Server.Address
	}
	if fileCfg.Server.ReadBufferSize > 0 {
		cfg.Server.ReadBufferSize = fileCfg.Server.ReadBufferSize
	}
	if fileCfg.Server.ReadTimeout > 0 {
		cfg.Server.ReadTimeout = fileCfg.Server.ReadTimeout
	}

	if fileCfg.Files.Directory != "" {
		cfg.Files.Directory = fileCfg.Files.Directory
	}

	if fileCfg.Logging.Debug {
		cfg.Logging.Debug = true
	}
	if fileCfg.Logging.LogToFile {
		cfg.Logging.LogToFile = true
	}
	if fileCfg.Logging.LogFilePath != "" {
		cfg.Logging.LogFilePath = fileCfg.Logging.LogFilePath
	}
	if fileCfg.Logging.MaxSize > 0 {
		cfg.Logging.MaxSize = fileCfg.Logging.MaxSize
	}
	if fileCfg.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = fileCfg.Logging.MaxBackups
	}
	if fileCfg.Logging.MaxAge > 0 {
		cfg.Logging.MaxAge = fileCfg.Logging.MaxAge
	}

	// compress defaults to true, so an explicit false has to be told
	// apart from an absent key.
	var explicit struct {
		Logging struct {
			Compress *bool `yaml:"compress"`
		} `yaml:"logging"`
	}
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if explicit.Logging.Compress != nil {
		cfg.Logging.Compress = *explicit.Logging.Compress
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks values that would make the server unusable.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.Server.ReadBufferSize < MinReadBufferSize {
		return fmt.Errorf("read_buffer_size must be at least %d, got %d", MinReadBufferSize, c.Server.ReadBufferSize)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("read_timeout must not be negative, got %d", c.Server.ReadTimeout)
	}
	return nil
}
