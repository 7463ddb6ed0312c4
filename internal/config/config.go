package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Extraction profiles
	ProfileGeneric = "generic"
	ProfileHTSF    = "htsf"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultMaxPages    = 1000
	DefaultChunkSize   = 100
	DefaultAITimeout   = 5 * time.Second

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the submission processing server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Processing configuration
	SubmissionDirectory string
	MaxPages            int
	ChunkSize           int
	Profile             string

	// AI extraction service (optional)
	AIServiceURL string
	AITimeout    time.Duration

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum document file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:                ModeStdio, // Default to stdio mode for MCP compatibility
		Host:                DefaultHost,
		Port:                DefaultPort,
		SubmissionDirectory: currentDir,
		MaxPages:            DefaultMaxPages,
		ChunkSize:           DefaultChunkSize,
		Profile:             ProfileGeneric,
		AITimeout:           DefaultAITimeout,
		Version:             "1.0.0",
		ServerName:          "submission-service",
		LogLevel:            DefaultLogLevel,
		MaxFileSize:         DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.SubmissionDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.SubmissionDirectory); err == nil {
			cfg.SubmissionDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("SUBMISSION")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.SubmissionDirectory)
	viper.SetDefault("maxpages", cfg.MaxPages)
	viper.SetDefault("chunksize", cfg.ChunkSize)
	viper.SetDefault("profile", cfg.Profile)
	viper.SetDefault("aiserviceurl", cfg.AIServiceURL)
	viper.SetDefault("aitimeout", cfg.AITimeout)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.SubmissionDirectory, "Directory containing submission documents")
	pflag.Int("maxpages", cfg.MaxPages, "Maximum PDF pages processed per document")
	pflag.Int("chunksize", cfg.ChunkSize, "CSV rows processed per chunk")
	pflag.String("profile", cfg.Profile, "Extraction profile: 'generic' or 'htsf'")
	pflag.String("aiserviceurl", cfg.AIServiceURL, "Base URL of the AI extraction service (empty disables AI assistance)")
	pflag.Duration("aitimeout", cfg.AITimeout, "Timeout for AI extraction requests")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum document file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "maxpages", "chunksize",
		"profile", "aiserviceurl", "aitimeout", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSubmission Service - extracts sample data from sequencing submission documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/submissions              "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --profile=htsf                          # HTSF quote form layout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --aiserviceurl=http://localhost:3002    # enable AI-assisted extraction\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_MODE         Server mode\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_HOST         Server host\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_PORT         Server port\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_DIR          Submission directory\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_MAXPAGES     Maximum PDF pages per document\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_CHUNKSIZE    CSV chunk size\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_PROFILE      Extraction profile\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_AISERVICEURL AI extraction service URL\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_AITIMEOUT    AI request timeout\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  SUBMISSION_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.SubmissionDirectory = viper.GetString("dir")
	cfg.MaxPages = viper.GetInt("maxpages")
	cfg.ChunkSize = viper.GetInt("chunksize")
	cfg.Profile = viper.GetString("profile")
	cfg.AIServiceURL = viper.GetString("aiserviceurl")
	cfg.AITimeout = viper.GetDuration("aitimeout")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Profile != ProfileGeneric && c.Profile != ProfileHTSF {
		return fmt.Errorf("invalid profile: %s (must be 'generic' or 'htsf')", c.Profile)
	}

	if c.SubmissionDirectory == "" {
		return errors.New("submission directory cannot be empty")
	}

	// Check if the submission directory exists, create if it doesn't
	if _, err := os.Stat(c.SubmissionDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.SubmissionDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create submission directory %s: %w", c.SubmissionDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access submission directory %s: %w", c.SubmissionDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.MaxPages < 0 {
		return errors.New("maximum pages cannot be negative")
	}
	if c.ChunkSize <= 0 {
		return errors.New("chunk size must be positive")
	}
	if c.AITimeout <= 0 {
		return errors.New("AI timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, SubmissionDirectory: %s, Profile: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.SubmissionDirectory, c.Profile, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
