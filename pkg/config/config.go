package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for igexport
type Config struct {
	// Instagram endpoint and session settings
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Pacing, backoff and request-rate settings
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Feed pagination
	Pagination PaginationConfig `yaml:"pagination" json:"pagination"`

	// Export destination
	Output OutputConfig `yaml:"output" json:"output"`

	// HTTP transport
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	BaseURL    string   `yaml:"base_url" json:"base_url"`
	AppID      string   `yaml:"app_id" json:"app_id"`
	SessionID  string   `yaml:"session_id" json:"session_id"`
	Account    string   `yaml:"account" json:"account"`
	UserAgents []string `yaml:"user_agents" json:"user_agents"`
}

// RateLimitConfig holds pacing and retry configuration
type RateLimitConfig struct {
	// Pause between consecutive logical requests, uniform in [MinDelay, MaxDelay)
	MinDelay time.Duration `yaml:"min_delay" json:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay" json:"max_delay"`

	// Retry backoff: BackoffBase*2^attempt + [0, MaxJitter)
	BackoffBase time.Duration `yaml:"backoff_base" json:"backoff_base"`
	MaxJitter   time.Duration `yaml:"max_jitter" json:"max_jitter"`
	MaxRetries  int           `yaml:"max_retries" json:"max_retries"`

	// Hard ceiling on outgoing requests, 0 disables it
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// PaginationConfig holds feed paging configuration
type PaginationConfig struct {
	PageSize int `yaml:"page_size" json:"page_size"`
}

// OutputConfig holds export configuration
type OutputConfig struct {
	// Empty means stdout
	File   string `yaml:"file" json:"file"`
	Indent string `yaml:"indent" json:"indent"`
}

// HTTPConfig holds transport settings
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	Format  string `yaml:"format" json:"format"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// DefaultUserAgents is the browser pool a User-Agent is drawn from per request
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:132.0) Gecko/20100101 Firefox/132.0",
	"Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 OPR/117.0.0.0",
}

const (
	DefaultBaseURL = "https://www.instagram.com"
	DefaultAppID   = "936619743392459"
)

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	agents := make([]string, len(DefaultUserAgents))
	copy(agents, DefaultUserAgents)

	return &Config{
		Instagram: InstagramConfig{
			BaseURL:    DefaultBaseURL,
			AppID:      DefaultAppID,
			UserAgents: agents,
		},
		RateLimit: RateLimitConfig{
			MinDelay:          2000 * time.Millisecond,
			MaxDelay:          5000 * time.Millisecond,
			BackoffBase:       1000 * time.Millisecond,
			MaxJitter:         1000 * time.Millisecond,
			MaxRetries:        5,
			RequestsPerMinute: 0,
			BurstSize:         1,
		},
		Pagination: PaginationConfig{
			PageSize: 12,
		},
		Output: OutputConfig{
			File:   "",
			Indent: "  ",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if baseURL := os.Getenv("IGSCRAPER_BASE_URL"); baseURL != "" {
		c.Instagram.BaseURL = baseURL
	}
	if sessionID := os.Getenv("IGSCRAPER_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if account := os.Getenv("IGSCRAPER_ACCOUNT"); account != "" {
		c.Instagram.Account = account
	}
	if userAgent := os.Getenv("IGSCRAPER_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgents = []string{userAgent}
	}

	// Rate limiting
	if rpm := os.Getenv("IGSCRAPER_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			errs = append(errs, fmt.Errorf("IGSCRAPER_REQUESTS_PER_MINUTE: %w", err))
		} else {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if retries := os.Getenv("IGSCRAPER_MAX_RETRIES"); retries != "" {
		val, err := strconv.Atoi(retries)
		if err != nil {
			errs = append(errs, fmt.Errorf("IGSCRAPER_MAX_RETRIES: %w", err))
		} else {
			c.RateLimit.MaxRetries = val
		}
	}
	if d, ok, err := envDuration("IGSCRAPER_MIN_DELAY"); err != nil {
		errs = append(errs, err)
	} else if ok {
		c.RateLimit.MinDelay = d
	}
	if d, ok, err := envDuration("IGSCRAPER_MAX_DELAY"); err != nil {
		errs = append(errs, err)
	} else if ok {
		c.RateLimit.MaxDelay = d
	}

	// Output file
	if outputFile := os.Getenv("IGSCRAPER_OUTPUT"); outputFile != "" {
		c.Output.File = outputFile
	}

	// Logging
	if logLevel := os.Getenv("IGSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("IGSCRAPER_LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	return errors.Join(errs...)
}

func envDuration(key string) (time.Duration, bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false, nil
	}
	// Bare integers are milliseconds
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, true, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return d, true, nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// FindConfigFile searches for a config file in the standard locations
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igexport.yaml",
		".igexport.yml",
		filepath.Join(home, ".config", "igexport", "config.yaml"),
		filepath.Join(home, ".igexport.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// DefaultConfigPath is where `config init` writes when no path is given
func DefaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "igexport", "config.yaml")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Instagram.BaseURL == "" {
		errs = append(errs, errors.New("instagram base URL is required"))
	} else if u, err := url.Parse(c.Instagram.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("instagram base URL %q is not an absolute URL", c.Instagram.BaseURL))
	}
	if c.Instagram.AppID == "" {
		errs = append(errs, errors.New("instagram app ID is required"))
	}
	if len(c.Instagram.UserAgents) == 0 {
		errs = append(errs, errors.New("at least one user agent is required"))
	}

	// Pacing and retry
	if c.RateLimit.MinDelay < 0 {
		errs = append(errs, errors.New("min delay cannot be negative"))
	}
	if c.RateLimit.MaxDelay < c.RateLimit.MinDelay {
		errs = append(errs, errors.New("max delay must not be less than min delay"))
	}
	if c.RateLimit.BackoffBase < 0 {
		errs = append(errs, errors.New("backoff base cannot be negative"))
	}
	if c.RateLimit.MaxJitter < 0 {
		errs = append(errs, errors.New("max jitter cannot be negative"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive when a request ceiling is set"))
	}

	if c.Pagination.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	validFormats := map[string]bool{"": true, "console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may hold a session cookie
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the user actually set should be present in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if account, ok := flags["account"].(string); ok && account != "" {
		c.Instagram.Account = account
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Output.File = output
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Instagram.BaseURL = baseURL
	}
	if retries, ok := flags["max-retries"].(int); ok && retries >= 0 {
		c.RateLimit.MaxRetries = retries
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igexport.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
