package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Error policies
const (
	PolicyAbort = "abort"
	PolicySkip  = "skip"
)

// Retry backoff shapes
const (
	BackoffExponential = "exponential"
	BackoffConstant    = "constant"
)

// Config holds all configuration options for a download run.
// It is built once by Load and not mutated afterwards.
type Config struct {
	// Seed URLs: projects or moodboards
	Behance BehanceConfig `yaml:"behance" json:"behance"`

	// Pacing and scroll budget
	Timing TimingConfig `yaml:"timing" json:"timing"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Browser settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Failure policies
	Policy PolicyConfig `yaml:"policy" json:"policy"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// set once a file, the environment or a flag chose the log level
	logLevelSet bool
}

// BehanceConfig holds the user supplied inputs
type BehanceConfig struct {
	SeedURLs []string `yaml:"seed_urls" json:"seed_urls"`
	BaseURL  string   `yaml:"base_url" json:"base_url"`
}

// TimingConfig holds the scroll budget and the politeness delays
type TimingConfig struct {
	InMoodboardTimeout    time.Duration `yaml:"in_moodboard_timeout" json:"in_moodboard_timeout"`
	BetweenProjectsDelay  time.Duration `yaml:"between_projects_delay" json:"between_projects_delay"`
	BetweenDownloadsDelay time.Duration `yaml:"between_downloads_delay" json:"between_downloads_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory  string `yaml:"directory" json:"directory"`
	FilePrefix string `yaml:"file_prefix" json:"file_prefix"`
}

// DownloadConfig holds image fetch configuration. Timeout bounds a single
// image download and 0 disables it. RetryBackoff is exponential (doubling
// from RetryDelay) or constant.
type DownloadConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	RetryAttempts int           `yaml:"retry_attempts" json:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay" json:"retry_delay"`
	RetryBackoff  string        `yaml:"retry_backoff" json:"retry_backoff"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
}

// BrowserConfig holds the render engine configuration
type BrowserConfig struct {
	Headless      bool          `yaml:"headless" json:"headless"`
	Bin           string        `yaml:"bin" json:"bin"`
	ControlURL    string        `yaml:"control_url" json:"control_url"`
	BlockImages   bool          `yaml:"block_images" json:"block_images"`
	MarkerTimeout time.Duration `yaml:"marker_timeout" json:"marker_timeout"`
}

// PolicyConfig decides what a failure does to the rest of the run
type PolicyConfig struct {
	OnMoodboardError string `yaml:"on_moodboard_error" json:"on_moodboard_error"`
	OnProjectError   string `yaml:"on_project_error" json:"on_project_error"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Behance: BehanceConfig{
			SeedURLs: []string{},
			BaseURL:  "https://www.behance.net",
		},
		Timing: TimingConfig{
			InMoodboardTimeout:    10 * time.Second,
			BetweenProjectsDelay:  1 * time.Second,
			BetweenDownloadsDelay: 1 * time.Second,
		},
		Output: OutputConfig{
			Directory:  "./downloads",
			FilePrefix: "behance_",
		},
		Download: DownloadConfig{
			Timeout:       2 * time.Minute,
			RetryAttempts: 0,
			RetryDelay:    2 * time.Second,
			RetryBackoff:  BackoffExponential,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		},
		Browser: BrowserConfig{
			Headless:      true,
			BlockImages:   true,
			MarkerTimeout: 30 * time.Second,
		},
		Policy: PolicyConfig{
			OnMoodboardError: PolicyAbort,
			OnProjectError:   PolicyAbort,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if outputDir := os.Getenv("BEHANCEDL_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	durations := map[string]*time.Duration{
		"BEHANCEDL_IN_MOODBOARD_TIMEOUT_MS":    &c.Timing.InMoodboardTimeout,
		"BEHANCEDL_BETWEEN_PROJECTS_DELAY_MS":  &c.Timing.BetweenProjectsDelay,
		"BEHANCEDL_BETWEEN_DOWNLOADS_DELAY_MS": &c.Timing.BetweenDownloadsDelay,
	}
	for key, target := range durations {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw))
			continue
		}
		*target = time.Duration(ms) * time.Millisecond
	}

	if bin := os.Getenv("BEHANCEDL_BROWSER_BIN"); bin != "" {
		c.Browser.Bin = bin
	}
	if headless := os.Getenv("BEHANCEDL_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}
	if policy := os.Getenv("BEHANCEDL_ON_PROJECT_ERROR"); policy != "" {
		c.Policy.OnProjectError = strings.ToLower(policy)
	}
	if logLevel := os.Getenv("BEHANCEDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
		c.logLevelSet = true
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
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

	var levelOnly struct {
		Logging struct {
			Level string `yaml:"level"`
		} `yaml:"logging"`
	}
	if err := yaml.Unmarshal(data, &levelOnly); err == nil && levelOnly.Logging.Level != "" {
		c.logLevelSet = true
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".behancedl.yaml",
		".behancedl.yml",
		filepath.Join(home, ".config", "behancedl", "config.yaml"),
		filepath.Join(home, ".config", "behancedl", "config.yml"),
		filepath.Join(home, ".behancedl.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// LogLevelSet reports whether Logging.Level came from a config file, the
// environment or a flag rather than from DefaultConfig.
func (c *Config) LogLevelSet() bool {
	return c.logLevelSet
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Timing.InMoodboardTimeout < 0 {
		errs = append(errs, errors.New("in-moodboard timeout cannot be negative"))
	}
	if c.Timing.BetweenProjectsDelay < 0 {
		errs = append(errs, errors.New("between-projects delay cannot be negative"))
	}
	if c.Timing.BetweenDownloadsDelay < 0 {
		errs = append(errs, errors.New("between-downloads delay cannot be negative"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Download.Timeout < 0 {
		errs = append(errs, errors.New("download timeout cannot be negative"))
	}
	if c.Download.RetryAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}
	if c.Download.RetryBackoff != BackoffExponential && c.Download.RetryBackoff != BackoffConstant {
		errs = append(errs, fmt.Errorf("invalid retry backoff %q", c.Download.RetryBackoff))
	}
	if c.Browser.MarkerTimeout <= 0 {
		errs = append(errs, errors.New("marker timeout must be positive"))
	}

	validPolicies := map[string]bool{PolicyAbort: true, PolicySkip: true}
	if !validPolicies[c.Policy.OnMoodboardError] {
		errs = append(errs, fmt.Errorf("invalid moodboard error policy %q", c.Policy.OnMoodboardError))
	}
	if !validPolicies[c.Policy.OnProjectError] {
		errs = append(errs, fmt.Errorf("invalid project error policy %q", c.Policy.OnProjectError))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
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

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if seeds, ok := flags["seed-urls"].([]string); ok && len(seeds) > 0 {
		c.Behance.SeedURLs = append([]string(nil), seeds...)
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if d, ok := flags["in-moodboard-timeout"].(time.Duration); ok && d >= 0 {
		c.Timing.InMoodboardTimeout = d
	}
	if d, ok := flags["between-projects-delay"].(time.Duration); ok && d >= 0 {
		c.Timing.BetweenProjectsDelay = d
	}
	if d, ok := flags["between-downloads-delay"].(time.Duration); ok && d >= 0 {
		c.Timing.BetweenDownloadsDelay = d
	}
	if retries, ok := flags["retry-attempts"].(int); ok && retries >= 0 {
		c.Download.RetryAttempts = retries
	}
	if d, ok := flags["download-timeout"].(time.Duration); ok && d >= 0 {
		c.Download.Timeout = d
	}
	if policy, ok := flags["on-error"].(string); ok && policy != "" {
		c.Policy.OnProjectError = policy
		c.Policy.OnMoodboardError = policy
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if bin, ok := flags["browser-bin"].(string); ok && bin != "" {
		c.Browser.Bin = bin
	}
	if controlURL, ok := flags["control-url"].(string); ok && controlURL != "" {
		c.Browser.ControlURL = controlURL
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
		c.logLevelSet = true
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".behancedl.env"))

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
