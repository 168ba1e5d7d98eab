package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix - prefix of environment overrides, e.g. BDD_BROWSER_ENGINE
const EnvPrefix = "BDD"

// Supported browser engines
const (
	EnginePlaywright = "playwright"
	EngineSelenium   = "selenium"
)

// Config is the root configuration tree
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	Browser     BrowserConfig     `mapstructure:"browser"`
	Interaction InteractionConfig `mapstructure:"interaction"`
	Runner      RunnerConfig      `mapstructure:"runner"`
	Git         GitConfig         `mapstructure:"git"`
	Storage     StorageConfig     `mapstructure:"storage"`
}

// LoggerConfig controls log level, format and the optional rotating file
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// BrowserConfig holds launch settings for both engines
type BrowserConfig struct {
	Engine            string        `mapstructure:"engine"`
	Headless          bool          `mapstructure:"headless"`
	SlowMoMs          float64       `mapstructure:"slow_mo_ms"`
	ViewportWidth     int           `mapstructure:"viewport_width"`
	ViewportHeight    int           `mapstructure:"viewport_height"`
	BaseURL           string        `mapstructure:"base_url"`
	IgnoreHTTPSErrors bool          `mapstructure:"ignore_https_errors"`
	ActionTimeout     time.Duration `mapstructure:"action_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	ScreenshotDir     string        `mapstructure:"screenshot_dir"`
	Args              []string      `mapstructure:"args"`
	// selenium only
	DriverPath   string `mapstructure:"driver_path"`
	ChromeBinary string `mapstructure:"chrome_binary"`
	DriverPort   int    `mapstructure:"driver_port"`
}

// InteractionConfig tunes the click resolver and dropdown selector
type InteractionConfig struct {
	MaxAttempts                int           `mapstructure:"max_attempts"`
	RoundDelay                 time.Duration `mapstructure:"round_delay"`
	StrategyTimeout            time.Duration `mapstructure:"strategy_timeout"`
	PollInterval               time.Duration `mapstructure:"poll_interval"`
	DropdownOpenTimeout        time.Duration `mapstructure:"dropdown_open_timeout"`
	DropdownCloseTimeout       time.Duration `mapstructure:"dropdown_close_timeout"`
	DropdownContainerSelectors string        `mapstructure:"dropdown_container_selectors"`
	DropdownOptionSelector     string        `mapstructure:"dropdown_option_selector"`
	CoordinateFallback         bool          `mapstructure:"coordinate_fallback"`
}

// RunnerConfig controls how feature files are executed out of process
type RunnerConfig struct {
	Command     string        `mapstructure:"command"`
	FeaturesDir string        `mapstructure:"features_dir"`
	Tags        string        `mapstructure:"tags"`
	Format      string        `mapstructure:"format"`
	Parallel    int           `mapstructure:"parallel"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Strict      bool          `mapstructure:"strict"`
}

// GitConfig points at the repository holding the features
type GitConfig struct {
	RepoPath string `mapstructure:"repo_path"`
	LogLimit int    `mapstructure:"log_limit"`
}

// StorageConfig locates persisted run summaries
type StorageConfig struct {
	Dir          string `mapstructure:"dir"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

// SetDefaults - registers every key with its default so env overrides are picked up on Unmarshal
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 14)

	v.SetDefault("browser.engine", EnginePlaywright)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo_ms", 0)
	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 720)
	v.SetDefault("browser.base_url", "")
	v.SetDefault("browser.ignore_https_errors", true)
	v.SetDefault("browser.action_timeout", 5*time.Second)
	v.SetDefault("browser.navigation_timeout", 30*time.Second)
	v.SetDefault("browser.screenshot_dir", "screenshots")
	v.SetDefault("browser.args", []string{"--disable-dev-shm-usage", "--no-sandbox"})
	v.SetDefault("browser.driver_path", "")
	v.SetDefault("browser.chrome_binary", "")
	v.SetDefault("browser.driver_port", 9515)

	v.SetDefault("interaction.max_attempts", 5)
	v.SetDefault("interaction.round_delay", 500*time.Millisecond)
	v.SetDefault("interaction.strategy_timeout", 2*time.Second)
	v.SetDefault("interaction.poll_interval", 100*time.Millisecond)
	v.SetDefault("interaction.dropdown_open_timeout", 5*time.Second)
	v.SetDefault("interaction.dropdown_close_timeout", 2*time.Second)
	v.SetDefault("interaction.dropdown_container_selectors", "")
	v.SetDefault("interaction.dropdown_option_selector", "")
	v.SetDefault("interaction.coordinate_fallback", false)

	// empty runs this binary again
	v.SetDefault("runner.command", "")
	v.SetDefault("runner.features_dir", "features")
	v.SetDefault("runner.tags", "")
	v.SetDefault("runner.format", "pretty")
	v.SetDefault("runner.parallel", 2)
	v.SetDefault("runner.timeout", 10*time.Minute)
	v.SetDefault("runner.strict", true)

	v.SetDefault("git.repo_path", ".")
	v.SetDefault("git.log_limit", 20)

	v.SetDefault("storage.dir", ".bdd")
	v.SetDefault("storage.history_limit", 50)
}

// Load - reads .env, the optional config file and BDD_* environment overrides
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// legacy driver variables
	_ = v.BindEnv("browser.driver_path", "BDD_BROWSER_DRIVER_PATH", "BROWSER_DRIVER_PATH")
	_ = v.BindEnv("browser.chrome_binary", "BDD_BROWSER_CHROME_BINARY", "CHROME_BINARY_PATH")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper - unmarshals and validates an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate - rejects settings the components cannot work with
func (c *Config) Validate() error {
	var errs []error
	switch c.Browser.Engine {
	case EnginePlaywright, EngineSelenium:
	default:
		errs = append(errs, fmt.Errorf("browser.engine must be %q or %q, got %q", EnginePlaywright, EngineSelenium, c.Browser.Engine))
	}
	switch c.Logger.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logger.format must be text or json, got %q", c.Logger.Format))
	}
	if c.Interaction.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("interaction.max_attempts must be at least 1"))
	}
	if c.Runner.Parallel < 1 {
		errs = append(errs, fmt.Errorf("runner.parallel must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
