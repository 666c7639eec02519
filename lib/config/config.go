// Package config loads the YAML configuration of the lieutenant server.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/pthm/lieutenant"
	"github.com/pthm/lieutenant/lib/fetch"
)

// Config is the complete server configuration.
type Config struct {
	Server     ServerConfig          `yaml:"server"`
	Errors     ErrorsConfig          `yaml:"errors"`
	Fetch      FetchConfig           `yaml:"fetch"`
	Loading    lieutenant.Dimensions `yaml:"loading"`
	Logging    LoggingConfig         `yaml:"logging"`
	Components []ComponentConfig     `yaml:"components"`

	// LoadedFrom is the file the configuration was read from.
	LoadedFrom string `yaml:"-"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	Key    string `yaml:"key"`
	KeyEnv string `yaml:"key_env"`
	Path   string `yaml:"path"`
	Assets string `yaml:"assets"`
	Title  string `yaml:"title"`
}

// ErrorsConfig controls the error display.
type ErrorsConfig struct {
	Message      string `yaml:"message"`
	ExposeReason bool   `yaml:"expose_reason"`
}

// FetchConfig contains resource fetch settings.
type FetchConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ComponentConfig is one component placed on the index page.
type ComponentConfig struct {
	Element string                `yaml:"element"`
	Text    string                `yaml:"text"`
	Styles  string                `yaml:"styles"`
	Content string                `yaml:"content"`
	Form    string                `yaml:"form"`
	Data    string                `yaml:"data"`
	Loading lieutenant.Dimensions `yaml:"loading"`
}

// Attributes returns the instance attributes of the component.
func (c ComponentConfig) Attributes() lieutenant.Attributes {
	return lieutenant.Attributes{
		Text:    c.Text,
		Styles:  c.Styles,
		Content: c.Content,
		Form:    c.Form,
		Data:    c.Data,
		Loading: c.Loading,
	}
}

// Default returns the configuration used for unset fields.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:  ":8080",
			Path:  "/_lut/",
			Title: "lieutenant",
		},
		Errors: ErrorsConfig{
			Message: lieutenant.DefaultErrorMessage,
		},
		Fetch: FetchConfig{
			Timeout:   fetch.DefaultTimeout,
			UserAgent: "lieutenant",
		},
		Loading: lieutenant.DefaultLoading,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. A key_env setting fills an
// empty key from the environment.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.LoadedFrom = filename
	return cfg, nil
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Server.Key == "" && cfg.Server.KeyEnv != "" {
		cfg.Server.Key = os.Getenv(cfg.Server.KeyEnv)
	}
	return cfg, nil
}

// Validate checks the configuration. known lists the element names
// components may use; unknown names get a suggestion. All problems are
// reported together.
func (c *Config) Validate(known []string) error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.Key == "" {
		errs = append(errs, errors.New("server.key (or server.key_env) is required"))
	}
	if !strings.HasPrefix(c.Server.Path, "/") || !strings.HasSuffix(c.Server.Path, "/") {
		errs = append(errs, fmt.Errorf("server.path %q must start and end with /", c.Server.Path))
	}
	if c.Fetch.BaseURL != "" {
		if u, err := url.Parse(c.Fetch.BaseURL); err != nil || !u.IsAbs() {
			errs = append(errs, fmt.Errorf("fetch.base_url %q must be an absolute URL", c.Fetch.BaseURL))
		}
	}
	if c.Fetch.Timeout < 0 {
		errs = append(errs, errors.New("fetch.timeout must not be negative"))
	}
	if !c.Loading.Positive() {
		errs = append(errs, fmt.Errorf("loading must be positive, got %gx%g", c.Loading.Height, c.Loading.Width))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	for i, comp := range c.Components {
		if !contains(known, comp.Element) {
			msg := fmt.Sprintf("components[%d]: unknown element %q", i, comp.Element)
			if s := lieutenant.Suggest(comp.Element, known); len(s) > 0 {
				msg += fmt.Sprintf(" (did you mean %q?)", s[0])
			}
			errs = append(errs, errors.New(msg))
			continue
		}
		attrs := comp.Attributes()
		if attrs.Loading.IsZero() {
			attrs.Loading = c.Loading
		}
		if err := attrs.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("components[%d] (%s): %w", i, comp.Element, err))
		}
	}

	return errors.Join(errs...)
}

// Logger builds the zap logger described by the logging section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// FetchClient builds the resource fetcher described by the fetch section.
func (c *Config) FetchClient() (*fetch.Client, error) {
	opts := []fetch.Option{
		fetch.WithHTTPClient(&http.Client{Timeout: c.Fetch.Timeout}),
		fetch.WithUserAgent(c.Fetch.UserAgent),
	}
	if c.Fetch.BaseURL != "" {
		base, err := url.Parse(c.Fetch.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("fetch.base_url: %w", err)
		}
		opts = append(opts, fetch.WithBaseURL(base))
	}
	return fetch.New(opts...), nil
}

// Options returns the registry options described by the configuration.
func (c *Config) Options(log *zap.Logger, f lieutenant.ResourceFetcher) []lieutenant.Option {
	return []lieutenant.Option{
		lieutenant.WithLogger(log),
		lieutenant.WithFetcher(f),
		lieutenant.WithErrorMessage(c.Errors.Message),
		lieutenant.WithExposeReason(c.Errors.ExposeReason),
		lieutenant.WithLoading(c.Loading),
		lieutenant.WithPath(c.Server.Path),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
