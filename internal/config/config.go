// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/restock-tracker/internal/retailer"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Trigger       TriggerConfig       `yaml:"trigger"`
	Pacing        PacingConfig        `yaml:"pacing"`
	Locations     []string            `yaml:"locations"     validate:"dive,required"`
	Vendors       []VendorConfig      `yaml:"vendors"       validate:"unique=Name,dive"`
	Feed          FeedConfig          `yaml:"feed"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"          validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ScheduleConfig defines cron intervals. Unset intervals take the defaults.
type ScheduleConfig struct {
	SweepInterval    time.Duration `yaml:"sweep_interval"     validate:"min=0"`
	FeedScanInterval time.Duration `yaml:"feed_scan_interval" validate:"min=0"`
	// SweepTimeout bounds every sweep or feed scan, scheduled or triggered.
	SweepTimeout time.Duration `yaml:"sweep_timeout" validate:"min=0"`
	// Disabled turns the cron schedule off; runs are then trigger-only.
	Disabled bool `yaml:"disabled"`
}

// TriggerConfig guards the HTTP trigger endpoints.
type TriggerConfig struct {
	// Secret, when set, must be presented as a bearer token.
	Secret string `yaml:"secret"`
}

// PacingConfig defines the delays between steps of a pass.
type PacingConfig struct {
	Notify   time.Duration `yaml:"notify"`
	Location time.Duration `yaml:"location"`
	Entry    time.Duration `yaml:"entry"`
	Item     time.Duration `yaml:"item"`
	Page     time.Duration `yaml:"page"`
}

// VendorConfig defines one tracked vendor.
type VendorConfig struct {
	Name string `yaml:"name" validate:"required"`
	// Kind selects the response format. When empty it is derived from the
	// vendor name, falling back to generic.
	Kind                string            `yaml:"kind"                 validate:"omitempty,vendor_kind"`
	Method              string            `yaml:"method"               validate:"omitempty,oneof=GET POST"`
	URL                 string            `yaml:"url"                  validate:"omitempty,url"`
	Headers             map[string]string `yaml:"headers"`
	APIKey              string            `yaml:"api_key"`
	Timeout             time.Duration     `yaml:"timeout"              validate:"min=0"`
	LocationIndependent bool              `yaml:"location_independent"`
	Locations           []string          `yaml:"locations"            validate:"dive,required"`
	Entries             []EntryConfig     `yaml:"entries"              validate:"unique=ID,dive"`
	RateLimit           *RateLimitConfig  `yaml:"rate_limit"`
}

// EntryConfig is one catalog entry of a vendor.
type EntryConfig struct {
	ID   string `yaml:"id"   validate:"required"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"  validate:"omitempty,url"`
}

// RateLimitConfig defines per-vendor request rate limiting.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"  validate:"min=0"`
	Burst      int     `yaml:"burst"       validate:"min=0"`
	DailyLimit int     `yaml:"daily_limit" validate:"min=0"`
}

// FeedConfig defines the listing feed session and trackers.
type FeedConfig struct {
	ListingURL     string          `yaml:"listing_url"     validate:"omitempty,url"`
	Cookie         string          `yaml:"cookie"`
	AcceptLanguage string          `yaml:"accept_language"`
	UserAgent      string          `yaml:"user_agent"`
	TrackerID      string          `yaml:"tracker_id"`
	Timeout        time.Duration   `yaml:"timeout"         validate:"min=0"`
	Trackers       []TrackerConfig `yaml:"trackers"        validate:"dive"`
}

// TrackerConfig is one listing query scanned for offers.
type TrackerConfig struct {
	Slug              string          `yaml:"slug"               validate:"required"`
	Label             string          `yaml:"label"`
	BucketID          string          `yaml:"bucket_id"`
	Type              string          `yaml:"type"`
	Pages             []int           `yaml:"pages"              validate:"dive,min=1"`
	BrandWhitelist    []string        `yaml:"brand_whitelist"`
	CategoryWhitelist []string        `yaml:"category_whitelist"`
	Products          []ProductConfig `yaml:"products"           validate:"dive"`
}

// ProductConfig is a product matched against listing items.
type ProductConfig struct {
	Name     string   `yaml:"name"     validate:"required"`
	Matchers []string `yaml:"matchers"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Telegram      TelegramConfig `yaml:"telegram"`
	QuickCommerce TelegramConfig `yaml:"quick_commerce"`
	Discord       DiscordConfig  `yaml:"discord"`
}

// Enabled reports whether any alert channel is configured.
func (n NotificationsConfig) Enabled() bool {
	return n.Telegram.Configured() || n.QuickCommerce.Configured() || n.Discord.Configured()
}

// TelegramConfig defines a Telegram bot target.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	// Endpoint overrides the Bot API endpoint format, mostly for testing.
	Endpoint string `yaml:"endpoint"`
}

// Configured reports whether both the token and the chat are set.
func (t TelegramConfig) Configured() bool {
	return t.BotToken != "" && t.ChatID != 0
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url" validate:"required_if=Enabled true,omitempty,url"`
	Username   string `yaml:"username"`
}

// Configured reports whether the webhook is enabled and set.
func (d DiscordConfig) Configured() bool {
	return d.Enabled && d.WebhookURL != ""
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string        `yaml:"level"  validate:"oneof=debug info warn error"`
	Format string        `yaml:"format" validate:"oneof=text json"`
	File   LogFileConfig `yaml:"file"`
}

// LogFileConfig enables rotating file output next to stderr.
type LogFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"  validate:"min=0"`
	MaxBackups int    `yaml:"max_backups"  validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"min=0"`
	Compress   bool   `yaml:"compress"`
}

// TelemetryConfig enables OTLP trace and metric export over gRPC.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"     validate:"required_if=Enabled true,omitempty,hostname_port"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"min=0,max=1"`
	// MetricInterval is the OTLP metric push period.
	MetricInterval time.Duration `yaml:"metric_interval" validate:"min=0"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config content, then applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyScheduleDefaults(&cfg.Schedule)
	applyPacingDefaults(&cfg.Pacing)
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	for i := range cfg.Vendors {
		applyVendorDefaults(&cfg.Vendors[i])
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		// Triggered runs are synchronous and may take minutes.
		s.WriteTimeout = 15 * time.Minute
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.SweepInterval == 0 {
		s.SweepInterval = 10 * time.Minute
	}
	if s.FeedScanInterval == 0 {
		s.FeedScanInterval = 15 * time.Minute
	}
	if s.SweepTimeout == 0 {
		s.SweepTimeout = 10 * time.Minute
	}
}

func applyPacingDefaults(p *PacingConfig) {
	if p.Notify == 0 {
		p.Notify = 500 * time.Millisecond
	}
	if p.Location == 0 {
		p.Location = 500 * time.Millisecond
	}
	if p.Entry == 0 {
		p.Entry = time.Second
	}
	if p.Item == 0 {
		p.Item = 500 * time.Millisecond
	}
	if p.Page == 0 {
		p.Page = 500 * time.Millisecond
	}
}

func applyVendorDefaults(v *VendorConfig) {
	v.Method = strings.ToUpper(v.Method)
	if v.Method == "" {
		v.Method = "GET"
	}
	if v.RateLimit != nil && v.RateLimit.PerSecond > 0 && v.RateLimit.Burst == 0 {
		v.RateLimit.Burst = 1
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
	if l.File.Path != "" {
		if l.File.MaxSizeMB == 0 {
			l.File.MaxSizeMB = 50
		}
		if l.File.MaxBackups == 0 {
			l.File.MaxBackups = 3
		}
		if l.File.MaxAgeDays == 0 {
			l.File.MaxAgeDays = 28
		}
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "restock-tracker"
	}
	if t.Enabled && t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
	if t.MetricInterval == 0 {
		t.MetricInterval = 30 * time.Second
	}
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report yaml key names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("vendor_kind", validateVendorKind); err != nil {
		panic(fmt.Sprintf("registering vendor_kind validation: %v", err))
	}

	return v
}

func validateVendorKind(fl validator.FieldLevel) bool {
	_, ok := retailer.ParseKind(fl.Field().String())
	return ok
}

func validate(cfg *Config) error {
	var errs []error

	if err := newValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	for i, v := range cfg.Vendors {
		kind := retailer.KindFor(v.Name, v.Kind)
		if kind.ID() == retailer.KindGeneric && v.URL == "" {
			errs = append(errs, fmt.Errorf("vendors[%d].url is required for generic vendor %q", i, v.Name))
		}
	}

	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID == 0 {
		errs = append(errs, errors.New("notifications.telegram.chat_id is required when bot_token is set"))
	}

	return errors.Join(errs...)
}

// fieldError renders a validation failure with its yaml path, dropping
// the root struct name.
func fieldError(fe validator.FieldError) error {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "required_if":
		return fmt.Errorf("%s is required when %s", path, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s (got %q)", path, fe.Param(), fe.Value())
	case "unique":
		return fmt.Errorf("%s contains duplicate %s values", path, fe.Param())
	case "hostname_port":
		return fmt.Errorf("%s must be host:port (got %q)", path, fe.Value())
	case "vendor_kind":
		return fmt.Errorf("%s is not a known vendor kind (got %q)", path, fe.Value())
	default:
		return fmt.Errorf("%s failed %s validation", path, fe.Tag())
	}
}
