// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// PricingConfig tunes the price resolver. A zero FallbackRatePerHour makes an
// uncovered slot a configuration error instead of a priced anomaly.
type PricingConfig struct {
	FallbackRatePerHour int64 `yaml:"fallback_rate_per_hour"`
	RoundingUnit        int64 `yaml:"rounding_unit"`
}

// ScheduleConfig shapes the weekly board.
type ScheduleConfig struct {
	StartHour   int `yaml:"start_hour"`
	EndHour     int `yaml:"end_hour"`
	SlotMinutes int `yaml:"slot_minutes"`
}

type JobsConfig struct {
	CatalogAuditCron string `yaml:"catalog_audit_cron"`
	ReminderCron     string `yaml:"reminder_cron"`
}

// EmailConfig selects SES delivery. An empty sender leaves mail off outside
// development, where messages are logged instead.
type EmailConfig struct {
	Region  string `yaml:"region"`
	Sender  string `yaml:"sender"`
	ReplyTo string `yaml:"reply_to"`
}

// GuestLimitsConfig throttles anonymous bookings per phone number and IP.
type GuestLimitsConfig struct {
	MaxPerHour   int           `yaml:"max_per_hour"`
	MaxIPPerHour int           `yaml:"max_ip_per_hour"`
	Cooldown     time.Duration `yaml:"cooldown"`
	// TrustProxy reads the client IP from X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		Timezone    string `yaml:"timezone"`
		PhoneRegion string `yaml:"phone_region"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database    DatabaseConfig    `yaml:"database"`
	Pricing     PricingConfig     `yaml:"pricing"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Jobs        JobsConfig        `yaml:"jobs"`
	Email       EmailConfig       `yaml:"email"`
	GuestLimits GuestLimitsConfig `yaml:"guest_limits"`

	Clerk struct {
		SecretKey string `yaml:"-"` // Loaded from environment
	} `yaml:"-"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Clerk.SecretKey = os.Getenv("CLERK_SECRET_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults without validating.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used for any key the YAML file omits.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "courtside"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.PhoneRegion = "TH"
	cfg.Database = DatabaseConfig{Driver: "sqlite", Filename: "data/courtside.db"}
	cfg.Pricing = PricingConfig{RoundingUnit: 100}
	cfg.Schedule = ScheduleConfig{StartHour: 6, EndHour: 24, SlotMinutes: 30}
	cfg.Jobs = JobsConfig{CatalogAuditCron: "0 3 * * *", ReminderCron: "0 18 * * *"}
	cfg.GuestLimits = GuestLimitsConfig{MaxPerHour: 3, MaxIPPerHour: 10, Cooldown: time.Minute}
	return cfg
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.App.Timezone != "" {
		if _, err := time.LoadLocation(c.App.Timezone); err != nil {
			return fmt.Errorf("app timezone: %w", err)
		}
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}

	if c.Pricing.FallbackRatePerHour < 0 {
		return fmt.Errorf("pricing fallback_rate_per_hour must not be negative")
	}
	if c.Pricing.RoundingUnit <= 0 {
		return fmt.Errorf("pricing rounding_unit must be positive")
	}

	s := c.Schedule
	if s.StartHour < 0 || s.EndHour > 24 || s.StartHour >= s.EndHour {
		return fmt.Errorf("schedule hours must satisfy 0 <= start_hour < end_hour <= 24")
	}
	if s.SlotMinutes <= 0 || 60%s.SlotMinutes != 0 {
		return fmt.Errorf("schedule slot_minutes must divide an hour")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for name, spec := range map[string]string{
		"catalog_audit_cron": c.Jobs.CatalogAuditCron,
		"reminder_cron":      c.Jobs.ReminderCron,
	} {
		if spec == "" {
			continue
		}
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("jobs %s: %w", name, err)
		}
	}

	if c.GuestLimits.MaxPerHour < 0 || c.GuestLimits.MaxIPPerHour < 0 || c.GuestLimits.Cooldown < 0 {
		return fmt.Errorf("guest_limits must not be negative")
	}

	return nil
}

// IsDevelopment reports whether the app runs with developer conveniences.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
