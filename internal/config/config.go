package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host                   string `yaml:"host"`
		Port                   int    `yaml:"port"`
		Env                    string `yaml:"env"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, mysql, sqlite
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Notifications struct {
		ReviewerUserID        uint `yaml:"reviewer_user_id"`
		StreamIntervalSeconds int  `yaml:"stream_interval"`
		StreamBatch           int  `yaml:"stream_batch"`
	} `yaml:"notifications"`

	Seed struct {
		ReviewerName     string `yaml:"reviewer_name"`
		ReviewerEmail    string `yaml:"reviewer_email"`
		ReviewerPassword string `yaml:"reviewer_password"`
	} `yaml:"seed"`
}

var AppConfig *Config

// Default returns a config that runs locally against a sqlite file.
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.ShutdownTimeoutSeconds = 10

	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "community_issues.db"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5

	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "no-reply@lgu.gov.ph"
	cfg.Email.FromName = "Community Issue Reporting"

	cfg.JWT.Secret = "change-me"
	cfg.JWT.TTL = 60 * 24

	cfg.Notifications.ReviewerUserID = 1
	cfg.Notifications.StreamIntervalSeconds = 3
	cfg.Notifications.StreamBatch = 100

	cfg.Seed.ReviewerName = "Admin User"
	cfg.Seed.ReviewerEmail = "admin@example.com"

	return &cfg
}

// Load reads the YAML file at path (a missing file is not an error), then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads from CONFIG_PATH (default config/config.yaml) into AppConfig.
func LoadConfig() error {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func GetConfig() *Config {
	if AppConfig == nil {
		if err := LoadConfig(); err != nil {
			AppConfig = Default()
		}
	}
	return AppConfig
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database url is required")
	}
	if c.Notifications.StreamIntervalSeconds <= 0 {
		return fmt.Errorf("notifications.stream_interval must be positive")
	}
	if c.Notifications.StreamBatch <= 0 {
		return fmt.Errorf("notifications.stream_batch must be positive")
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) StreamInterval() time.Duration {
	return time.Duration(c.Notifications.StreamIntervalSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("SERVER_HOST", &cfg.Server.Host)
	setString("SERVER_ENV", &cfg.Server.Env)
	setString("DATABASE_DRIVER", &cfg.Database.Driver)
	setString("DATABASE_URL", &cfg.Database.DSN)
	setString("JWT_SECRET", &cfg.JWT.Secret)
	setString("SMTP_HOST", &cfg.Email.SMTPHost)
	setString("SMTP_USER", &cfg.Email.SMTPUser)
	setString("SMTP_PASSWORD", &cfg.Email.SMTPPassword)
	setString("SMTP_FROM", &cfg.Email.FromEmail)
	setString("SEED_REVIEWER_PASSWORD", &cfg.Seed.ReviewerPassword)

	if err := setInt("SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if err := setInt("SMTP_PORT", &cfg.Email.SMTPPort); err != nil {
		return err
	}

	reviewer := int(cfg.Notifications.ReviewerUserID)
	if err := setInt("REVIEWER_USER_ID", &reviewer); err != nil {
		return err
	}
	if reviewer < 0 {
		return fmt.Errorf("invalid REVIEWER_USER_ID: must not be negative")
	}
	cfg.Notifications.ReviewerUserID = uint(reviewer)

	return nil
}
