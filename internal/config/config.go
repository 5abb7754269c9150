package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type MediaConfig struct {
	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
	PublicBase  string `yaml:"public_base"`
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	OpsChatID int64  `yaml:"ops_chat_id"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	RefreshSecret    string `yaml:"refresh_secret"`
	AdminSecret      string `yaml:"admin_secret"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
	RefreshTTLDays   int    `yaml:"refresh_ttl_days"`
}

func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTTLMinutes) * time.Minute
}

func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTTLDays) * 24 * time.Hour
}

type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Env  string `yaml:"env"` // "development" | "production"
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	FrontendURL string         `yaml:"frontend_url"`
	Auth        AuthConfig     `yaml:"auth"`
	Email       EmailConfig    `yaml:"email"`
	Media       MediaConfig    `yaml:"media"`
	Telegram    TelegramConfig `yaml:"telegram"`
	Files       struct {
		RootDir string `yaml:"root_dir"`
	} `yaml:"files"`
}

// LoadConfig reads config/config.yaml (or CONFIG_PATH) and applies env-var
// overrides for everything secret, so the yaml file can be committed without
// credentials.
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	var cfg Config
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Auth.AccessTTLMinutes == 0 {
		cfg.Auth.AccessTTLMinutes = 60
	}
	if cfg.Auth.RefreshTTLDays == 0 {
		cfg.Auth.RefreshTTLDays = 7
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Database.DSN, "DATABASE_URL")
	overrideString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.Auth.RefreshSecret, "REFRESH_SECRET")
	overrideString(&cfg.Auth.AdminSecret, "ADMIN_SECRET")
	overrideString(&cfg.FrontendURL, "FRONTEND_URL")
	overrideString(&cfg.Server.Env, "APP_ENV")
	overrideString(&cfg.Email.SMTPHost, "SMTP_HOST")
	overrideString(&cfg.Email.SMTPUser, "SMTP_USER")
	overrideString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	overrideString(&cfg.Email.FromEmail, "SMTP_FROM")
	overrideString(&cfg.Media.S3Bucket, "S3_BUCKET")
	overrideString(&cfg.Media.S3Region, "S3_REGION")
	overrideString(&cfg.Media.S3Endpoint, "S3_ENDPOINT")
	overrideString(&cfg.Media.S3AccessKey, "S3_ACCESS_KEY")
	overrideString(&cfg.Media.S3SecretKey, "S3_SECRET_KEY")
	overrideString(&cfg.Media.PublicBase, "MEDIA_PUBLIC_BASE")
	overrideString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = p
		}
	}
	if v := os.Getenv("TELEGRAM_OPS_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.OpsChatID = id
		}
	}
}

func overrideString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
