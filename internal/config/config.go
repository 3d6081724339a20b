package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Storage       StorageConfig
	Tracing       TracingConfig `mapstructure:"tracing"`
	Redis         RedisConfig
	Mock          MockConfig          `mapstructure:"mock"`
	Email         EmailConfig         `mapstructure:"email"`
	Survey        SurveyConfig        `mapstructure:"survey"`
	CORS          CORSConfig          `mapstructure:"cors"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Templates     TemplatesConfig     `mapstructure:"templates"`
	Notifications NotificationsConfig `mapstructure:"notifications"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool   `mapstructure:"-"`
	MigrateOnly  bool   `mapstructure:"-"`
	ConfigDir    string `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// DatabaseConfig Driver 可选 memory / mysql / postgres / sqlite
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	SSLMode   string `mapstructure:"sslmode"`
	Path      string
	// 空库时写入演示数据
	SeedDemo bool `mapstructure:"seed_demo"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	// 结果缓存有效期（秒）
	ResultsTTL int `mapstructure:"results_ttl"`
}

// MockConfig 内存数据源的模拟延迟（毫秒）
type MockConfig struct {
	FetchDelay    int `mapstructure:"fetch_delay_ms"`
	MutateDelay   int `mapstructure:"mutate_delay_ms"`
	TemplateDelay int `mapstructure:"template_delay_ms"`
}

type EmailConfig struct {
	Provider     string `mapstructure:"provider"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
	ReplyTo      string `mapstructure:"reply_to"`
	BaseURL      string `mapstructure:"base_url"`
}

type SurveyConfig struct {
	AutoCloseCron    string `mapstructure:"auto_close_cron"`
	SessionTTL       int    `mapstructure:"session_ttl_minutes"`
	SessionSweepCron string `mapstructure:"session_sweep_cron"`
	OverdueDays      int    `mapstructure:"overdue_days"`
}

type TemplatesConfig struct {
	Path string `mapstructure:"path"`
}

type NotificationsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (c MockConfig) FetchLatency() time.Duration {
	return time.Duration(c.FetchDelay) * time.Millisecond
}

func (c MockConfig) MutateLatency() time.Duration {
	return time.Duration(c.MutateDelay) * time.Millisecond
}

func (c MockConfig) TemplateLatency() time.Duration {
	return time.Duration(c.TemplateDelay) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "audit_survey.db")
	v.SetDefault("database.seed_demo", true)
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "exports")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.results_ttl", 60)
	v.SetDefault("mock.fetch_delay_ms", 1000)
	v.SetDefault("mock.mutate_delay_ms", 2000)
	v.SetDefault("mock.template_delay_ms", 500)
	v.SetDefault("email.provider", "log")
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("email.from", "Audit Survey <onboarding@resend.dev>")
	v.SetDefault("survey.auto_close_cron", "*/5 * * * *")
	v.SetDefault("survey.session_ttl_minutes", 30)
	v.SetDefault("survey.session_sweep_cron", "@every 1m")
	v.SetDefault("survey.overdue_days", 7)
	v.SetDefault("rate_limit.max_requests", 6000)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	// .env 可选，不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("AUDIT_SURVEY")
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "SERVER_PORT")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Email
	v.BindEnv("email.provider", "EMAIL_PROVIDER")
	v.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	v.BindEnv("email.from", "RESEND_FROM_EMAIL")
	v.BindEnv("email.reply_to", "RESEND_REPLY_TO")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.ConfigDir = path

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	switch cfg.Database.Driver {
	case "memory", "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
