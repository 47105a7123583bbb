package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"recycleways/internal/models"
)

type DB struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	Migrations string `mapstructure:"migrations"`
}

type MinIO struct {
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl"`
	PublicURL  string `mapstructure:"public_url"`
}

type Storage struct {
	PostKey string `mapstructure:"post_key"`
	AuthKey string `mapstructure:"auth_key"`
}

type Posts struct {
	InitialStatus   models.Status `mapstructure:"initial_status"`
	PublishedStatus models.Status `mapstructure:"published_status"`
	DefaultImageURL string        `mapstructure:"default_image_url"`
	RefreshSchedule string        `mapstructure:"refresh_schedule"`
}

type Config struct {
	ServerPort          int           `mapstructure:"server_port"`
	Env                 string        `mapstructure:"app_env"`
	LogLevel            string        `mapstructure:"log_level"`
	RedisURL            string        `mapstructure:"redis_url"`
	JWTSecretKey        string        `mapstructure:"jwt_secret_key"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
	MaxUploadSize       int64         `mapstructure:"max_upload_size"`
	DB                  DB            `mapstructure:"db"`
	MinIO               MinIO         `mapstructure:"minio"`
	Storage             Storage       `mapstructure:"storage"`
	Posts               Posts         `mapstructure:"post"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", 8080)
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("redis_url", "")
	v.SetDefault("jwt_secret_key", "")
	v.SetDefault("access_token_duration", "168h")
	v.SetDefault("max_upload_size", 10*1024*1024)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "password")
	v.SetDefault("db.name", "recycleways")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.migrations", "migrations/001_create_tables.sql")

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "minioadmin")
	v.SetDefault("minio.secret_key", "minioadmin")
	v.SetDefault("minio.bucket_name", "post_image")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.public_url", "http://localhost:9000/post_image/")

	v.SetDefault("storage.post_key", "post-storage")
	v.SetDefault("storage.auth_key", "auth-storage")

	v.SetDefault("post.initial_status", string(models.StatusRequesting))
	v.SetDefault("post.published_status", string(models.StatusPublished))
	v.SetDefault("post.default_image_url", "")
	v.SetDefault("post.refresh_schedule", "")
}

// LoadConfig reads .env (when present) and the process environment. Nested
// keys map to upper-case variables with dots replaced by underscores, e.g.
// db.host -> DB_HOST and post.initial_status -> POST_INITIAL_STATUS.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if !c.Posts.InitialStatus.Valid() {
		return fmt.Errorf("unknown initial status %q", c.Posts.InitialStatus)
	}
	if c.Posts.PublishedStatus != models.StatusPublished && c.Posts.PublishedStatus != models.StatusAccepted {
		return fmt.Errorf("published status must be %s or %s, got %q",
			models.StatusPublished, models.StatusAccepted, c.Posts.PublishedStatus)
	}
	if c.Storage.PostKey == "" || c.Storage.AuthKey == "" {
		return errors.New("storage keys must not be empty")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func (db DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode,
	)
}
