package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	Upload        UploadConfig        `mapstructure:"upload"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source" validate:"required"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret" validate:"required,min=32"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret" validate:"required,min=32"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m,max=24h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=4,max=15"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

type NotificationConfig struct {
	Driver    string     `mapstructure:"driver" validate:"required,oneof=log smtp amqp"`
	From      string     `mapstructure:"from" validate:"required,email"`
	Workers   int        `mapstructure:"workers" validate:"min=1,max=64"`
	QueueSize int        `mapstructure:"queue_size" validate:"min=1"`
	SMTP      SMTPConfig `mapstructure:"smtp"`
	AMQP      AMQPConfig `mapstructure:"amqp"`
}

type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	TLS      bool          `mapstructure:"tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AMQPConfig struct {
	URL           string        `mapstructure:"url"`
	Exchange      string        `mapstructure:"exchange"`
	Queue         string        `mapstructure:"queue"`
	RoutingKey    string        `mapstructure:"routing_key"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

type UploadConfig struct {
	Dir          string `mapstructure:"dir" validate:"required"`
	PublicPath   string `mapstructure:"public_path" validate:"required,startswith=/"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes" validate:"required,min=1"`
}

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds the configuration from plain environment variables for container deployments.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			AccessTokenSecret:    getEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret:   getEnv("REFRESH_TOKEN_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
		Notification: NotificationConfig{
			Driver:    getEnv("NOTIFICATION_DRIVER", "log"),
			From:      getEnv("NOTIFICATION_FROM", "no-reply@recruitment.local"),
			Workers:   getEnvAsInt("NOTIFICATION_WORKERS", 4),
			QueueSize: getEnvAsInt("NOTIFICATION_QUEUE_SIZE", 256),
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnvAsInt("SMTP_PORT", 587),
				Username: getEnv("SMTP_USERNAME", ""),
				Password: getEnv("SMTP_PASSWORD", ""),
				TLS:      getEnvAsBool("SMTP_TLS", true),
				Timeout:  getEnvAsDuration("SMTP_TIMEOUT", 10*time.Second),
			},
			AMQP: AMQPConfig{
				URL:           getEnv("AMQP_URL", ""),
				Exchange:      getEnv("AMQP_EXCHANGE", "recruitment.notifications"),
				Queue:         getEnv("AMQP_QUEUE", "notifications.email"),
				RoutingKey:    getEnv("AMQP_ROUTING_KEY", "email"),
				RetryAttempts: getEnvAsInt("AMQP_RETRY_ATTEMPTS", 5),
				RetryInterval: getEnvAsDuration("AMQP_RETRY_INTERVAL", 2*time.Second),
			},
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "public/uploads/resumes"),
			PublicPath:   getEnv("UPLOAD_PUBLIC_PATH", "/uploads/resumes"),
			MaxSizeBytes: int64(getEnvAsInt("UPLOAD_MAX_SIZE_BYTES", 5<<20)),
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

var configValidator = validator.New()

func (c *Config) Validate() error {
	var errs []string

	if err := configValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Notification.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("notification config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	for _, origin := range c.Origins() {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid allowed origin %q", origin)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits the comma separated allowed_origins setting.
func (c *ServerConfig) Origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.RefreshTokenDuration <= c.AccessTokenDuration {
		return errors.New("refresh_token_duration must be longer than access_token_duration")
	}
	return nil
}

func (c *NotificationConfig) Validate() error {
	switch c.Driver {
	case "smtp":
		if c.SMTP.Host == "" || c.SMTP.Port == 0 {
			return errors.New("smtp driver requires smtp.host and smtp.port")
		}
	case "amqp":
		if c.AMQP.URL == "" || c.AMQP.Exchange == "" || c.AMQP.Queue == "" {
			return errors.New("amqp driver requires amqp.url, amqp.exchange and amqp.queue")
		}
	}
	return nil
}
