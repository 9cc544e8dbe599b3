package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIServerConfig holds configuration specific to the HTTP API server.
type APIServerConfig struct {
	Host           string        `mapstructure:"HOST"`
	Port           string        `mapstructure:"PORT"`
	ReadTimeout    time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"WRITE_TIMEOUT"`
	MaxHeaderBytes int           `mapstructure:"MAX_HEADER_BYTES"`
	CORS           CORSConfig    `mapstructure:"CORS"`
}

// CORSConfig holds configuration for CORS.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `mapstructure:"ALLOWED_METHODS"`
	AllowedHeaders   []string `mapstructure:"ALLOWED_HEADERS"`
	ExposedHeaders   []string `mapstructure:"EXPOSED_HEADERS"`
	AllowCredentials bool     `mapstructure:"ALLOW_CREDENTIALS"`
	MaxAge           int      `mapstructure:"MAX_AGE"`
}

// DatabaseConfig holds configuration for the database.
type DatabaseConfig struct {
	Type     string `mapstructure:"TYPE"`
	Host     string `mapstructure:"HOST"`
	Port     int    `mapstructure:"PORT"`
	User     string `mapstructure:"USER"`
	Password string `mapstructure:"PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"SSL_MODE"`
}

// AuthConfig holds configuration for authentication (e.g., JWT).
type AuthConfig struct {
	JWTSecretKey string        `mapstructure:"JWT_SECRET_KEY"`
	JWTExpiry    time.Duration `mapstructure:"JWT_EXPIRY"`
	// ActivationTokenTTL bounds how long an emailed account
	// confirmation token stays redeemable.
	ActivationTokenTTL time.Duration `mapstructure:"ACTIVATION_TOKEN_TTL"`
}

// RedisConfig holds configuration for Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"ADDR"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
}

// KafkaConfig holds configuration for Kafka.
type KafkaConfig struct {
	Brokers              []string `mapstructure:"BROKERS"`
	ClientID             string   `mapstructure:"CLIENT_ID"`
	Protocol             string   `mapstructure:"PROTOCOL"`
	ActivationEmailTopic string   `mapstructure:"ACTIVATION_EMAIL_TOPIC"`
	ConsumerGroup        string   `mapstructure:"CONSUMER_GROUP"`
}

// EmailConfig holds configuration for the activation-email backends.
type EmailConfig struct {
	// Backend selects the delivery backend: "console" or "smtp".
	Backend  string `mapstructure:"BACKEND"`
	Host     string `mapstructure:"HOST"`
	Port     int    `mapstructure:"PORT"`
	Username string `mapstructure:"USERNAME"`
	Password string `mapstructure:"PASSWORD"`
	From     string `mapstructure:"FROM"`
	// ConfirmBaseURL is the public prefix the confirmation link is
	// built from, e.g. https://example.com/auth/confirm.
	ConfirmBaseURL string `mapstructure:"CONFIRM_BASE_URL"`
}

// Config holds all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName    string          `mapstructure:"APP_NAME"`
	AppVersion string          `mapstructure:"APP_VERSION"`
	APIServer  APIServerConfig `mapstructure:"API_SERVER"`
	Database   DatabaseConfig  `mapstructure:"DATABASE"`
	Auth       AuthConfig      `mapstructure:"AUTH"`
	Redis      RedisConfig     `mapstructure:"REDIS"`
	Kafka      KafkaConfig     `mapstructure:"KAFKA"`
	Email      EmailConfig     `mapstructure:"EMAIL"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	v.SetDefault("APP_NAME", "social-go")
	v.SetDefault("APP_VERSION", "0.1.0")

	// API server defaults
	v.SetDefault("API_SERVER.HOST", "0.0.0.0")
	v.SetDefault("API_SERVER.PORT", "8080")
	v.SetDefault("API_SERVER.READ_TIMEOUT", 30*time.Second)
	v.SetDefault("API_SERVER.WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("API_SERVER.MAX_HEADER_BYTES", 1<<20) // 1 MB
	v.SetDefault("API_SERVER.CORS.ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"})
	v.SetDefault("API_SERVER.CORS.EXPOSED_HEADERS", []string{"Content-Length"})
	v.SetDefault("API_SERVER.CORS.ALLOW_CREDENTIALS", true)
	v.SetDefault("API_SERVER.CORS.MAX_AGE", 300) // 5 minutes

	// Database defaults (PostgreSQL)
	v.SetDefault("DATABASE.TYPE", "postgres")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "password")
	v.SetDefault("DATABASE.DB_NAME", "social_go_db")
	v.SetDefault("DATABASE.SSL_MODE", "disable")

	// Auth defaults
	v.SetDefault("AUTH.JWT_SECRET_KEY", "a_very_secret_key_that_should_be_changed")
	v.SetDefault("AUTH.JWT_EXPIRY", 15*time.Minute)
	v.SetDefault("AUTH.ACTIVATION_TOKEN_TTL", 24*time.Hour)

	// Redis defaults
	v.SetDefault("REDIS.ADDR", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)

	// Kafka defaults
	v.SetDefault("KAFKA.BROKERS", []string{"localhost:9092"})
	v.SetDefault("KAFKA.CLIENT_ID", "social-go-client")
	v.SetDefault("KAFKA.PROTOCOL", "plaintext")
	v.SetDefault("KAFKA.ACTIVATION_EMAIL_TOPIC", "social-activation-emails")
	v.SetDefault("KAFKA.CONSUMER_GROUP", "social-go-api-server-group")

	// Email defaults
	v.SetDefault("EMAIL.BACKEND", "console")
	v.SetDefault("EMAIL.HOST", "localhost")
	v.SetDefault("EMAIL.PORT", 25)
	v.SetDefault("EMAIL.USERNAME", "")
	v.SetDefault("EMAIL.PASSWORD", "")
	v.SetDefault("EMAIL.FROM", "no-reply@social-go.local")
	v.SetDefault("EMAIL.CONFIRM_BASE_URL", "http://localhost:8080/auth/confirm")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// Config file not found; defaults plus environment cover it.
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
