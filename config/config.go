package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Auth  AuthConfig
	Event EventConfig
	Tutor TutorConfig
	Push  PushConfig
}

type AppConfig struct {
	Port              string
	Env               string
	LogLevel          string
	CORSAllowedOrigin string
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type AuthConfig struct {
	LoginMaxAttempts int
	LoginWindow      time.Duration
	// DeviceAPIKey guards event ingestion from the companion app. Empty disables the check.
	DeviceAPIKey string
}

type EventConfig struct {
	// RetentionLimit is the number of newest events kept per tutor. Zero keeps everything.
	RetentionLimit int
}

type TutorConfig struct {
	MaxEmergencyContacts int
}

type PushConfig struct {
	FirebaseCredentialsPath string
	MinSeverity             string
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("AUTH_LOGIN_MAX_ATTEMPTS", 5)
	viper.SetDefault("EVENT_RETENTION_LIMIT", 100)
	viper.SetDefault("TUTOR_MAX_EMERGENCY_CONTACTS", 3)
	viper.SetDefault("PUSH_MIN_SEVERITY", "alta")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	// The .env file is optional; plain environment variables are enough in containers.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:              viper.GetString("APP_PORT"),
			Env:               viper.GetString("APP_ENV"),
			LogLevel:          viper.GetString("APP_LOG_LEVEL"),
			CORSAllowedOrigin: viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: durationOr("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Auth: AuthConfig{
			LoginMaxAttempts: viper.GetInt("AUTH_LOGIN_MAX_ATTEMPTS"),
			LoginWindow:      durationOr("AUTH_LOGIN_WINDOW", 15*time.Minute),
			DeviceAPIKey:     viper.GetString("DEVICE_API_KEY"),
		},
		Event: EventConfig{
			RetentionLimit: viper.GetInt("EVENT_RETENTION_LIMIT"),
		},
		Tutor: TutorConfig{
			MaxEmergencyContacts: viper.GetInt("TUTOR_MAX_EMERGENCY_CONTACTS"),
		},
		Push: PushConfig{
			FirebaseCredentialsPath: viper.GetString("FIREBASE_CREDENTIALS_PATH"),
			MinSeverity:             viper.GetString("PUSH_MIN_SEVERITY"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
