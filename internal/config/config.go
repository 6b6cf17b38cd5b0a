package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the service configuration, read from the environment
type Config struct {
	DatabaseURL string
	JWTSecret   string
	JWTExpHours int64
	ServerPort  string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	Release     string
	SMTP        SMTPConfig
	Staff       StaffBootstrap
}

// SMTPConfig holds mail transport settings. An empty Host disables mail delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// StaffBootstrap names a staff account created at startup when it does not exist yet.
type StaffBootstrap struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether a bootstrap staff account was configured.
func (s StaffBootstrap) Enabled() bool {
	return s.Username != "" && s.Password != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dsn, err := databaseURL()
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	jwtExpHours, err := strconv.ParseInt(getenv("JWT_EXPIRATION_HOURS", "24"), 10, 64)
	if err != nil || jwtExpHours <= 0 {
		jwtExpHours = 24
	}

	smtpPort, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}

	return &Config{
		DatabaseURL: dsn,
		JWTSecret:   jwtSecret,
		JWTExpHours: jwtExpHours,
		ServerPort:  getenv("SERVER_PORT", "8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Env:         strings.ToLower(getenv("ENV", "dev")),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Release:     os.Getenv("RELEASE"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", os.Getenv("SMTP_USERNAME")),
		},
		Staff: StaffBootstrap{
			Username: os.Getenv("INITIAL_STAFF_USERNAME"),
			Email:    os.Getenv("INITIAL_STAFF_EMAIL"),
			Password: os.Getenv("INITIAL_STAFF_PASSWORD"),
		},
	}, nil
}

// databaseURL prefers DATABASE_URL and falls back to the DB_* variables
func databaseURL() (string, error) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return "", fmt.Errorf("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, getenv("DB_SSLMODE", "disable")), nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
