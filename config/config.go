package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env unless GO_ENV says we are in a deployed
// environment where they come from the process environment directly.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil {
			return err
		}
	}

	return nil
}

type Config struct {
	GO_ENV          string
	PORT            int
	ALLOWED_ORIGINS string
	CRON_ENABLED    bool
	DB_USER_NAME    string
	DB_PASSWORD     string
	DB_NAME         string
	DB_HOST         string
	DB_PORT         string
	DB_SSL_MODE     string
	// JWT verification of tokens issued by the identity provider
	JWT_SECRET string
	JWT_ISSUER string
	// Redis
	REDIS_URL string
	// Manual UPI payment target shown at checkout, both optional
	MANUAL_UPI    string
	MANUAL_UPI_QR string
	// Spaces (S3-compatible) object storage for course thumbnails
	SPACES_ACCESS_KEY string
	SPACES_SECRET_KEY string
	SPACES_BUCKET     string
	SPACES_REGION     string
	SPACES_ENDPOINT   string
}

func Get() (*Config, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}

	cfg := &Config{
		GO_ENV:          os.Getenv("GO_ENV"),
		PORT:            port,
		ALLOWED_ORIGINS: allowedOrigins,
		CRON_ENABLED:    os.Getenv("CRON_ENABLED") != "false",
		DB_USER_NAME:    os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		DB_HOST:         dbHost,
		DB_PORT:         dbPort,
		DB_SSL_MODE:     os.Getenv("DB_SSL_MODE"),
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// UPI
		MANUAL_UPI:    os.Getenv("MANUAL_UPI"),
		MANUAL_UPI_QR: os.Getenv("MANUAL_UPI_QR"),
		// Spaces
		SPACES_ACCESS_KEY: os.Getenv("SPACES_ACCESS_KEY"),
		SPACES_SECRET_KEY: os.Getenv("SPACES_SECRET_KEY"),
		SPACES_BUCKET:     os.Getenv("SPACES_BUCKET"),
		SPACES_REGION:     os.Getenv("SPACES_REGION"),
		SPACES_ENDPOINT:   os.Getenv("SPACES_ENDPOINT"),
	}

	return cfg, nil
}
