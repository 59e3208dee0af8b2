package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_DRIVER    string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// Local development without Postgres
	DB_SQLITE_PATH string
	PORT           int
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	JWT_EXPIRY time.Duration
	// Signup
	OTP_TTL time.Duration
	// Redis Configuration
	REDIS_URL string
	// Mail Configuration
	MAIL_PROVIDER    string
	SMTP_HOST        string
	SMTP_PORT        int
	SMTP_USERNAME    string
	SMTP_PASSWORD    string
	SMTP_FROM        string
	SENDGRID_API_KEY string
	// Razorpay Configuration
	RAZORPAY_KEY      string
	RAZORPAY_SECRET   string
	RAZORPAY_BASE_URL string
	// Spaces (S3 compatible) Configuration
	SPACES_ACCESS_KEY string
	SPACES_SECRET_KEY string
	SPACES_BUCKET     string
	SPACES_REGION     string
	SPACES_ENDPOINT   string
	SPACES_CDN_URL    string
	MEDIA_FOLDER      string
	// Frontend
	FRONTEND_URL    string
	ALLOWED_ORIGINS string
	CRON_ENABLED    bool
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	jwtExpiryHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRY_HOURS"))
	if err != nil || jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}

	otpTTLMinutes, err := strconv.Atoi(os.Getenv("OTP_TTL_MINUTES"))
	if err != nil || otpTTLMinutes <= 0 {
		otpTTLMinutes = 5
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_DRIVER:    getEnvOrDefault("DB_DRIVER", "postgres"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getEnvOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		// SQLite
		DB_SQLITE_PATH: getEnvOrDefault("DB_SQLITE_PATH", "studynotion.db"),
		PORT:           port,
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: getEnvOrDefault("JWT_ISSUER", "studynotion-api"),
		JWT_EXPIRY: time.Duration(jwtExpiryHours) * time.Hour,
		OTP_TTL:    time.Duration(otpTTLMinutes) * time.Minute,
		// Redis
		REDIS_URL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		// Mail
		MAIL_PROVIDER:    getEnvOrDefault("MAIL_PROVIDER", "smtp"),
		SMTP_HOST:        getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTP_PORT:        smtpPort,
		SMTP_USERNAME:    os.Getenv("SMTP_USERNAME"),
		SMTP_PASSWORD:    os.Getenv("SMTP_PASSWORD"),
		SMTP_FROM:        getEnvOrDefault("SMTP_FROM", "noreply@studynotion.app"),
		SENDGRID_API_KEY: os.Getenv("SENDGRID_API_KEY"),
		// Razorpay
		RAZORPAY_KEY:      os.Getenv("RAZORPAY_KEY"),
		RAZORPAY_SECRET:   os.Getenv("RAZORPAY_SECRET"),
		RAZORPAY_BASE_URL: getEnvOrDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		// Spaces
		SPACES_ACCESS_KEY: os.Getenv("SPACES_ACCESS_KEY"),
		SPACES_SECRET_KEY: os.Getenv("SPACES_SECRET_KEY"),
		SPACES_BUCKET:     os.Getenv("SPACES_BUCKET"),
		SPACES_REGION:     os.Getenv("SPACES_REGION"),
		SPACES_ENDPOINT:   os.Getenv("SPACES_ENDPOINT"),
		SPACES_CDN_URL:    os.Getenv("SPACES_CDN_URL"),
		MEDIA_FOLDER:      getEnvOrDefault("MEDIA_FOLDER", "studynotion"),
		// Frontend
		FRONTEND_URL:    getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		ALLOWED_ORIGINS: getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),
		CRON_ENABLED:    os.Getenv("CRON_ENABLED") != "false", // Default to enabled
	}

	return envVariables, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
