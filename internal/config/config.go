package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Env   string
	Port  string
	FEURL string
}

type DataBaseConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
}

type RedisConfig struct {
	URI string
}

type EmailConfig struct {
	Password string
}

type StorageConfig struct {
	Bucket        string
	Region        string
	PublicBaseURL string
}

type Config struct {
	Server   ServerConfig
	Database DataBaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Email    EmailConfig
	Storage  StorageConfig
	IsDev    bool
}

func validateEnv() {
	environmentVariables := []string{
		// server
		"ENV",
		"PORT",
		"FE_URL",
		// database
		"DB_URL",
		// auth
		"JWT_SECRET",
		// redis
		"REDIS_URI",
		// email
		"EMAIL_PASSWORD",
		// storage
		"S3_BUCKET",
		"S3_REGION",
		"S3_PUBLIC_BASE_URL",
	}
	for _, env := range environmentVariables {
		if os.Getenv(env) == "" {
			log.Fatalf("Environment variable %s is not set", env)
		}
	}
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	validateEnv()

	return &Config{
		Server: ServerConfig{
			Env:   os.Getenv("ENV"),
			Port:  os.Getenv("PORT"),
			FEURL: os.Getenv("FE_URL"),
		},
		Database: DataBaseConfig{
			URL: os.Getenv("DB_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Redis: RedisConfig{
			URI: os.Getenv("REDIS_URI"),
		},
		Email: EmailConfig{
			Password: os.Getenv("EMAIL_PASSWORD"),
		},
		Storage: StorageConfig{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        os.Getenv("S3_REGION"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},

		IsDev: os.Getenv("ENV") == "development",
	}
}
