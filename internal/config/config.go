package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI          string
	DBName            string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	RazorpayKeyID     string
	RazorpayKeySecret string
	OrderNumberPrefix string
	Port              string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() Config {
	return Config{
		MongoURI:          getEnvOrDefault("MONGO_URI", ""),
		DBName:            getEnvOrDefault("DB_NAME", "grocery"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL:   getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),
		RazorpayKeyID:     getEnvOrDefault("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnvOrDefault("RAZORPAY_KEY_SECRET", ""),
		OrderNumberPrefix: getEnvOrDefault("ORDER_NUMBER_PREFIX", "NVS"),
		Port:              getEnvOrDefault("PORT", "8080"),
	}
}
