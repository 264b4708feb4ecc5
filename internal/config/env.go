package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Validate reports the settings the server cannot start without.
func (c Config) Validate() error {
	missing := make([]string, 0)
	if c.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.RazorpayKeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if c.RazorpayKeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("ENV %s is required", strings.Join(missing, ", "))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
