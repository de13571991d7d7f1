// Package config loads process configuration from the environment, with a
// .env file as a development convenience. Values are read once at startup
// and immutable afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	JWTSecret          string
	TokenIssuer        string
	TokenAudience      string
	AccessTokenTTL     time.Duration
	VerifyTokenIssuer  bool
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables with sane defaults.
// The signing secret has no default; a process without one must not start.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		// No .env file: rely on real environment variables.
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	cfg := Config{
		Port:               getEnv("API_PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "clinic"),
		JWTSecret:          secret,
		TokenIssuer:        getEnv("TOKEN_ISSUER", "clinic-auth"),
		TokenAudience:      getEnv("TOKEN_AUDIENCE", "clinic-api"),
		AccessTokenTTL:     time.Duration(getInt("TOKEN_EXPIRY_MINUTES", 15)) * time.Minute,
		VerifyTokenIssuer:  getBool("TOKEN_VERIFY_ISSUER", false),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
