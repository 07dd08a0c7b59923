package config

import "os"

// Config holds process-level settings read from the environment.
type Config struct {
	PostgresDSN string
	RedisAddr   string
	ListenAddr  string
	JWTSecret   string
}

// FromEnv reads configuration from environment variables, falling back to
// local development defaults.
func FromEnv() Config {
	return Config{
		PostgresDSN: getenv("POSTGRES_DSN", "host=localhost user=user password=password dbname=socialite port=5432 sslmode=disable"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		JWTSecret:   getenv("JWT_SECRET", "dev-only-secret"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
