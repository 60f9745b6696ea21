package config

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress  string
	DatabaseURI string
	JWTSecret   string
	SeedUsers   bool
}

func New() *Config {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8082", "server address and port")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI (empty runs the in-memory store)")
	flag.StringVar(&cfg.JWTSecret, "s", "super-secret-jwt-key", "jwt signing key")
	flag.BoolVar(&cfg.SeedUsers, "seed", true, "create default vendor/company accounts on boot")
	flag.Parse()

	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.DatabaseURI = getEnv("DATABASE_URI", cfg.DatabaseURI)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	if v, ok := os.LookupEnv("SEED_USERS"); ok {
		cfg.SeedUsers = v != "false" && v != "0"
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
