package main

import (
	"os"
	"strconv"
	"time"
)

// Config is read from the environment (and .env via godotenv).
type Config struct {
	Addr             string // STRATEGO_ADDR
	Port             int    // STRATEGO_PORT
	PresetsDB        string // PRESETS_DB; "off" disables saved presets
	Layout           string // LAYOUT
	StatusAddr       string // STATUS_ADDR; empty disables the status API
	JWTSecret        string // JWT_SECRET
	JWTTTL           time.Duration
	HandshakeTimeout time.Duration
	Color            bool // NO_COLOR unset
}

func loadConfig() Config {
	return Config{
		Addr:             getEnv("STRATEGO_ADDR", "127.0.0.1"),
		Port:             envInt("STRATEGO_PORT", 12345),
		PresetsDB:        getEnv("PRESETS_DB", "./data/presets.db"),
		Layout:           getEnv("LAYOUT", "classic"),
		StatusAddr:       os.Getenv("STATUS_ADDR"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           time.Duration(envInt("JWT_EXPIRES_HOURS", 12)) * time.Hour,
		HandshakeTimeout: time.Duration(envInt("HANDSHAKE_TIMEOUT_SECONDS", 10)) * time.Second,
		Color:            os.Getenv("NO_COLOR") == "",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an int, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
