package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok {
		return ":8080"
	}
	return ":" + port
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// MemoryStore reports whether the service should keep levels in process
// instead of Postgres. Contents are lost on restart.
func MemoryStore() bool {
	return os.Getenv("LEVELS_STORE") == "memory"
}

// CorsOrigins reads the comma separated CORS_ALLOWED_ORIGINS list.
func CorsOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func lookupInt(name string, fallback int) (int, error) {
	s, ok := os.LookupEnv(name)
	if !ok || s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

func lookupDuration(name string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(name)
	if !ok || s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}
