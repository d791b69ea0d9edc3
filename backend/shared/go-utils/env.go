package utils

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			Logger.WithError(err).Warnf("Could not parse env file %s", p)
		}
	}
}

// MustEnv returns the variable or exits the process.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		Logger.Fatalf("%s env var is missing", key)
	}
	return v
}

func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		Logger.Warnf("Invalid %s '%s', using %d", key, v, def)
		return def
	}
	return n
}

func EnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		Logger.Warnf("Invalid %s '%s', using %t", key, v, def)
		return def
	}
	return b
}

func EnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		Logger.Warnf("Invalid %s '%s', using %s", key, v, def)
		return def
	}
	return d
}
