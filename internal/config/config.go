package config

import (
	"os"
	"strconv"
	"strings"
)

// Config collects runtime settings. Zero values mean "use the default".
type Config struct {
	// DBPath is the SQLite file; empty resolves via store.DefaultDBPath.
	DBPath          string
	LogLevel        string
	LogMode         string
	SnapshotKeep    int
	RecoveryMinutes int
}

const (
	DefaultLogLevel        = "warn"
	DefaultLogMode         = "dev"
	DefaultSnapshotKeep    = 20
	DefaultRecoveryMinutes = 10
)

// Load reads the HABITCHECK_* environment variables.
func Load() Config {
	return Config{
		DBPath:          strings.TrimSpace(os.Getenv("HABITCHECK_DB")),
		LogLevel:        getEnv("HABITCHECK_LOG_LEVEL", DefaultLogLevel),
		LogMode:         getEnv("HABITCHECK_LOG_MODE", DefaultLogMode),
		SnapshotKeep:    getEnvInt("HABITCHECK_SNAPSHOT_KEEP", DefaultSnapshotKeep),
		RecoveryMinutes: getEnvInt("HABITCHECK_RECOVERY_MINUTES", DefaultRecoveryMinutes),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getEnvInt ignores unparsable and non-positive values.
func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
