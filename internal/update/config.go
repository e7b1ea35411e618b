package update

import (
	"os"
	"strconv"
	"strings"
)

type RuntimeConfig struct {
	DBPath          string
	LogPath         string
	HistoryDays     int
	SchedulerBuffer int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:          "habitd.db",
		LogPath:         "habitd.log",
		HistoryDays:     7,
		SchedulerBuffer: 64,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("HABITD_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("HABITD_LOG_PATH")); v != "" {
		cfg.LogPath = v
	}
	if v, ok := getEnvInt("HABITD_HISTORY_DAYS"); ok && v > 0 {
		cfg.HistoryDays = v
	}
	if v, ok := getEnvInt("HABITD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
