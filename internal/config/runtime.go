package config

import (
	"os"
	"strconv"
)

type Runtime struct {
	HTTPAddr      string
	RulesPath     string
	RulesURL      string
	RedisAddr     string
	RedisKey      string
	CacheMaxItems int
	ObsBuffer     int
}

func Load() Runtime {
	return Runtime{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		RulesPath:     getenv("RULES_PATH", ""),
		RulesURL:      getenv("RULES_URL", ""),
		RedisAddr:     getenv("RULES_REDIS_ADDR", ""),
		RedisKey:      getenv("RULES_REDIS_KEY", "scholarship:rules"),
		CacheMaxItems: getenvInt("RULES_CACHE_MAX_ITEMS", 1024, 1),
		ObsBuffer:     getenvInt("RULES_OBS_BUFFER", 4096, 1),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback, min int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}
