package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port   string
	DBPath string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	AdvisorMode    string // "structured" or "narrative"
	RecommendModel string
	ChatModel      string
	ChatMaxTurns   int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads all env vars and builds the config. JWT_SECRET_KEY is read
// by the auth package directly.
func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./uni_advisor.db"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		AdvisorMode:    getEnv("ADVISOR_MODE", "structured"),
		RecommendModel: getEnv("RECOMMEND_MODEL", "gpt-3.5-turbo"),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4"),
		ChatMaxTurns:   getIntEnv("CHAT_MAX_TURNS", 20),
	}
}
