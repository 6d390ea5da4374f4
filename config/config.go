package config

import (
	"os"
	"strings"
	"time"
)

// Config holds every credential and tunable the services need. Values are read
// from the environment exactly once at startup and handed to the clients —
// nothing reads os.Getenv after Load returns.
type Config struct {
	Port            string
	GinMode         string
	FrontendOrigins []string

	// Search provider (web / shopping / hotels)
	SearchAPIKey  string
	SearchBaseURL string

	// Flights provider
	FlightsAPIKey  string
	FlightsAPIHost string
	FlightsBaseURL string
	FlightsWebBase string

	// LLM provider (OpenAI-compatible)
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	HTTPTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		SearchAPIKey:  os.Getenv("SEARCH_API_KEY"),
		SearchBaseURL: getEnv("SEARCH_BASE_URL", "https://serpapi.com"),

		FlightsAPIKey:  os.Getenv("FLIGHTS_API_KEY"),
		FlightsAPIHost: getEnv("FLIGHTS_API_HOST", "sky-scrapper.p.rapidapi.com"),
		FlightsBaseURL: getEnv("FLIGHTS_BASE_URL", "https://sky-scrapper.p.rapidapi.com"),
		FlightsWebBase: getEnv("FLIGHTS_WEB_BASE", "https://www.skyscanner.net"),

		LLMAPIKey:  os.Getenv("OPENAI_API_KEY"),
		LLMBaseURL: os.Getenv("OPENAI_BASE_URL"),
		LLMModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		HTTPTimeout: 30 * time.Second,
	}

	// Comma-separated list of allowed frontend origins, plus local dev defaults
	cfg.FrontendOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	if urls := os.Getenv("FRONTEND_URL"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				cfg.FrontendOrigins = append(cfg.FrontendOrigins, u)
			}
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
