package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	NatsURL         string
	NatsToken       string
	DatabaseURL     string
	LogLevel        string
	AnthropicAPIKey string
	AnthropicModel  string
	BaselineURL     string
	APIToken        string
	LexiconPath     string
	ComposeTimeout  time.Duration

	// Intervention thresholds. Tuned against pilot sessions; override per deployment.
	ConfusionThreshold   float64
	StagnationThreshold  float64
	LowUnderstanding     float64
	DominantSpeakerShare float64

	// Health score weights.
	HealthConfusionWeight     float64
	HealthStagnationWeight    float64
	HealthUnderstandingWeight float64
}

func Load() Config {
	return Config{
		Port:            envInt("SAGE_PORT", 8810),
		NatsURL:         envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:       envStr("NATS_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("SAGE_MODEL", "claude-sonnet-4-20250514"),
		BaselineURL:     envStr("BASELINE_URL", "http://localhost:8800"),
		APIToken:        envStr("SAGE_API_TOKEN", ""),
		LexiconPath:     envStr("SAGE_LEXICON_PATH", ""),
		ComposeTimeout:  time.Duration(envInt("SAGE_COMPOSE_TIMEOUT_SEC", 10)) * time.Second,

		ConfusionThreshold:   envFloat("SAGE_CONFUSION_THRESHOLD", 0.6),
		StagnationThreshold:  envFloat("SAGE_STAGNATION_THRESHOLD", 0.7),
		LowUnderstanding:     envFloat("SAGE_LOW_UNDERSTANDING", 0.4),
		DominantSpeakerShare: envFloat("SAGE_DOMINANT_SHARE", 0.7),

		HealthConfusionWeight:     envFloat("SAGE_HEALTH_W_CONFUSION", 0.5),
		HealthStagnationWeight:    envFloat("SAGE_HEALTH_W_STAGNATION", 0.5),
		HealthUnderstandingWeight: envFloat("SAGE_HEALTH_W_UNDERSTANDING", 0.2),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
