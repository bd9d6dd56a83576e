package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/palpitebox/bolao-system/engine"
)

// Config holds all application configuration.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	AdminKeyHash string
	ServerPort   int
	Rules        engine.Rules
}

// Load reads configuration from environment variables, optionally
// seeded from a .env file. Scoring constants default to the standard
// ladder and can be overridden per deployment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	adminKeyHash := os.Getenv("ADMIN_KEY_HASH")
	if adminKeyHash == "" {
		return nil, fmt.Errorf("ADMIN_KEY_HASH environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rules, err := loadRules()
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		AdminKeyHash: adminKeyHash,
		ServerPort:   port,
		Rules:        rules,
	}, nil
}

func loadRules() (engine.Rules, error) {
	rules := engine.DefaultRules()

	overrides := []struct {
		env    string
		target *int
	}{
		{"SCORE_EXACT", &rules.ExactScorePoints},
		{"SCORE_DIFF", &rules.ExactDiffPoints},
		{"SCORE_OUTCOME", &rules.OutcomePoints},
		{"QUIZ_WIN_THRESHOLD", &rules.QuizWinThreshold},
		{"MIN_GROUP_TEAMS", &rules.MinGroupTeams},
	}
	for _, o := range overrides {
		raw := os.Getenv(o.env)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return engine.Rules{}, fmt.Errorf("invalid %s environment variable: %w", o.env, err)
		}
		*o.target = value
	}

	if err := rules.Validate(); err != nil {
		return engine.Rules{}, fmt.Errorf("invalid scoring configuration: %w", err)
	}
	return rules, nil
}
