package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultAddr = ":8000"

// DefaultAllowedOrigins are the local dev origins the frontend is served from.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost",
	"http://127.0.0.1",
}

// Config holds everything the server reads from the environment.
type Config struct {
	Addr           string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	FFmpegPath     string
	AllowedOrigins []string
	FrontendDir    string
	LogLevel       string
	LogFormat      string
}

// Load reads .env (if any) and then the process environment.
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Msg("No .env file found, falling back to environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		Addr:          getenv("ADDR", DefaultAddr),
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		FFmpegPath:    strings.TrimSpace(os.Getenv("FFMPEG_PATH")),
		FrontendDir:   strings.TrimSpace(os.Getenv("FRONTEND_DIR")),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "console"),
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPEN_AI_API_KEY"))
	}

	cfg.AllowedOrigins = DefaultAllowedOrigins
	if raw := os.Getenv("ALLOWED_ORIGINS"); strings.TrimSpace(raw) != "" {
		cfg.AllowedOrigins = splitList(raw)
	}
	return cfg
}

// HasCredential reports whether real transcription should be attempted.
func (c *Config) HasCredential() bool {
	return c.OpenAIAPIKey != ""
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
