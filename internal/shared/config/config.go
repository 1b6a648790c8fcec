package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	Env             string

	AuthIssuer   string
	AuthAudience string
	AuthDisable  bool

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string
	AppURL              string

	DMXAPIKey  string
	PDFModel   string
	LLMModel   string
	ExtractURL string
	StructURL  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		DatabaseURL:     dbURL,
		Env:             env,

		AuthIssuer:   getEnv("AUTH_ISSUER", ""),
		AuthAudience: getEnv("AUTH_AUDIENCE", ""),
		AuthDisable:  authDisabled(env),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceID:       getEnv("STRIPE_PRICE_ID", ""),
		AppURL:              strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),

		DMXAPIKey:  getEnv("DMXAPI_API_KEY", ""),
		PDFModel:   getEnv("DMXAPI_PDF_MODEL", "hehe-tywd"),
		LLMModel:   getEnv("DMXAPI_LLM_MODEL", "gpt-5-mini"),
		ExtractURL: getEnv("DMXAPI_EXTRACT_URL", "https://www.dmxapi.cn/v1/responses"),
		StructURL:  getEnv("DMXAPI_CHAT_URL", "https://www.dmxapi.cn/v1/chat/completions"),
	}
}

// authDisabled honors AUTH_DISABLE only outside production and staging, so a
// leaked env var can never open up a deployed instance.
func authDisabled(env string) bool {
	if env != "dev" && env != "local" {
		return false
	}
	if !strings.EqualFold(os.Getenv("AUTH_DISABLE"), "true") {
		return false
	}
	log.Printf("AUTH_DISABLE is set: requests run as a local dev identity")
	return true
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
