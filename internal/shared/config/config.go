package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	DatabaseURL      string
	SessionStore     string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ObjectStoreType  string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiTimeout    time.Duration
	ZAPIInstanceID   string
	ZAPIToken        string
	ZAPIClientToken  string
	PixKey           string
	PixRecipientName string
	PixCity          string
	OperatorPhone    string
	DeliveryQueueURL string
	ReminderIdle     time.Duration

	// TemplateImages maps template IDs to preview image URLs for the
	// gallery message.
	TemplateImages map[string]string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		Env:              env,
		DatabaseURL:      dbURL,
		SessionStore:     normalizeSessionStore(getEnv("SESSION_STORE", ""), dbURL, os.Getenv("REDIS_ADDR")),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiTimeout:    time.Duration(getEnvInt("GEMINI_TIMEOUT_SECONDS", 60)) * time.Second,
		ZAPIInstanceID:   getEnv("ZAPI_INSTANCE_ID", ""),
		ZAPIToken:        getEnv("ZAPI_TOKEN", ""),
		ZAPIClientToken:  getEnv("ZAPI_CLIENT_TOKEN", ""),
		PixKey:           getEnv("PIX_KEY", ""),
		PixRecipientName: getEnv("PIX_RECIPIENT_NAME", ""),
		PixCity:          getEnv("PIX_CITY", ""),
		OperatorPhone:    getEnv("OPERATOR_PHONE", ""),
		DeliveryQueueURL: getEnv("CVBOT_SQS_QUEUE_URL", ""),
		ReminderIdle:     time.Duration(getEnvInt("REMINDER_IDLE_HOURS", 24)) * time.Hour,
		TemplateImages:   templateImages(),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return parsed
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

func templateImages() map[string]string {
	images := make(map[string]string)
	for _, id := range []string{"1", "2", "3"} {
		if url := getEnv("TEMPLATE_IMAGE_"+id, ""); url != "" {
			images[id] = url
		}
	}
	return images
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeSessionStore(raw, dbURL, redisAddr string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "redis", "memory":
		return strings.ToLower(strings.TrimSpace(raw))
	}
	if strings.TrimSpace(dbURL) != "" {
		return "postgres"
	}
	if strings.TrimSpace(redisAddr) != "" {
		return "redis"
	}
	return "memory"
}
