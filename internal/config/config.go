package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// DriveConfig holds settings for the Google Drive source client.
type DriveConfig struct {
	BaseURL         string
	AccessToken     string
	DefaultFolderID string
}

// AIConfig holds settings for the multimodal completion service.
// Defaults target the Groq OpenAI-compatible endpoint.
type AIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// ConvertConfig holds settings for document-to-image normalization.
type ConvertConfig struct {
	// ScratchDir is where PDF payloads are written before rasterization.
	ScratchDir string
	// BrowserURL is the DevTools WebSocket URL of an external Chrome.
	// Empty means launch a local headless instance.
	BrowserURL string
	PDFWidth   int
	PDFHeight  int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	Drive    DriveConfig
	AI       AIConfig
	Convert  ConvertConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Drive: DriveConfig{
			BaseURL:         getEnv("DRIVE_BASE_URL", "https://www.googleapis.com/drive/v3"),
			AccessToken:     getEnv("DRIVE_ACCESS_TOKEN", ""),
			DefaultFolderID: getEnv("DRIVE_DEFAULT_FOLDER_ID", ""),
		},
		AI: AIConfig{
			BaseURL:     getEnv("AI_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:      getEnv("AI_API_KEY", ""),
			Model:       getEnv("AI_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
			Temperature: getEnvFloat("AI_TEMPERATURE", 1.0),
			TopP:        getEnvFloat("AI_TOP_P", 1.0),
			MaxTokens:   getEnvInt("AI_MAX_TOKENS", 1024),
		},
		Convert: ConvertConfig{
			ScratchDir: getEnv("CONVERT_SCRATCH_DIR", "./tmp"),
			BrowserURL: getEnv("CONVERT_BROWSER_URL", ""),
			PDFWidth:   getEnvInt("CONVERT_PDF_WIDTH", 800),
			PDFHeight:  getEnvInt("CONVERT_PDF_HEIGHT", 1000),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
