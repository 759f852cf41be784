// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// AuthConfig holds token and password hashing settings.
// The signing secret is loaded once at startup and never mutated.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// AssetsConfig holds settings for the external image host
type AssetsConfig struct {
	PrivateKey string
	UploadURL  string
	Folder     string
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Auth           *AuthConfig
	Assets         *AssetsConfig
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port: 8080,
		Host: "0.0.0.0",
	}
}

// DefaultAuthConfig provides default auth settings. The token lifetime
// policy allows 3 to 7 days; the default matches the longest.
func DefaultAuthConfig() *AuthConfig {
	return &AuthConfig{
		TokenTTL:   7 * 24 * time.Hour,
		BcryptCost: 10,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from multiple possible locations
	envLocations := []string{
		".env",       // Current directory
		"../../.env", // Project root when running from cmd/server
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		// Silent failure if no .env exists, which is fine
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	dbConfig := &DatabaseConfig{
		URI:  getEnvOrDefault("MONGO_URL", "mongodb://localhost:27017"),
		Name: getEnvOrDefault("MONGO_DB", "scribbly"),
	}

	authConfig := DefaultAuthConfig()

	authConfig.JWTSecret = os.Getenv("JWT_SECRET")
	if authConfig.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if ttlStr := os.Getenv("TOKEN_TTL_HOURS"); ttlStr != "" {
		hours, err := strconv.Atoi(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS: %v", err)
		}
		// Token lifetime policy: between 3 and 7 days
		if hours < 72 || hours > 168 {
			return nil, fmt.Errorf("TOKEN_TTL_HOURS must be between 72 and 168, got %d", hours)
		}
		authConfig.TokenTTL = time.Duration(hours) * time.Hour
	}

	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		if cost, err := strconv.Atoi(costStr); err == nil {
			authConfig.BcryptCost = cost
		}
	}

	assetsConfig := &AssetsConfig{
		PrivateKey: os.Getenv("IMAGEKIT_PRIVATE_KEY"),
		UploadURL:  getEnvOrDefault("IMAGEKIT_UPLOAD_URL", "https://upload.imagekit.io/api/v1/files/upload"),
		Folder:     getEnvOrDefault("IMAGEKIT_FOLDER", "/blog-images/"),
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Auth:           authConfig,
		Assets:         assetsConfig,
		AllowedOrigins: []string{"*"}, // Default to allow all origins
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
