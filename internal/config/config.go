package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries every knob the app reads, resolved once at startup and
// passed into components at construction time. No package reads the
// environment on its own.
type Config struct {
	ServerAddr string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	RedisAddr  string
	RedisPass  string
	JWTSecret  string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string
	AppURL    string

	// Critic verification and Steam enrichment.
	OCREnginePath     string
	VerifyKeywords    []string
	AllowedImageExts  []string
	HTTPTimeout       time.Duration
	SteamSpyBaseURL   string
	SteamStoreBaseURL string
}

// LoadConfig reads config.yaml if present, then environment variables on top.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_addr", ":8080")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "secret")
	v.SetDefault("db_name", "gamepulse")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_pass", "")
	v.SetDefault("smtp_host", "0.0.0.0")
	v.SetDefault("smtp_port", 1025)
	v.SetDefault("from_email", "no-reply@gamepulse.dev")
	v.SetDefault("app_url", "http://localhost:3000")
	v.SetDefault("ocr_engine_path", "/usr/bin/tesseract")
	v.SetDefault("verify_keywords", []string{"press", "journalist", "photographer"})
	v.SetDefault("allowed_image_extensions", []string{".png", ".jpg", ".jpeg", ".gif"})
	v.SetDefault("http_timeout_seconds", 10)
	v.SetDefault("steamspy_base_url", "https://steamspy.com/api.php")
	v.SetDefault("steam_store_base_url", "https://store.steampowered.com/appreviews/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		ServerAddr:        v.GetString("server_addr"),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetInt("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		RedisAddr:         v.GetString("redis_addr"),
		RedisPass:         v.GetString("redis_pass"),
		JWTSecret:         v.GetString("jwt_secret"),
		SMTPHost:          v.GetString("smtp_host"),
		SMTPPort:          v.GetInt("smtp_port"),
		SMTPUser:          v.GetString("smtp_user"),
		SMTPPass:          v.GetString("smtp_pass"),
		FromEmail:         v.GetString("from_email"),
		AppURL:            v.GetString("app_url"),
		OCREnginePath:     v.GetString("ocr_engine_path"),
		VerifyKeywords:    v.GetStringSlice("verify_keywords"),
		AllowedImageExts:  v.GetStringSlice("allowed_image_extensions"),
		HTTPTimeout:       time.Duration(v.GetInt("http_timeout_seconds")) * time.Second,
		SteamSpyBaseURL:   v.GetString("steamspy_base_url"),
		SteamStoreBaseURL: v.GetString("steam_store_base_url"),
	}, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
