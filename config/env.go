// config/env.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig is read once from the environment at startup.
type AppConfig struct {
	Env                       string
	Port                      string
	MongoURI                  string
	DBName                    string
	RedisAddr                 string
	RedisPassword             string
	RedisDB                   int
	JWTSecret                 string
	Timezone                  string
	LogLevel                  string
	SMTPHost                  string
	SMTPPort                  int
	SMTPUser                  string
	SMTPPass                  string
	FromEmail                 string
	AdminEmail                string
	FirebaseCredentialsBase64 string
	FirebaseCredentialsFile   string
	FirebaseProjectID         string
	CORSAllowedOrigins        []string
}

// Load reads .env when present and then the process environment.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		GetLogger().Info("No .env file found, using process environment")
	}

	cfg := &AppConfig{
		Env:                       getEnv("ENV", "development"),
		Port:                      getEnv("PORT", "8080"),
		MongoURI:                  firstEnv("MONGO_URI", "MONGODB_URI"),
		DBName:                    getEnv("DB_NAME", DefaultDBName),
		RedisAddr:                 os.Getenv("REDIS_ADDR"),
		RedisPassword:             os.Getenv("REDIS_PASSWORD"),
		RedisDB:                   getEnvInt("REDIS_DB", 0),
		JWTSecret:                 os.Getenv("JWT_SECRET"),
		Timezone:                  getEnv("TIMEZONE", "Asia/Manila"),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		SMTPHost:                  os.Getenv("SMTP_HOST"),
		SMTPPort:                  getEnvInt("SMTP_PORT", 2525),
		SMTPUser:                  os.Getenv("SMTP_USER"),
		SMTPPass:                  os.Getenv("SMTP_PASS"),
		FromEmail:                 os.Getenv("FROM_EMAIL"),
		AdminEmail:                os.Getenv("ADMIN_EMAIL"),
		FirebaseCredentialsBase64: os.Getenv("FIREBASE_CREDENTIALS_BASE64"),
		FirebaseCredentialsFile:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirebaseProjectID:         os.Getenv("FIREBASE_PROJECT_ID"),
		CORSAllowedOrigins:        splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}

	SetLogLevel(cfg.LogLevel)
	return cfg
}

// IsDevelopment reports whether dev-only fallbacks may be used.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// MailEnabled reports whether SMTP is fully configured.
func (c *AppConfig) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.FromEmail != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		GetLogger().WithField("key", key).Warn("Ignoring non-numeric environment value")
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
