package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	JWT      JWTConfig
	Crypt    CryptConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	AppName     string
	AppEnv      string
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver          string // postgres | sqlite
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
	LogSQL          bool
}

type LoggerConfig struct {
	Level      string
	Mode       string // production | development
	FileEnable bool
	Filename   string
}

type JWTConfig struct {
	SecretKey string
}

type CryptConfig struct {
	// Key used to derive the medical history encryption key.
	Key string
}

type JobsConfig struct {
	LowStockSweepEnabled bool
	LowStockSweepSpec    string
}

// Load reads the configuration from the process environment.
// Call godotenv.Load() first if a .env file should be honoured.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			AppName:     getEnv("APP_NAME", "MedSpa Inventory v1.0"),
			AppEnv:      getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "3000"),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			DSN:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "medspa"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 3600),
			LogSQL:          getEnvBool("DB_LOG_SQL", false),
		},
		Logger: LoggerConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Mode:       getEnv("LOG_MODE", "development"),
			FileEnable: getEnvBool("LOG_FILE_ENABLE", false),
			Filename:   getEnv("LOG_FILE", "./logs/medspa.log"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		},
		Crypt: CryptConfig{
			Key: getEnv("APP_KEY", ""),
		},
		Jobs: JobsConfig{
			LowStockSweepEnabled: getEnvBool("LOW_STOCK_SWEEP_ENABLED", true),
			LowStockSweepSpec:    getEnv("LOW_STOCK_SWEEP_SPEC", "@every 15m"),
		},
	}
}

// IsProduction reports whether the app runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
