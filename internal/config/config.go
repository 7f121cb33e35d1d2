package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds every runtime setting of the service.
type Config struct {
	Port        string
	GinMode     string
	JWTSecret   string
	CORSOrigins []string

	LogLevel string
	LogFile  string

	DB DBConfig

	// DescriptionPolicy is placeholder or append.
	DescriptionPolicy string
	// ChildSuffix is the infix used by create_child ids: STOCK-<suffix>-<unique>.
	ChildSuffix string
}

// DBConfig describes the relational store connection.
type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

// Load reads configs/.env when present and then the process environment.
func Load() (*Config, error) {
	// Missing file is fine; the environment wins either way.
	_ = godotenv.Load("configs/.env")

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           os.Getenv("GIN_MODE"),
		JWTSecret:         getEnv("JWT_SECRET", "default_super_secret_key_change_me_in_production"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           os.Getenv("LOG_FILE"),
		DescriptionPolicy: getEnv("DESCRIPTION_POLICY", "placeholder"),
		ChildSuffix:       getEnv("CHILD_SUFFIX", "VAR"),
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "productattrs.db"),
		},
	}

	switch cfg.DB.Driver {
	case DriverPostgres:
		cfg.DB.Port = getEnv("DB_PORT", "5432")
	case DriverMySQL:
		cfg.DB.Port = getEnv("DB_PORT", "3306")
		if os.Getenv("DB_USER") == "" {
			cfg.DB.User = "root"
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

// DSN builds the driver specific connection string.
func (c DBConfig) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case DriverSQLite:
		return c.Path
	default:
		return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
