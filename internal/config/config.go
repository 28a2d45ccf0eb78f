package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP         HTTPConfig
	Backend      BackendConfig
	Storage      StorageConfig
	Cookies      CookieConfig
	StaticDir    string
	AuditLogFile string
	LogLevel     string
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Driver      string
	File        string
	DatabaseURL string
	SQLitePath  string
	Redis       RedisConfig
	TTL         time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type CookieConfig struct {
	Secret       string
	Secure       bool
	ClientMaxAge time.Duration
}

const minCookieSecretLength = 16

// Load reads configuration from the environment. Values missing from the
// environment are looked up in the .env file (PORTAL_ENV_FILE, default
// ./.env) and then in the YAML file named by PORTAL_CONFIG_FILE.
func Load() (Config, error) {
	src, err := newSource(os.Getenv("PORTAL_ENV_FILE"), os.Getenv("PORTAL_CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Addr:            src.getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     time.Duration(src.getEnvInt("HTTP_READ_TIMEOUT_SEC", 10)) * time.Second,
			WriteTimeout:    time.Duration(src.getEnvInt("HTTP_WRITE_TIMEOUT_SEC", 15)) * time.Second,
			ShutdownTimeout: time.Duration(src.getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SEC", 20)) * time.Second,
		},
		Backend: BackendConfig{
			BaseURL: src.getEnv("BACKEND_BASE_URL", "http://localhost:8000"),
			Timeout: time.Duration(src.getEnvInt("BACKEND_TIMEOUT_SEC", 15)) * time.Second,
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(src.getEnv("STORAGE_DRIVER", "file")),
			File:        src.getEnv("STORAGE_FILE", "./data/client_storage.json"),
			DatabaseURL: src.getEnv("DATABASE_URL", ""),
			SQLitePath:  src.getEnv("SQLITE_PATH", "./data/client_storage.db"),
			Redis: RedisConfig{
				Addr:     src.getEnv("REDIS_ADDR", ""),
				Password: src.getEnv("REDIS_PASSWORD", ""),
				DB:       src.getEnvInt("REDIS_DB", 0),
				Prefix:   src.getEnv("REDIS_PREFIX", "portal:client:"),
			},
			TTL: time.Duration(src.getEnvInt("STORAGE_TTL_SEC", 0)) * time.Second,
		},
		Cookies: CookieConfig{
			Secret:       src.getEnv("COOKIE_SECRET", "change-me-in-production"),
			Secure:       src.getEnvBool("COOKIE_SECURE", false),
			ClientMaxAge: time.Duration(src.getEnvInt("CLIENT_COOKIE_MAX_AGE_SEC", 365*24*3600)) * time.Second,
		},
		StaticDir:    src.getEnv("STATIC_DIR", "./web/static"),
		AuditLogFile: src.getEnv("AUDIT_LOG_FILE", "./data/audit.log"),
		LogLevel:     src.getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 || c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be > 0")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute http(s) url")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT_SEC must be > 0")
	}

	switch c.Storage.Driver {
	case "memory":
	case "file":
		if c.Storage.File == "" {
			return fmt.Errorf("STORAGE_FILE must not be empty for file storage")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must not be empty for postgres storage")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR must not be empty for redis storage")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must not be empty for sqlite storage")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER %q is not supported", c.Storage.Driver)
	}
	if c.Storage.TTL < 0 {
		return fmt.Errorf("STORAGE_TTL_SEC must be >= 0")
	}

	if len(c.Cookies.Secret) < minCookieSecretLength {
		return fmt.Errorf("COOKIE_SECRET must be at least %d bytes", minCookieSecretLength)
	}
	if c.Cookies.ClientMaxAge <= 0 {
		return fmt.Errorf("CLIENT_COOKIE_MAX_AGE_SEC must be > 0")
	}
	if c.AuditLogFile == "" {
		return fmt.Errorf("AUDIT_LOG_FILE must not be empty")
	}
	return nil
}

// source layers process env over the .env file over the YAML file.
type source struct {
	dotenv map[string]string
	file   map[string]string
}

func newSource(envPath, yamlPath string) (source, error) {
	var s source
	if envPath == "" {
		envPath = ".env"
	}
	if _, err := os.Stat(envPath); err == nil {
		m, err := godotenv.Read(envPath)
		if err != nil {
			return source{}, fmt.Errorf("read env file %s: %w", envPath, err)
		}
		s.dotenv = m
	}
	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return source{}, fmt.Errorf("read config file: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return source{}, fmt.Errorf("parse config file: %w", err)
		}
		s.file = make(map[string]string, len(raw))
		for k, v := range raw {
			if v != nil {
				s.file[strings.ToUpper(k)] = fmt.Sprint(v)
			}
		}
	}
	return s, nil
}

func (s source) lookup(key string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	if val := s.dotenv[key]; val != "" {
		return val
	}
	return s.file[key]
}

func (s source) getEnv(key, fallback string) string {
	val := s.lookup(key)
	if val == "" {
		return fallback
	}
	return val
}

func (s source) getEnvInt(key string, fallback int) int {
	val := s.lookup(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func (s source) getEnvBool(key string, fallback bool) bool {
	val := s.lookup(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}
