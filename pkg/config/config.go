package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Scrape   ScrapeConfig
	Vacancy  VacancyConfig
}

// DatabaseConfig points at the sqlite file holding scraped timetables.
type DatabaseConfig struct {
	Path         string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig guards the scrape-trigger endpoint.
type AuthConfig struct {
	JWTSecret  string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ScrapeConfig describes the remote course-search tool and the fixed form
// values selecting the institution and term. The payload sequence is specific
// to that tool; the scraper targets nothing else.
type ScrapeConfig struct {
	SearchURL       string
	InstitutionName string
	InstitutionCode string
	TermName        string
	TermCode        string
	RequestTimeout  time.Duration
	DelayMin        time.Duration
	DelayMax        time.Duration
}

// VacancyConfig tunes the vacancy query surface.
type VacancyConfig struct {
	CacheTTL           time.Duration
	DefaultMinFreeMins int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Path:         v.GetString("DB_PATH"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:  v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scrape = ScrapeConfig{
		SearchURL:       v.GetString("SCRAPE_SEARCH_URL"),
		InstitutionName: v.GetString("SCRAPE_INSTITUTION_NAME"),
		InstitutionCode: v.GetString("SCRAPE_INSTITUTION_CODE"),
		TermName:        v.GetString("SCRAPE_TERM_NAME"),
		TermCode:        v.GetString("SCRAPE_TERM_CODE"),
		RequestTimeout:  parseDuration(v.GetString("SCRAPE_REQUEST_TIMEOUT"), 30*time.Second),
		DelayMin:        parseDuration(v.GetString("SCRAPE_DELAY_MIN"), time.Second),
		DelayMax:        parseDuration(v.GetString("SCRAPE_DELAY_MAX"), 3*time.Second),
	}

	cfg.Vacancy = VacancyConfig{
		CacheTTL:           parseDuration(v.GetString("VACANCY_CACHE_TTL"), 10*time.Minute),
		DefaultMinFreeMins: v.GetInt("VACANCY_DEFAULT_MIN_FREE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_PATH", "./class_times.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCRAPE_SEARCH_URL", "https://globalsearch.cuny.edu/CFGlobalSearchTool/CFSearchToolController")
	v.SetDefault("SCRAPE_INSTITUTION_NAME", "Queens College | ")
	v.SetDefault("SCRAPE_INSTITUTION_CODE", "QNS01")
	v.SetDefault("SCRAPE_TERM_NAME", "2025 Spring Term")
	v.SetDefault("SCRAPE_TERM_CODE", "1252")
	v.SetDefault("SCRAPE_REQUEST_TIMEOUT", "30s")
	v.SetDefault("SCRAPE_DELAY_MIN", "1s")
	v.SetDefault("SCRAPE_DELAY_MAX", "3s")

	v.SetDefault("VACANCY_CACHE_TTL", "10m")
	v.SetDefault("VACANCY_DEFAULT_MIN_FREE", 30)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
