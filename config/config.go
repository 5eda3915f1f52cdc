package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Store drivers accepted in DB_DRIVER
const (
	DriverGORM     = "gorm"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// LoadENV loads the environment variables from .env if GO_ENV is not set.
// A missing .env file is not an error; the process environment is used as-is.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Info("No .env file found, using process environment")
				return nil
			}
			return err
		}
	}

	return nil
}

// EnvironmentVariable holds every setting the API reads from the environment
type EnvironmentVariable struct {
	GoEnv     string `env:"GO_ENV"`
	Port      int    `env:"PORT" env-default:"8001"`
	APIPrefix string `env:"API_PREFIX" env-default:"/api"`

	// Database
	DBDriver   string `env:"DB_DRIVER" env-default:"gorm"`
	DBUserName string `env:"DB_USER_NAME" env-default:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" env-default:"shikshachain"`
	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBSSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`

	// Redis verification cache
	RedisURL             string        `env:"REDIS_URL"`
	VerificationCacheTTL time.Duration `env:"VERIFICATION_CACHE_TTL" env-default:"5m"`

	// HTTP security
	AllowedOrigins    string        `env:"ALLOWED_ORIGINS" env-default:"*"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" env-default:"0"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`

	// Issuer guard (disabled when the secret is empty)
	IssuerJWTSecret string        `env:"ISSUER_JWT_SECRET"`
	IssuerJWTIssuer string        `env:"ISSUER_JWT_ISSUER" env-default:"shikshachain-api"`
	IssuerTokenTTL  time.Duration `env:"ISSUER_TOKEN_TTL" env-default:"24h"`

	// DigitalOcean Spaces for degree PDFs
	SpacesKey      string `env:"DO_SPACES_KEY"`
	SpacesSecret   string `env:"DO_SPACES_SECRET"`
	SpacesBucket   string `env:"DO_SPACES_BUCKET"`
	SpacesRegion   string `env:"DO_SPACES_REGION"`
	SpacesEndpoint string `env:"DO_SPACES_ENDPOINT"`
	SpacesCDNURL   string `env:"DO_SPACES_CDN_URL"`

	CronEnabled  bool `env:"CRON_ENABLED" env-default:"true"`
	SeedDemoData bool `env:"SEED_DEMO_DATA" env-default:"false"`
}

// Get reads the environment into an EnvironmentVariable
func Get() (*EnvironmentVariable, error) {
	var env EnvironmentVariable
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	switch env.DBDriver {
	case DriverGORM, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown DB_DRIVER %q", env.DBDriver)
	}

	return &env, nil
}

// IsProduction reports whether GO_ENV is production
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GoEnv == "production"
}

// PostgresDSN builds the key/value DSN shared by the GORM and lib/pq stores
func (e *EnvironmentVariable) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		e.DBHost,
		e.DBUserName,
		e.DBPassword,
		e.DBName,
		e.DBPort,
		e.DBSSLMode,
	)
}

// SpacesEnabled reports whether the Spaces credentials are present.
// DO_SPACES_ENDPOINT is optional and derived from the region.
func (e *EnvironmentVariable) SpacesEnabled() bool {
	return e.SpacesKey != "" && e.SpacesSecret != "" && e.SpacesBucket != "" && e.SpacesRegion != ""
}
