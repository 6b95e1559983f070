package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string        `env:"APP_ADDR" envDefault:":8080"`
	Environment    string        `env:"APP_ENV" envDefault:"development"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	DBMaxConns     int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns     int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"8h"`
	UploadDir      string        `env:"UPLOAD_DIR" envDefault:"uploads"`
	TicketFilesDir string        `env:"TICKET_FILES_DIR" envDefault:"ticketfiles"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	RunSeed        bool          `env:"RUN_SEED" envDefault:"true"`
	SeedAdminEmail string        `env:"SEED_ADMIN_EMAIL" envDefault:""`
	SeedAdminPass  string        `env:"SEED_ADMIN_PASSWORD" envDefault:""`
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load(envPath string) (Config, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" && c.RunSeed && strings.TrimSpace(c.SeedAdminPass) == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
	}
	if c.MaxUploadBytes < 1024 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least 1024")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
