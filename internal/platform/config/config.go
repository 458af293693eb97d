package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config se carga desde env (y opcionalmente desde un .env en el cwd).
type Config struct {
	Port string `env:"PORT,default=8080"`

	// Storage: MONGO_URL tiene prioridad, luego DB_DSN (Postgres); si no hay ninguno, in-memory.
	MongoURL    string `env:"MONGO_URL"`
	DBName      string `env:"DB_NAME,default=rafikipets"`
	PostgresDSN string `env:"DB_DSN"`
	RedisURL    string `env:"REDIS_URL"`

	StripeAPIKey        string `env:"STRIPE_API_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	IdentityBaseURL string        `env:"IDENTITY_BASE_URL,default=https://demobackend.emergentagent.com"`
	IdentityTimeout time.Duration `env:"IDENTITY_TIMEOUT,default=10s"`

	CORSOrigins string `env:"CORS_ORIGINS,default=*"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
	AppName   string `env:"APP_NAME,default=rafikipets-api"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load lee .env si existe y decodifica el entorno.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, err
	}
	return cfg, nil
}

// AllowedOrigins parte CORS_ORIGINS (CSV). Vacío => "*".
func (c Config) AllowedOrigins() []string {
	out := make([]string, 0)
	for _, p := range strings.Split(c.CORSOrigins, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
