package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/db"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard/steps"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/doordash"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/envutil"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/geocoding"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/openai"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/redisbus"
)

type WizardConfig struct {
	ResolverMode    steps.Mode
	VariantsFile    string
	SuggestionLimit int
	MatchThreshold  float64
}

type Config struct {
	Env             string
	ServiceName     string
	Port            string
	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool

	DB     db.Config
	Wizard WizardConfig

	OpenAI           openai.Config
	Redis            redisbus.Config
	SpeechEnabled    bool
	DoorDash         doordash.Config
	GeocodingEnabled bool
	Geocoding        geocoding.Config
}

func LoadConfig(log *logger.Logger) (Config, error) {
	modeRaw := envutil.String("WIZARD_RESOLVER_MODE", string(steps.ModeLLM), log)
	mode, ok := steps.ParseMode(modeRaw)
	if !ok {
		return Config{}, fmt.Errorf("invalid WIZARD_RESOLVER_MODE %q (want llm, matcher or llm_then_matcher)", modeRaw)
	}
	limit := envutil.Int("WIZARD_SUGGESTION_LIMIT", steps.DefaultSuggestionLimit)
	if limit <= 0 {
		limit = steps.DefaultSuggestionLimit
	}

	cfg := Config{
		Env:             envutil.String("LOG_MODE", "development", log),
		ServiceName:     envutil.String("OTEL_SERVICE_NAME", "bitewise-backend", log),
		Port:            envutil.String("PORT", "8080", log),
		CORSOrigins:     splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		RequestTimeout:  envutil.Duration("HTTP_REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),
		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", true),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", "postgres", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "bitewise", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "bitewise.db", log),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 5),
		},
		Wizard: WizardConfig{
			ResolverMode:    mode,
			VariantsFile:    envutil.String("WIZARD_VARIANTS_FILE", "", log),
			SuggestionLimit: limit,
			MatchThreshold:  envutil.Float("WIZARD_MATCH_THRESHOLD", steps.DefaultMatchThreshold),
		},

		OpenAI: openai.ConfigFromEnv(),
		Redis: redisbus.Config{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", nil),
			DB:       envutil.Int("REDIS_DB", 0),
			Channel:  envutil.String("REDIS_CHANNEL", "wizard", log),
		},
		SpeechEnabled: envutil.Bool("GOOGLE_SPEECH_ENABLED", false),
		DoorDash: doordash.Config{
			URL:           envutil.String("DOORDASH_API_URL", doordash.DefaultURL, log),
			DeveloperID:   envutil.String("DOORDASH_DEVELOPER_ID", "", log),
			KeyID:         envutil.String("DOORDASH_KEY_ID", "", log),
			SigningSecret: envutil.String("DOORDASH_SIGNING_SECRET", "", nil),
			Timeout:       envutil.Duration("DOORDASH_TIMEOUT", 15*time.Second),
		},
		GeocodingEnabled: envutil.Bool("NOMINATIM_ENABLED", true),
		Geocoding: geocoding.Config{
			BaseURL:    envutil.String("NOMINATIM_BASE_URL", geocoding.DefaultBaseURL, log),
			Timeout:    envutil.Duration("NOMINATIM_TIMEOUT", 10*time.Second),
			MaxRetries: envutil.Int("NOMINATIM_MAX_RETRIES", 2),
		},
	}
	return cfg, nil
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
