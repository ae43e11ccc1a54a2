package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/doordash"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/gcp"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/geocoding"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/openai"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/redisbus"
)

// Clients holds the external integrations. Every field may be nil when the
// integration is not configured.
type Clients struct {
	LLM      openai.Client
	Events   redisbus.Publisher
	Speech   gcp.Transcriber
	DoorDash doordash.Client
	Geocoder geocoding.Geocoder
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// OpenAI
	if strings.TrimSpace(cfg.OpenAI.APIKey) != "" {
		c, err := openai.NewClient(log, metrics, cfg.OpenAI)
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.LLM = c
	} else if cfg.Wizard.ResolverMode != "matcher" {
		log.Warn("OPENAI_API_KEY not set; free-text turns will resolve as ambiguous unless WIZARD_RESOLVER_MODE=matcher")
	}

	// Redis
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		p, err := redisbus.NewPublisher(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis publisher: %w", err)
		}
		out.Events = p
	}

	// Gcp
	if cfg.SpeechEnabled {
		t, err := gcp.NewSpeechTranscriber(ctx, log)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init speech client: %w", err)
		}
		out.Speech = t
	}

	// DoorDash
	if cfg.DoorDash.Enabled() {
		dd, err := doordash.NewClient(log, cfg.DoorDash)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init doordash client: %w", err)
		}
		out.DoorDash = dd
	}

	// Nominatim
	if cfg.GeocodingEnabled {
		g, err := geocoding.NewNominatim(log, cfg.Geocoding)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init geocoder: %w", err)
		}
		out.Geocoder = g
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Events != nil {
		_ = c.Events.Close()
	}
	if c.Speech != nil {
		_ = c.Speech.Close()
	}
}
