package app

import (
	"github.com/gin-gonic/gin"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/http"
	httpH "github.com/HariKrishnaKumar/bitewise-backend/internal/http/handlers"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type Handlers struct {
	Health           *httpH.HealthHandler
	Wizard           *httpH.WizardHandler
	Voice            *httpH.VoiceHandler
	Language         *httpH.LanguageHandler
	ServiceSelection *httpH.ServiceSelectionHandler
	Delivery         *httpH.DeliveryHandler
}

func wireHandlers(log *logger.Logger, db httpH.Pinger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:           httpH.NewHealthHandler(db),
		Wizard:           httpH.NewWizardHandler(services.Wizard),
		Voice:            httpH.NewVoiceHandler(services.Voice),
		Language:         httpH.NewLanguageHandler(services.Language),
		ServiceSelection: httpH.NewServiceSelectionHandler(services.ServiceSelection),
		Delivery:         httpH.NewDeliveryHandler(services.Delivery),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:                     log,
		Metrics:                 metrics,
		ServiceName:             cfg.ServiceName,
		CORSOrigins:             cfg.CORSOrigins,
		RequestTimeout:          cfg.RequestTimeout,
		HealthHandler:           handlers.Health,
		WizardHandler:           handlers.Wizard,
		VoiceHandler:            handlers.Voice,
		LanguageHandler:         handlers.Language,
		ServiceSelectionHandler: handlers.ServiceSelection,
		DeliveryHandler:         handlers.Delivery,
	})
}
