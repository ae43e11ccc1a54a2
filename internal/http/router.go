package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/HariKrishnaKumar/bitewise-backend/internal/http/handlers"
	httpMW "github.com/HariKrishnaKumar/bitewise-backend/internal/http/middleware"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	RequestTimeout time.Duration

	HealthHandler           *httpH.HealthHandler
	WizardHandler           *httpH.WizardHandler
	VoiceHandler            *httpH.VoiceHandler
	LanguageHandler         *httpH.LanguageHandler
	ServiceSelectionHandler *httpH.ServiceSelectionHandler
	DeliveryHandler         *httpH.DeliveryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestContext(cfg.RequestTimeout))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Catalog
		if cfg.WizardHandler != nil {
			api.GET("/questions", cfg.WizardHandler.ListQuestions)
			api.GET("/questions/:key", cfg.WizardHandler.GetQuestion)
		}

		// Wizard
		conv := api.Group("/conversation")
		if cfg.WizardHandler != nil {
			conv.POST("/wizard/step", cfg.WizardHandler.Step)
			conv.POST("/wizard/next", cfg.WizardHandler.Next)
			conv.GET("/history/:session_id", cfg.WizardHandler.History)
			conv.POST("/match", cfg.WizardHandler.Match)
		}
		if cfg.VoiceHandler != nil {
			conv.POST("/voice/audio", cfg.VoiceHandler.SubmitAudio)
		}

		// Language
		if cfg.LanguageHandler != nil {
			api.POST("/language/select", cfg.LanguageHandler.Select)
			api.GET("/language/:session_id", cfg.LanguageHandler.SessionLanguage)
			api.GET("/languages", cfg.LanguageHandler.List)
		}

		// Services
		if cfg.ServiceSelectionHandler != nil {
			api.POST("/services/select", cfg.ServiceSelectionHandler.Select)
			api.GET("/services", cfg.ServiceSelectionHandler.List)
			api.GET("/services/user/:user_id", cfg.ServiceSelectionHandler.ListByUser)
		}

		// Delivery
		if cfg.DeliveryHandler != nil {
			api.POST("/delivery", cfg.DeliveryHandler.Create)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})
	return r
}
