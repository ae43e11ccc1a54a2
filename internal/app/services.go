package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard/steps"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/services"
)

type Services struct {
	Wizard           wizard.Usecases
	Language         services.LanguageService
	ServiceSelection services.ServiceSelectionService
	Delivery         services.DeliveryService
	Voice            services.VoiceService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, metrics *observability.Metrics, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")
	variants, err := steps.LoadVariants(cfg.Wizard.VariantsFile)
	if err != nil {
		return Services{}, fmt.Errorf("load answer variants: %w", err)
	}
	tx := txn.NewGormTxRunner(db)

	// Nil clients must stay untyped nil so the consumers see "not configured".
	var llm services.TextGenerator
	if clients.LLM != nil {
		llm = clients.LLM
	}
	var events wizard.EventPublisher
	if clients.Events != nil {
		events = clients.Events
	}

	wiz := wizard.New(wizard.UsecasesDeps{
		Log:             log.With("module", "wizard"),
		Tx:              tx,
		Metrics:         metrics,
		Classifier:      steps.NewClassifier(llm, log, metrics),
		Matcher:         steps.NewMatcher(cfg.Wizard.MatchThreshold, variants),
		Mode:            cfg.Wizard.ResolverMode,
		Events:          events,
		SuggestionLimit: cfg.Wizard.SuggestionLimit,
		Questions:       reposet.Question,
		Answers:         reposet.Answer,
		Entries:         reposet.Entry,
		Sessions:        reposet.Session,
		Users:           reposet.User,
		Items:           reposet.MenuItem,
	})

	return Services{
		Wizard:           wiz,
		Language:         services.NewLanguageService(log, llm, tx, reposet.Session, reposet.User, reposet.Language),
		ServiceSelection: services.NewServiceSelectionService(log, llm, tx, reposet.User, reposet.Service, reposet.UserService),
		Delivery:         services.NewDeliveryService(log, clients.DoorDash, clients.Geocoder),
		Voice:            services.NewVoiceService(log, clients.Speech, reposet.Session, wiz),
	}, nil
}
