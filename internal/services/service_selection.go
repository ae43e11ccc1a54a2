package services

import (
	"context"
	"strings"
	"time"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/fulfillment"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

var serviceDetectionPrompt = strings.Join([]string{
	"ROLE: You identify which food service a customer is asking for.",
	"TASK: Map the customer's message to the services below.",
	"SERVICES:",
	"- Delivery: home delivery to the customer's address",
	"- Pickup: the customer collects the food, takeaway",
	"- Reservation: a table booking for dining in",
	"- Catering: food for parties and bulk orders",
	"- Events: special event planning with food service",
	"RULES:",
	"- Return service names exactly as written above.",
	"- Several services: return them comma-separated, preferred first.",
	"- No specific service: return Delivery.",
	"EXAMPLES:",
	"- \"I want delivery at my house\" -> Delivery",
	"- \"I'll pick it up myself\" -> Pickup",
	"- \"I need catering for my event\" -> Catering",
	"- \"I need both delivery and catering\" -> Delivery, Catering",
	"OUTPUT: Only the service names. No explanation.",
}, "\n")

type SelectServiceInput struct {
	UserID    string
	Text      string
	InputType string
}

type ServiceSelection struct {
	UserID           string             `json:"user_id"`
	Service          string             `json:"service"`
	DetectedServices []string           `json:"detected_services"`
	Selection        *types.UserService `json:"selection"`
}

type ServiceSelectionService interface {
	// Detect never fails; it falls back to Delivery.
	Detect(ctx context.Context, text string) []string
	Select(ctx context.Context, in SelectServiceInput) (*ServiceSelection, error)
	ListActive(ctx context.Context) ([]*types.Service, error)
	ListByUser(ctx context.Context, userID string) ([]*types.UserService, error)
}

type serviceSelectionService struct {
	log          *logger.Logger
	ai           TextGenerator
	tx           txn.TxRunner
	users        repos.UserRepo
	services     repos.ServiceRepo
	userServices repos.UserServiceRepo
	now          func() time.Time
}

func NewServiceSelectionService(
	baseLog *logger.Logger,
	ai TextGenerator,
	tx txn.TxRunner,
	users repos.UserRepo,
	services repos.ServiceRepo,
	userServices repos.UserServiceRepo,
) ServiceSelectionService {
	return &serviceSelectionService{
		log:          baseLog.With("service", "ServiceSelectionService"),
		ai:           ai,
		tx:           tx,
		users:        users,
		services:     services,
		userServices: userServices,
		now:          time.Now,
	}
}

func (s *serviceSelectionService) Detect(ctx context.Context, text string) []string {
	fallback := []string{fulfillment.DefaultServiceName}
	if s.ai == nil || strings.TrimSpace(text) == "" {
		return fallback
	}
	raw, err := s.ai.GenerateText(ctx, serviceDetectionPrompt, userTextBlock(text))
	if err != nil {
		s.log.Warn("service detection failed", "error", err)
		return fallback
	}
	var out []string
	for _, name := range parseNameList(raw) {
		if canon, ok := canonicalServiceName(name); ok {
			out = append(out, canon)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (s *serviceSelectionService) Select(ctx context.Context, in SelectServiceInput) (*ServiceSelection, error) {
	const op = "services.select"
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, errs.Validation(op, "user_id is required")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, errs.Validation(op, "text is required")
	}
	detected := s.Detect(ctx, in.Text)
	primary := detected[0]

	var selection *types.UserService
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		svc, err := s.services.GetActiveByName(dbc, primary)
		if err != nil {
			return err
		}
		if svc == nil {
			return errs.NewError(errs.CodePreconditionFailed, op, "service "+primary+" is not available", nil)
		}
		if _, err := s.users.EnsureGuest(dbc, userID, nil); err != nil {
			return err
		}
		selection, err = s.userServices.Upsert(dbc, userID, svc.ID, conversation.NormalizeInputType(in.InputType), s.now().UTC())
		return err
	})
	if err != nil {
		return nil, txn.MapError(op, err)
	}
	s.log.Info("service selected", "user_id", userID, "service", primary)
	return &ServiceSelection{
		UserID:           userID,
		Service:          primary,
		DetectedServices: detected,
		Selection:        selection,
	}, nil
}

func (s *serviceSelectionService) ListActive(ctx context.Context) ([]*types.Service, error) {
	out, err := s.services.ListActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, txn.MapError("services.list", err)
	}
	return out, nil
}

func (s *serviceSelectionService) ListByUser(ctx context.Context, userID string) ([]*types.UserService, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.Validation("services.list_by_user", "user_id is required")
	}
	out, err := s.userServices.ListByUser(dbctx.Context{Ctx: ctx}, strings.TrimSpace(userID))
	if err != nil {
		return nil, txn.MapError("services.list_by_user", err)
	}
	return out, nil
}

func canonicalServiceName(name string) (string, bool) {
	for _, canon := range fulfillment.ServiceNames {
		if strings.EqualFold(strings.TrimSpace(name), canon) {
			return canon, true
		}
	}
	return "", false
}
