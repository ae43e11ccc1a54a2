package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/language"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

var languageDetectionPrompt = strings.Join([]string{
	"ROLE: You detect which languages a food-ordering customer says they speak.",
	"TASK: Extract every language the customer claims to speak or prefer.",
	"RULES:",
	"- Return language names in English (English, Spanish, French, German, Chinese, ...).",
	"- Several languages: return them comma-separated, preferred first.",
	"- A language the customer says they do NOT know is not a preference.",
	"- No specific language, or \"all languages\": return English.",
	"EXAMPLES:",
	"- \"I speak Spanish\" -> Spanish",
	"- \"I know French and German\" -> French, German",
	"- \"I don't know Chinese\" -> English",
	"- \"I can speak French, but I also understand German\" -> French, German",
	"- \"I know all languages\" -> English",
	"OUTPUT: Only the language names. No explanation.",
}, "\n")

type SelectLanguageInput struct {
	SessionID *string
	UserID    *string
	Text      string
	InputType string
}

type LanguageSelection struct {
	SessionID         string   `json:"session_id"`
	Language          string   `json:"language"`
	LanguageCode      string   `json:"language_code"`
	DetectedLanguages []string `json:"detected_languages"`
}

type LanguageService interface {
	// Detect never fails; it falls back to English.
	Detect(ctx context.Context, text string) []string
	Select(ctx context.Context, in SelectLanguageInput) (*LanguageSelection, error)
	SessionLanguage(ctx context.Context, sessionID string) (string, error)
	ListActive(ctx context.Context) ([]*types.Language, error)
}

type languageService struct {
	log       *logger.Logger
	ai        TextGenerator
	tx        txn.TxRunner
	sessions  repos.SessionRepo
	users     repos.UserRepo
	languages repos.LanguageRepo
}

func NewLanguageService(
	baseLog *logger.Logger,
	ai TextGenerator,
	tx txn.TxRunner,
	sessions repos.SessionRepo,
	users repos.UserRepo,
	languages repos.LanguageRepo,
) LanguageService {
	return &languageService{
		log:       baseLog.With("service", "LanguageService"),
		ai:        ai,
		tx:        tx,
		sessions:  sessions,
		users:     users,
		languages: languages,
	}
}

func (s *languageService) Detect(ctx context.Context, text string) []string {
	fallback := []string{language.DefaultName}
	if s.ai == nil || strings.TrimSpace(text) == "" {
		return fallback
	}
	raw, err := s.ai.GenerateText(ctx, languageDetectionPrompt, userTextBlock(text))
	if err != nil {
		s.log.Warn("language detection failed", "error", err)
		return fallback
	}
	names := parseNameList(raw)
	if len(names) == 0 {
		return fallback
	}
	return names
}

func (s *languageService) Select(ctx context.Context, in SelectLanguageInput) (*LanguageSelection, error) {
	const op = "language.select"
	if strings.TrimSpace(in.Text) == "" {
		return nil, errs.Validation(op, "text is required")
	}
	detected := s.Detect(ctx, in.Text)
	primary := detected[0]
	code := language.CodeForName(primary)

	sessionID := uuid.NewString()
	if in.SessionID != nil && strings.TrimSpace(*in.SessionID) != "" {
		sessionID = strings.TrimSpace(*in.SessionID)
	}
	userID := trimmed(in.UserID)

	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if userID != nil {
			if _, err := s.users.EnsureGuest(dbc, *userID, nil); err != nil {
				return err
			}
		}
		_, err := s.sessions.SaveSelection(dbc, &types.Session{
			ID:        sessionID,
			UserID:    userID,
			Language:  code,
			InputType: conversation.NormalizeInputType(in.InputType),
		})
		return err
	})
	if err != nil {
		return nil, txn.MapError(op, err)
	}
	s.log.Info("language selected", "session_id", sessionID, "language", primary, "language_code", code)
	return &LanguageSelection{
		SessionID:         sessionID,
		Language:          primary,
		LanguageCode:      code,
		DetectedLanguages: detected,
	}, nil
}

func (s *languageService) SessionLanguage(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.sessions.GetByID(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return "", txn.MapError("language.session", err)
	}
	return sess.LanguageOrDefault(), nil
}

func (s *languageService) ListActive(ctx context.Context) ([]*types.Language, error) {
	out, err := s.languages.ListActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, txn.MapError("language.list", err)
	}
	return out, nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
