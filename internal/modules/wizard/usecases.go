package wizard

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard/steps"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log     *logger.Logger
	Tx      txn.TxRunner
	Metrics *observability.Metrics

	Classifier *steps.Classifier
	Matcher    steps.Matcher
	Mode       steps.Mode
	Events     EventPublisher

	SuggestionLimit int

	Questions repos.QuestionRepo
	Answers   repos.AnswerRepo
	Entries   repos.ConversationEntryRepo
	Sessions  repos.SessionRepo
	Users     repos.UserRepo
	Items     repos.MenuItemRepo
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	TurnInput    = steps.TurnInput
	NextInput    = steps.NextInput
	NextOutput   = steps.NextOutput
	QuestionView = steps.QuestionView
	Resolution   = steps.Resolution
)

type TurnOutput struct {
	Entry             *types.ConversationEntry `json:"turn"`
	Matched           bool                     `json:"matched"`
	ResolvedAnswerKey *string                  `json:"resolved_answer_key,omitempty"`
	Outcome           steps.Outcome            `json:"resolution"`
	Message           string                   `json:"message"`
}

// SubmitTurn resolves one wizard step and records exactly one entry for it.
// Ambiguous and suggested outcomes are successful turns.
func (u Usecases) SubmitTurn(ctx context.Context, in TurnInput) (TurnOutput, error) {
	out := TurnOutput{}
	in.QuestionKey = strings.TrimSpace(in.QuestionKey)
	if in.QuestionKey == "" {
		return out, errs.Validation("wizard.turn", "question_key is required")
	}
	channel, ok := conversation.ParseChannel(string(in.Channel))
	if !ok {
		return out, errs.Validation("wizard.turn", "channel must be select or voice")
	}
	in.Channel = channel
	if err := u.requireActiveQuestion(ctx, "wizard.turn", in.QuestionKey); err != nil {
		return out, err
	}
	if strings.TrimSpace(in.Language) == "" {
		lang, err := u.sessionLanguage(ctx, deref(in.SessionID))
		if err != nil {
			return out, txn.MapError("wizard.turn", err)
		}
		in.Language = lang
	}

	res, err := steps.Resolve(ctx, steps.ResolveDeps{
		Log:        u.deps.Log,
		Answers:    u.deps.Answers,
		Classifier: u.deps.Classifier,
		Matcher:    u.deps.Matcher,
		Mode:       u.deps.Mode,
		Suggest: steps.SuggestDeps{
			Log:     u.deps.Log,
			Items:   u.deps.Items,
			Metrics: u.deps.Metrics,
		},
		SuggestionLimit: u.deps.SuggestionLimit,
	}, in)
	if err != nil {
		return out, txn.MapError("wizard.resolve", err)
	}

	rec := steps.RecordInput{
		SessionID:   in.SessionID,
		UserID:      in.UserID,
		QuestionKey: in.QuestionKey,
		CustomInput: nonEmpty(strings.TrimSpace(in.Text)),
		Channel:     in.Channel,
	}
	switch r := res.(type) {
	case steps.Resolved:
		rec.AnswerKey = &r.AnswerKey
		apology := steps.ApologyMessage
		rec.ResponseIfDowngraded = &apology
	case steps.Ambiguous:
		apology := steps.ApologyMessage
		rec.ResponseText = &apology
	case steps.Suggested:
		key := conversation.AnswerKeySuggestion
		rec.AnswerKey = &key
		text := r.Text
		rec.ResponseText = &text
	}

	rec.Metadata = resolutionTrace(u.deps.Mode, res)

	recorded, err := steps.Record(ctx, u.recordDeps(), rec)
	if err != nil {
		return out, err
	}
	outcome := res.Outcome()
	if recorded.Downgraded {
		outcome = steps.OutcomeAmbiguous
	}
	entry := recorded.Entry

	out.Entry = entry
	out.Outcome = outcome
	out.ResolvedAnswerKey = entry.AnswerKey
	out.Matched = entry.AnswerKey != nil && !conversation.IsSentinel(*entry.AnswerKey)
	switch outcome {
	case steps.OutcomeAmbiguous:
		out.Message = steps.ApologyMessage
	case steps.OutcomeSuggested:
		out.Message = deref(entry.ResponseText)
	}

	u.deps.Metrics.ObserveResolution(string(in.Channel), string(outcome))
	if u.deps.Log != nil {
		u.deps.Log.Info("wizard turn recorded",
			"entry_id", entry.ID,
			"session_id", deref(entry.SessionID),
			"question_key", entry.QuestionKey,
			"outcome", outcome,
		)
	}
	u.publishTurn(ctx, TurnEvent{
		Type:        EventTurnRecorded,
		EntryID:     entry.ID,
		SessionID:   entry.SessionID,
		QuestionKey: entry.QuestionKey,
		AnswerKey:   entry.AnswerKey,
		Channel:     string(entry.SelectType),
		Outcome:     outcome,
		At:          entry.CreatedAt,
	})
	return out, nil
}

func (u Usecases) recordDeps() steps.RecordDeps {
	return steps.RecordDeps{
		Log:       u.deps.Log,
		Tx:        u.deps.Tx,
		Questions: u.deps.Questions,
		Answers:   u.deps.Answers,
		Entries:   u.deps.Entries,
		Sessions:  u.deps.Sessions,
		Users:     u.deps.Users,
	}
}

func (u Usecases) requireActiveQuestion(ctx context.Context, op, key string) error {
	q, err := u.deps.Questions.GetByKey(dbctx.Context{Ctx: ctx}, key)
	if err != nil {
		return txn.MapError(op, err)
	}
	if q == nil {
		return errs.Validation(op, "unknown question %q", key)
	}
	if !q.IsActive {
		return errs.Validation(op, "question %q is not active", key)
	}
	return nil
}

func (u Usecases) sessionLanguage(ctx context.Context, sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || u.deps.Sessions == nil {
		return types.DefaultLanguage, nil
	}
	s, err := u.deps.Sessions.GetByID(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return "", err
	}
	return s.LanguageOrDefault(), nil
}

func resolutionTrace(mode steps.Mode, res steps.Resolution) datatypes.JSON {
	trace := map[string]any{
		"states": []string{steps.StateReceived, steps.StateResolving, strings.ToUpper(string(res.Outcome()))},
		"mode":   string(mode),
	}
	switch r := res.(type) {
	case steps.Resolved:
		trace["via"] = string(r.Via)
	case steps.Ambiguous:
		trace["reason"] = r.Reason
	case steps.Suggested:
		trace["diet"] = string(r.Diet)
	}
	raw, err := json.Marshal(trace)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
