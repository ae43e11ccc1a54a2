package wizard

import (
	"context"
	"strings"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard/steps"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
)

func (u Usecases) Next(ctx context.Context, in NextInput) (NextOutput, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		return NextOutput{}, errs.Validation("wizard.next", "session_id is required")
	}
	out, err := steps.Next(ctx, steps.NextDeps{
		Log:       u.deps.Log,
		Questions: u.deps.Questions,
		Answers:   u.deps.Answers,
		Sessions:  u.deps.Sessions,
	}, in)
	if err != nil {
		return NextOutput{}, txn.MapError("wizard.next", err)
	}
	return out, nil
}

// History lists a session's turns oldest first.
func (u Usecases) History(ctx context.Context, sessionID string) ([]*types.ConversationEntry, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errs.Validation("wizard.history", "session_id is required")
	}
	rows, err := u.deps.Entries.ListBySession(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return nil, txn.MapError("wizard.history", err)
	}
	return rows, nil
}

// Questions lists the active wizard in order, localized to language.
func (u Usecases) Questions(ctx context.Context, language string) ([]QuestionView, error) {
	qs, err := u.deps.Questions.ListActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, txn.MapError("wizard.questions", err)
	}
	views, err := steps.LocalizeQuestions(ctx, u.localizeDeps(), qs, language)
	if err != nil {
		return nil, txn.MapError("wizard.questions", err)
	}
	return views, nil
}

// Question returns one active question, or a not_found error.
func (u Usecases) Question(ctx context.Context, key, language string) (*QuestionView, error) {
	key = strings.TrimSpace(key)
	q, err := u.deps.Questions.GetByKey(dbctx.Context{Ctx: ctx}, key)
	if err != nil {
		return nil, txn.MapError("wizard.question", err)
	}
	if q == nil || !q.IsActive {
		return nil, errs.NewError(errs.CodeNotFound, "wizard.question", "question "+key+" not found", nil)
	}
	views, err := steps.LocalizeQuestions(ctx, u.localizeDeps(), []*types.Question{q}, language)
	if err != nil {
		return nil, txn.MapError("wizard.question", err)
	}
	return &views[0], nil
}

func (u Usecases) localizeDeps() steps.LocalizeDeps {
	return steps.LocalizeDeps{Questions: u.deps.Questions, Answers: u.deps.Answers}
}

// Match strategies for the read-only match probe.
const (
	StrategyMatcher = "matcher"
	StrategyLLM     = "llm"
)

type MatchInput struct {
	QuestionKey string
	Text        string
	Strategy    string
}

type MatchOutput struct {
	QuestionKey string  `json:"question_key"`
	Strategy    string  `json:"strategy"`
	AnswerKey   *string `json:"answer_key"`
	// Kind is the classifier verdict; empty for the matcher strategy.
	Kind string `json:"kind,omitempty"`
}

// Match interprets text against a question without recording a turn.
func (u Usecases) Match(ctx context.Context, in MatchInput) (MatchOutput, error) {
	in.QuestionKey = strings.TrimSpace(in.QuestionKey)
	strategy := strings.ToLower(strings.TrimSpace(in.Strategy))
	if strategy == "" {
		strategy = StrategyMatcher
	}
	out := MatchOutput{QuestionKey: in.QuestionKey, Strategy: strategy}
	if in.QuestionKey == "" {
		return out, errs.Validation("wizard.match", "question_key is required")
	}
	if strategy != StrategyMatcher && strategy != StrategyLLM {
		return out, errs.Validation("wizard.match", "strategy must be matcher or llm")
	}
	if err := u.requireActiveQuestion(ctx, "wizard.match", in.QuestionKey); err != nil {
		return out, err
	}

	if strategy == StrategyMatcher {
		key, ok, err := steps.MatchAnswer(ctx, steps.MatchDeps{Answers: u.deps.Answers, Matcher: u.deps.Matcher}, in.Text, in.QuestionKey)
		if err != nil {
			return out, txn.MapError("wizard.match", err)
		}
		if ok {
			out.AnswerKey = &key
		}
		return out, nil
	}

	cands, err := steps.LoadCandidates(ctx, u.deps.Answers, in.QuestionKey)
	if err != nil {
		return out, txn.MapError("wizard.match", err)
	}
	cls, err := u.deps.Classifier.Classify(ctx, in.Text, in.QuestionKey, cands)
	if err != nil {
		return out, err
	}
	out.Kind = string(cls.Kind)
	switch cls.Kind {
	case steps.ClassAnswer:
		key := cls.AnswerKey
		out.AnswerKey = &key
	case steps.ClassSuggestion:
		key := types.AnswerKeySuggestion
		out.AnswerKey = &key
	}
	return out, nil
}
