package steps

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

// Mode selects which resolver interprets free text.
type Mode string

const (
	ModeLLM            Mode = "llm"
	ModeMatcher        Mode = "matcher"
	ModeLLMThenMatcher Mode = "llm_then_matcher"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLLM, "":
		return ModeLLM, true
	case ModeMatcher:
		return ModeMatcher, true
	case ModeLLMThenMatcher:
		return ModeLLMThenMatcher, true
	default:
		return "", false
	}
}

type ResolveDeps struct {
	Log        *logger.Logger
	Answers    repos.AnswerRepo
	Classifier *Classifier
	Matcher    Matcher
	Mode       Mode
	Suggest    SuggestDeps
	// SuggestionLimit caps suggested items; zero means DefaultSuggestionLimit.
	SuggestionLimit int
}

// Resolve drives one turn from RECEIVED to a terminal Resolution. It never
// persists anything. Classifier transport failures are recovered here; the
// only errors returned come from loading candidates.
func Resolve(ctx context.Context, deps ResolveDeps, in TurnInput) (Resolution, error) {
	ctx, span := observability.Tracer().Start(ctx, "wizard.resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("wizard.question_key", in.QuestionKey),
		attribute.String("wizard.channel", string(in.Channel)),
		attribute.String("wizard.mode", string(deps.Mode)),
	)

	res, err := resolve(ctx, deps, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("wizard.outcome", string(res.Outcome())))
	return res, nil
}

func resolve(ctx context.Context, deps ResolveDeps, in TurnInput) (Resolution, error) {
	if deps.Answers == nil {
		return nil, fmt.Errorf("wizard resolve: missing deps")
	}
	text := strings.TrimSpace(in.Text)
	hint := strings.TrimSpace(deref(in.AnswerKey))

	if text == "" {
		if hint == "" {
			return Ambiguous{Reason: ReasonEmptyInput}, nil
		}
		return fromHint(ctx, deps, in, text, hint, SourceDirect), nil
	}

	candidates, err := LoadCandidates(ctx, deps.Answers, in.QuestionKey)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		if hint != "" {
			return fromHint(ctx, deps, in, text, hint, SourceHint), nil
		}
		return Ambiguous{Reason: ReasonNoCandidates}, nil
	}

	mode := deps.Mode
	if mode == "" {
		mode = ModeLLM
	}
	if mode == ModeMatcher {
		return matchText(ctx, deps, in, text, candidates), nil
	}

	cls, err := deps.Classifier.Classify(ctx, text, in.QuestionKey, candidates)
	if err != nil {
		if !errs.IsCode(err, errs.CodeTransport) {
			return nil, err
		}
		if hint != "" {
			return fromHint(ctx, deps, in, text, hint, SourceHint), nil
		}
		if mode == ModeLLMThenMatcher {
			return matchText(ctx, deps, in, text, candidates), nil
		}
		return Ambiguous{Reason: ReasonTransport}, nil
	}

	switch cls.Kind {
	case ClassAnswer:
		return Resolved{AnswerKey: cls.AnswerKey, Via: SourceClassifier}, nil
	case ClassSuggestion:
		return suggest(ctx, deps, in, text), nil
	default:
		return Ambiguous{Reason: ReasonNotUnderstood}, nil
	}
}

// fromHint resolves a caller-supplied answer key. Reserved keys take the
// same paths as the classifier's special answers.
func fromHint(ctx context.Context, deps ResolveDeps, in TurnInput, text, hint string, via Source) Resolution {
	switch hint {
	case conversation.AnswerKeySorry:
		return Ambiguous{Reason: ReasonNotUnderstood}
	case conversation.AnswerKeySuggestion:
		return suggest(ctx, deps, in, text)
	default:
		return Resolved{AnswerKey: hint, Via: via}
	}
}

func matchText(ctx context.Context, deps ResolveDeps, in TurnInput, text string, candidates []Candidate) Resolution {
	if key, ok := deps.Matcher.Match(text, candidates); ok {
		return Resolved{AnswerKey: key, Via: SourceMatcher}
	}
	if looksLikeSuggestionRequest(text) {
		return suggest(ctx, deps, in, text)
	}
	return Ambiguous{Reason: ReasonNoMatch}
}

func suggest(ctx context.Context, deps ResolveDeps, in TurnInput, text string) Resolution {
	diet := ExtractDiet(text)
	return Suggested{
		Diet: diet,
		Text: Suggest(ctx, deps.Suggest, diet, in.Language, deps.SuggestionLimit),
	}
}

var suggestionPhrases = []string{
	"suggest",
	"recommend",
	"what should i",
	"what's good",
	"whats good",
	"surprise me",
	"ideas",
}

func looksLikeSuggestionRequest(text string) bool {
	return containsAny(strings.ToLower(text), suggestionPhrases...)
}
