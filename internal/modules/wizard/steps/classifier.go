package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

// TextGenerator is the slice of openai.Client the classifier needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type ClassificationKind string

const (
	ClassAnswer     ClassificationKind = "answer"
	ClassSorry      ClassificationKind = "sorry"
	ClassSuggestion ClassificationKind = "suggestion"
)

// Classification is a validated classifier verdict. AnswerKey is set only
// for ClassAnswer.
type Classification struct {
	Kind      ClassificationKind
	AnswerKey string
	Raw       string
}

// noneToken is what the model is told to return when nothing fits.
const noneToken = "NONE"

type Classifier struct {
	ai      TextGenerator
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewClassifier(ai TextGenerator, log *logger.Logger, metrics *observability.Metrics) *Classifier {
	if log != nil {
		log = log.With("service", "IntentClassifier")
	}
	return &Classifier{ai: ai, log: log, metrics: metrics}
}

// Classify asks the model to map utterance onto one candidate key or a
// reserved sentinel. Any output that is not exactly a candidate key or a
// sentinel is reported as ClassSorry. A failed model call returns an
// errs.CodeTransport error.
func (c *Classifier) Classify(ctx context.Context, utterance, questionKey string, candidates []Candidate) (Classification, error) {
	if c == nil || c.ai == nil {
		c.observe("unavailable")
		return Classification{}, errs.Transport("wizard.classify", errs.ErrUnavailable)
	}
	if len(candidates) == 0 {
		c.observe("no_candidates")
		return Classification{Kind: ClassSorry}, nil
	}

	system, user := classifierPrompt(utterance, questionKey, candidates)
	raw, err := c.ai.GenerateText(ctx, system, user)
	if err != nil {
		c.observe("transport_error")
		if c.log != nil {
			c.log.Warn("intent classifier call failed", "question_key", questionKey, "error", err)
		}
		return Classification{}, errs.Transport("wizard.classify", err)
	}

	out := validateClassification(raw, candidates)
	c.observe(string(out.Kind))
	if c.log != nil {
		c.log.Debug("intent classified", "question_key", questionKey, "kind", out.Kind, "answer_key", out.AnswerKey)
	}
	return out, nil
}

func (c *Classifier) observe(result string) {
	if c == nil {
		return
	}
	c.metrics.ObserveClassifier(result)
}

func validateClassification(raw string, candidates []Candidate) Classification {
	got := strings.TrimSpace(raw)
	out := Classification{Kind: ClassSorry, Raw: raw}
	switch got {
	case conversation.AnswerKeySuggestion:
		out.Kind = ClassSuggestion
		return out
	case conversation.AnswerKeySorry, noneToken, "":
		return out
	}
	for _, cand := range candidates {
		if cand.Key == got {
			out.Kind = ClassAnswer
			out.AnswerKey = got
			return out
		}
	}
	return out
}

func classifierPrompt(utterance, questionKey string, candidates []Candidate) (string, string) {
	system := strings.Join([]string{
		"ROLE: You sort a food-ordering customer's reply into one of a fixed set of answer categories.",
		"TASK: Read the customer's message and pick the single category it best expresses.",
		"RULES:",
		"- Return exactly one category key from the list, copied verbatim.",
		"- If the customer asks for suggestions, recommendations, or asks a general question instead of choosing, return " + conversation.AnswerKeySuggestion + ".",
		"- If no category fits and it is not a suggestion request, return " + noneToken + ".",
		"OUTPUT: Only the key. No punctuation, quotes, or explanation.",
	}, "\n")

	var b strings.Builder
	for _, cand := range candidates {
		fmt.Fprintf(&b, "- %s: %s\n", cand.Key, cand.Text)
	}
	user := strings.Join([]string{
		"QUESTION_KEY: " + questionKey,
		"CATEGORIES:",
		strings.TrimRight(b.String(), "\n"),
		"CUSTOMER_MESSAGE: " + strings.TrimSpace(utterance),
	}, "\n")
	return system, user
}
