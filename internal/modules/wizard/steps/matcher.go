package steps

import (
	"context"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
)

const DefaultMatchThreshold = 0.6

// Matcher scores an utterance against candidate answer texts with a
// SequenceMatcher ratio over runes.
type Matcher struct {
	threshold float64
	variants  Variants
}

func NewMatcher(threshold float64, variants Variants) Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	return Matcher{threshold: threshold, variants: variants}
}

func (m Matcher) Threshold() float64 { return m.threshold }

// Similarity is the case- and whitespace-insensitive ratio in [0,1].
func Similarity(a, b string) float64 {
	ra := runeTokens(strings.ToLower(strings.TrimSpace(a)))
	rb := runeTokens(strings.ToLower(strings.TrimSpace(b)))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	return difflib.NewMatcher(ra, rb).Ratio()
}

// Score is the best similarity between utterance and the candidate text or
// any of its variants.
func (m Matcher) Score(utterance string, c Candidate) float64 {
	best := Similarity(utterance, c.Text)
	for _, v := range m.variants.For(c.Text) {
		if s := Similarity(utterance, v); s > best {
			best = s
		}
	}
	return best
}

// Match returns the highest-scoring candidate key at or above the
// threshold. Earlier candidates win ties.
func (m Matcher) Match(utterance string, candidates []Candidate) (string, bool) {
	if strings.TrimSpace(utterance) == "" || len(candidates) == 0 {
		return "", false
	}
	bestKey := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := m.Score(utterance, c)
		if score > bestScore && score >= m.threshold {
			bestScore = score
			bestKey = c.Key
		}
	}
	return bestKey, bestKey != ""
}

type MatchDeps struct {
	Answers repos.AnswerRepo
	Matcher Matcher
}

// MatchAnswer runs the matcher against the question's active answers.
func MatchAnswer(ctx context.Context, deps MatchDeps, utterance, questionKey string) (string, bool, error) {
	cands, err := LoadCandidates(ctx, deps.Answers, questionKey)
	if err != nil {
		return "", false, err
	}
	key, ok := deps.Matcher.Match(utterance, cands)
	return key, ok, nil
}

// LoadCandidates lists the active answers of a question in display order.
func LoadCandidates(ctx context.Context, answers repos.AnswerRepo, questionKey string) ([]Candidate, error) {
	rows, err := answers.ListActiveByQuestion(dbctx.Context{Ctx: ctx}, questionKey)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(rows))
	for _, a := range rows {
		if a == nil {
			continue
		}
		out = append(out, Candidate{Key: a.AnswerKey, Text: a.AnswerText})
	}
	return out, nil
}

func runeTokens(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
