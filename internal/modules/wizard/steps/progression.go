package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type NextDeps struct {
	Log       *logger.Logger
	Questions repos.QuestionRepo
	Answers   repos.AnswerRepo
	Sessions  repos.SessionRepo
}

type NextInput struct {
	SessionID          string
	CurrentQuestionKey *string
	// Language overrides the session language.
	Language string
}

type NextOutput struct {
	Question  *QuestionView `json:"question"`
	Completed bool          `json:"completed"`
}

// Next returns the active question ranked right after the current one, or
// the first active question when no current key is given. It keeps no
// cursor; completion is reported when nothing ranks higher.
func Next(ctx context.Context, deps NextDeps, in NextInput) (NextOutput, error) {
	out := NextOutput{}
	if deps.Questions == nil || deps.Answers == nil {
		return out, fmt.Errorf("wizard next: missing deps")
	}
	dbc := dbctx.Context{Ctx: ctx}

	var after *int
	if current := strings.TrimSpace(deref(in.CurrentQuestionKey)); current != "" {
		q, err := deps.Questions.GetByKey(dbc, current)
		if err != nil {
			return out, err
		}
		if q == nil {
			return out, errs.Validation("wizard.next", "unknown question %q", current)
		}
		if !q.IsActive {
			return out, errs.Validation("wizard.next", "question %q is not active", current)
		}
		order := q.QuestionOrder
		after = &order
	}

	next, err := deps.Questions.FirstActiveAfter(dbc, after)
	if err != nil {
		return out, err
	}
	if next == nil {
		out.Completed = true
		return out, nil
	}

	language := strings.TrimSpace(in.Language)
	if language == "" && deps.Sessions != nil && strings.TrimSpace(in.SessionID) != "" {
		s, err := deps.Sessions.GetByID(dbc, strings.TrimSpace(in.SessionID))
		if err != nil {
			return out, err
		}
		language = s.LanguageOrDefault()
	}

	views, err := LocalizeQuestions(ctx, LocalizeDeps{Questions: deps.Questions, Answers: deps.Answers}, []*types.Question{next}, language)
	if err != nil {
		return out, err
	}
	if len(views) == 1 {
		out.Question = &views[0]
	}
	return out, nil
}
