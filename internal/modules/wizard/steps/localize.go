package steps

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
)

type AnswerView struct {
	Key   string `json:"answer_key"`
	Text  string `json:"answer_text"`
	Order int    `json:"answer_order"`
}

type QuestionView struct {
	Key      string       `json:"question_key"`
	Text     string       `json:"question_text"`
	Order    int          `json:"question_order"`
	Type     string       `json:"type"`
	Language string       `json:"language"`
	Answers  []AnswerView `json:"answers"`
}

type LocalizeDeps struct {
	Questions repos.QuestionRepo
	Answers   repos.AnswerRepo
}

// LocalizeQuestions attaches active answers to each question and swaps in
// translated text for language where a translation exists.
func LocalizeQuestions(ctx context.Context, deps LocalizeDeps, questions []*types.Question, language string) ([]QuestionView, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = types.DefaultLanguage
	}
	keys := make([]string, 0, len(questions))
	for _, q := range questions {
		if q != nil {
			keys = append(keys, q.QuestionKey)
		}
	}
	if len(keys) == 0 {
		return []QuestionView{}, nil
	}
	translate := language != types.DefaultLanguage
	dbc := dbctx.Context{Ctx: ctx}

	var (
		answers []*types.Answer
		qTrans  []*types.QuestionTranslation
		aTrans  []*types.AnswerTranslation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := deps.Answers.ListActiveByQuestions(dbctx.Context{Ctx: gctx}, keys)
		answers = rows
		return err
	})
	if translate {
		g.Go(func() error {
			rows, err := deps.Questions.ListTranslations(dbctx.Context{Ctx: gctx}, keys, language)
			qTrans = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if translate && len(answers) > 0 {
		answerKeys := make([]string, 0, len(answers))
		for _, a := range answers {
			answerKeys = append(answerKeys, a.AnswerKey)
		}
		rows, err := deps.Answers.ListTranslations(dbc, answerKeys, language)
		if err != nil {
			return nil, err
		}
		aTrans = rows
	}

	qText := make(map[string]string, len(qTrans))
	for _, t := range qTrans {
		if t != nil && strings.TrimSpace(t.TranslatedText) != "" {
			qText[t.QuestionKey] = t.TranslatedText
		}
	}
	aText := make(map[string]string, len(aTrans))
	for _, t := range aTrans {
		if t != nil && strings.TrimSpace(t.TranslatedText) != "" {
			aText[t.AnswerKey] = t.TranslatedText
		}
	}
	byQuestion := make(map[string][]AnswerView, len(keys))
	for _, a := range answers {
		text := a.AnswerText
		if tr, ok := aText[a.AnswerKey]; ok {
			text = tr
		}
		byQuestion[a.QuestionKey] = append(byQuestion[a.QuestionKey], AnswerView{Key: a.AnswerKey, Text: text, Order: a.AnswerOrder})
	}

	out := make([]QuestionView, 0, len(keys))
	for _, q := range questions {
		if q == nil {
			continue
		}
		text := q.QuestionText
		if tr, ok := qText[q.QuestionKey]; ok {
			text = tr
		}
		opts := byQuestion[q.QuestionKey]
		if opts == nil {
			opts = []AnswerView{}
		}
		out = append(out, QuestionView{
			Key:      q.QuestionKey,
			Text:     text,
			Order:    q.QuestionOrder,
			Type:     q.Type,
			Language: language,
			Answers:  opts,
		})
	}
	return out, nil
}
