package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/testutil"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard/steps"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
)

type scriptedLLM struct {
	out   string
	err   error
	calls int
}

func (s *scriptedLLM) GenerateText(context.Context, string, string) (string, error) {
	s.calls++
	return s.out, s.err
}

type recordingBus struct {
	events []any
	err    error
}

func (b *recordingBus) Publish(_ context.Context, ev any) error {
	b.events = append(b.events, ev)
	return b.err
}

type fixture struct {
	db  *gorm.DB
	llm *scriptedLLM
	bus *recordingBus
	uc  Usecases
}

func newFixture(t *testing.T, mode steps.Mode) *fixture {
	t.Helper()
	db := testutil.DB(t)
	testutil.SeedWizard(t, context.Background(), db)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()
	f := &fixture{db: db, llm: &scriptedLLM{}, bus: &recordingBus{}}
	f.uc = New(UsecasesDeps{
		Log:        log,
		Tx:         txn.NewGormTxRunner(db),
		Metrics:    metrics,
		Classifier: steps.NewClassifier(f.llm, log, metrics),
		Matcher:    steps.NewMatcher(steps.DefaultMatchThreshold, steps.DefaultVariants()),
		Mode:       mode,
		Events:     f.bus,
		Questions:  repos.NewQuestionRepo(db, log),
		Answers:    repos.NewAnswerRepo(db, log),
		Entries:    repos.NewConversationEntryRepo(db, log),
		Sessions:   repos.NewSessionRepo(db, log),
		Users:      repos.NewUserRepo(db, log),
		Items:      repos.NewMenuItemRepo(db, log),
	})
	return f
}

func (f *fixture) entries(t *testing.T) []types.ConversationEntry {
	t.Helper()
	var out []types.ConversationEntry
	if err := f.db.Order("id ASC").Find(&out).Error; err != nil {
		t.Fatalf("list entries: %v", err)
	}
	return out
}

func ptr(s string) *string { return &s }

func TestSubmitTurnDirectSelect(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	out, err := f.uc.SubmitTurn(context.Background(), TurnInput{
		SessionID:   ptr("s-1"),
		QuestionKey: "dietary_preference",
		AnswerKey:   ptr("veg_key"),
		Channel:     conversation.ChannelSelect,
	})
	if err != nil {
		t.Fatalf("SubmitTurn: %v", err)
	}
	if !out.Matched || out.Outcome != steps.OutcomeResolved || out.ResolvedAnswerKey == nil || *out.ResolvedAnswerKey != "veg_key" {
		t.Fatalf("out=%+v", out)
	}
	if out.Entry.ResponseText != nil || out.Message != "" {
		t.Fatalf("resolved turn carries response text: %+v", out)
	}
	if f.llm.calls != 0 {
		t.Fatalf("classifier called for a direct key")
	}
	var meta map[string]any
	if err := json.Unmarshal(out.Entry.Metadata, &meta); err != nil || meta["via"] != string(steps.SourceDirect) {
		t.Fatalf("metadata=%s, %v", out.Entry.Metadata, err)
	}
	if got := len(f.entries(t)); got != 1 {
		t.Fatalf("entries=%d, want 1", got)
	}
	if len(f.bus.events) != 1 {
		t.Fatalf("events=%d, want 1", len(f.bus.events))
	}
	ev := f.bus.events[0].(TurnEvent)
	if ev.Type != EventTurnRecorded || ev.EntryID != out.Entry.ID || ev.Outcome != steps.OutcomeResolved {
		t.Fatalf("event=%+v", ev)
	}
}

func TestSubmitTurnVoiceSuggestion(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	f.llm.out = conversation.AnswerKeySuggestion

	out, err := f.uc.SubmitTurn(context.Background(), TurnInput{
		SessionID:   ptr("s-2"),
		QuestionKey: "dietary_preference",
		Text:        "suggest me something",
		Channel:     conversation.ChannelVoice,
	})
	if err != nil {
		t.Fatalf("SubmitTurn: %v", err)
	}
	if out.Outcome != steps.OutcomeSuggested || out.Matched {
		t.Fatalf("out=%+v", out)
	}
	if out.Entry.AnswerKey == nil || *out.Entry.AnswerKey != conversation.AnswerKeySuggestion {
		t.Fatalf("answer key=%v", out.Entry.AnswerKey)
	}
	// empty catalog of items: the static vegetarian list is served
	for _, want := range []string{"Vegetable Pizza", "Caesar Salad", "Pasta Primavera"} {
		if !strings.Contains(out.Message, want) {
			t.Fatalf("message missing %q:\n%s", want, out.Message)
		}
	}
	if strings.Count(out.Message, "**") != 6 {
		t.Fatalf("expected three items:\n%s", out.Message)
	}
	if out.Entry.ResponseText == nil || *out.Entry.ResponseText != out.Message {
		t.Fatalf("stored response differs from message")
	}
	if out.Entry.CustomInput == nil || *out.Entry.CustomInput != "suggest me something" {
		t.Fatalf("utterance not stored: %v", out.Entry.CustomInput)
	}
}

func TestSubmitTurnNonsenseIsAmbiguous(t *testing.T) {
	for _, mode := range []steps.Mode{steps.ModeLLM, steps.ModeMatcher, steps.ModeLLMThenMatcher} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, mode)
			f.llm.out = "NONE"
			out, err := f.uc.SubmitTurn(context.Background(), TurnInput{
				QuestionKey: "dietary_preference",
				Text:        "asdkjasdkj",
				Channel:     conversation.ChannelSelect,
			})
			if err != nil {
				t.Fatalf("SubmitTurn: %v", err)
			}
			if out.Outcome != steps.OutcomeAmbiguous || out.Matched || out.Entry.AnswerKey != nil {
				t.Fatalf("out=%+v", out)
			}
			if out.Message != steps.ApologyMessage || out.Entry.ResponseText == nil || *out.Entry.ResponseText != steps.ApologyMessage {
				t.Fatalf("apology not returned and stored: %+v", out)
			}
			if got := len(f.entries(t)); got != 1 {
				t.Fatalf("entries=%d, want 1", got)
			}
		})
	}
}

func TestSubmitTurnInvalidHintBecomesAmbiguous(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	f.llm.err = errors.New("timeout")

	out, err := f.uc.SubmitTurn(context.Background(), TurnInput{
		QuestionKey: "dietary_preference",
		AnswerKey:   ptr("italian_key"),
		Text:        "the pasta one",
		Channel:     conversation.ChannelSelect,
	})
	if err != nil {
		t.Fatalf("SubmitTurn: %v", err)
	}
	if out.Outcome != steps.OutcomeAmbiguous || out.Entry.AnswerKey != nil || out.Message != steps.ApologyMessage {
		t.Fatalf("out=%+v", out)
	}
	if *out.Entry.ResponseText != steps.ApologyMessage {
		t.Fatalf("stored response=%q", *out.Entry.ResponseText)
	}
}

func TestSubmitTurnValidation(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	testutil.SeedQuestion(t, context.Background(), f.db, "retired", 40, false)

	cases := []TurnInput{
		{QuestionKey: "", Channel: conversation.ChannelSelect, AnswerKey: ptr("veg_key")},
		{QuestionKey: "nope", Channel: conversation.ChannelSelect, AnswerKey: ptr("veg_key")},
		{QuestionKey: "retired", Channel: conversation.ChannelVoice, Text: "hi"},
		{QuestionKey: "dietary_preference", Channel: "fax", Text: "veg"},
	}
	for _, in := range cases {
		if _, err := f.uc.SubmitTurn(context.Background(), in); !errs.IsCode(err, errs.CodeValidation) {
			t.Fatalf("SubmitTurn(%+v) err=%v, want validation", in, err)
		}
	}
	if got := len(f.entries(t)); got != 0 {
		t.Fatalf("invalid turns persisted %d entries", got)
	}
	if f.llm.calls != 0 || len(f.bus.events) != 0 {
		t.Fatalf("side effects on invalid input: llm=%d events=%d", f.llm.calls, len(f.bus.events))
	}
}

func TestSubmitTurnSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	f.bus.err = errors.New("redis down")
	if _, err := f.uc.SubmitTurn(context.Background(), TurnInput{
		QuestionKey: "cuisine_type",
		AnswerKey:   ptr("italian_key"),
		Channel:     conversation.ChannelSelect,
	}); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
}

func TestHistoryIsOrderedAndUnchanged(t *testing.T) {
	f := newFixture(t, steps.ModeMatcher)
	ctx := context.Background()
	inputs := []TurnInput{
		{SessionID: ptr("s-h"), QuestionKey: "dietary_preference", Text: "vegan", Channel: conversation.ChannelVoice},
		{SessionID: ptr("s-h"), QuestionKey: "cuisine_type", Text: "sushi", Channel: conversation.ChannelVoice},
		{SessionID: ptr("other"), QuestionKey: "cuisine_type", AnswerKey: ptr("mexican_key"), Channel: conversation.ChannelSelect},
		{SessionID: ptr("s-h"), QuestionKey: "hunger_level", Text: "famished", Channel: conversation.ChannelVoice},
	}
	for _, in := range inputs {
		if _, err := f.uc.SubmitTurn(ctx, in); err != nil {
			t.Fatalf("SubmitTurn: %v", err)
		}
	}
	before, err := f.uc.History(ctx, "s-h")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	var keys []string
	for _, e := range before {
		keys = append(keys, *e.AnswerKey)
	}
	if strings.Join(keys, ",") != "vegan_key,japanese_key,super_hungry_key" {
		t.Fatalf("history keys=%v", keys)
	}

	if _, err := f.uc.Next(ctx, NextInput{SessionID: "s-h", CurrentQuestionKey: ptr("cuisine_type")}); err != nil {
		t.Fatalf("Next: %v", err)
	}
	after, err := f.uc.History(ctx, "s-h")
	if err != nil || len(after) != len(before) {
		t.Fatalf("history changed: %d vs %d (%v)", len(after), len(before), err)
	}
	for i := range before {
		if before[i].ID != after[i].ID || *before[i].AnswerKey != *after[i].AnswerKey || !before[i].CreatedAt.Equal(after[i].CreatedAt) {
			t.Fatalf("entry %d mutated", i)
		}
	}
}

func TestNextScenario(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	ctx := context.Background()
	out, err := f.uc.Next(ctx, NextInput{SessionID: "s", CurrentQuestionKey: ptr("dietary_preference")})
	if err != nil || out.Question == nil || out.Question.Key != "cuisine_type" {
		t.Fatalf("next=%+v, %v", out, err)
	}
	out, err = f.uc.Next(ctx, NextInput{SessionID: "s", CurrentQuestionKey: ptr("hunger_level")})
	if err != nil || out.Question != nil || !out.Completed {
		t.Fatalf("next=%+v, %v", out, err)
	}
	if _, err := f.uc.Next(ctx, NextInput{}); !errs.IsCode(err, errs.CodeValidation) {
		t.Fatalf("missing session err=%v", err)
	}
}

func TestMatchDoesNotRecord(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	ctx := context.Background()

	m, err := f.uc.Match(ctx, MatchInput{QuestionKey: "hunger_level", Text: "starving", Strategy: "matcher"})
	if err != nil || m.AnswerKey == nil || *m.AnswerKey != "hungry_key" {
		t.Fatalf("matcher=%+v, %v", m, err)
	}

	f.llm.out = "super_hungry_key"
	l, err := f.uc.Match(ctx, MatchInput{QuestionKey: "hunger_level", Text: "starving", Strategy: "llm"})
	if err != nil || l.AnswerKey == nil || *l.AnswerKey != "super_hungry_key" || l.Kind != string(steps.ClassAnswer) {
		t.Fatalf("llm=%+v, %v", l, err)
	}

	if _, err := f.uc.Match(ctx, MatchInput{QuestionKey: "nope", Text: "x"}); !errs.IsCode(err, errs.CodeValidation) {
		t.Fatalf("unknown question err=%v", err)
	}
	if _, err := f.uc.Match(ctx, MatchInput{QuestionKey: "hunger_level", Text: "x", Strategy: "regex"}); !errs.IsCode(err, errs.CodeValidation) {
		t.Fatalf("bad strategy err=%v", err)
	}

	f.llm.err = errors.New("boom")
	if _, err := f.uc.Match(ctx, MatchInput{QuestionKey: "hunger_level", Text: "x", Strategy: "llm"}); !errs.IsCode(err, errs.CodeTransport) {
		t.Fatalf("llm failure err=%v", err)
	}
	if got := len(f.entries(t)); got != 0 {
		t.Fatalf("match recorded %d entries", got)
	}
}

func TestQuestionsCatalog(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	ctx := context.Background()
	qs, err := f.uc.Questions(ctx, "hi")
	if err != nil || len(qs) != 3 {
		t.Fatalf("Questions=%d, %v", len(qs), err)
	}
	if qs[0].Key != "dietary_preference" || qs[0].Answers[0].Text != "शाकाहारी" {
		t.Fatalf("first=%+v", qs[0])
	}
	q, err := f.uc.Question(ctx, "cuisine_type", "")
	if err != nil || q.Language != "en" || len(q.Answers) != 4 {
		t.Fatalf("Question=%+v, %v", q, err)
	}
	if _, err := f.uc.Question(ctx, "nope", "en"); !errs.IsCode(err, errs.CodeNotFound) {
		t.Fatalf("missing question err=%v", err)
	}
}

func TestSubmitTurnReservedAnswerKeys(t *testing.T) {
	f := newFixture(t, steps.ModeLLM)
	ctx := context.Background()

	sorry, err := f.uc.SubmitTurn(ctx, TurnInput{
		SessionID:   ptr("s-reserved"),
		QuestionKey: "dietary_preference",
		AnswerKey:   ptr(conversation.AnswerKeySorry),
		Channel:     conversation.ChannelSelect,
	})
	if err != nil {
		t.Fatalf("SubmitTurn sorry: %v", err)
	}
	if sorry.Outcome != steps.OutcomeAmbiguous || sorry.Matched || sorry.Message != steps.ApologyMessage {
		t.Fatalf("sorry turn=%+v", sorry)
	}
	if sorry.Entry.AnswerKey != nil || sorry.Entry.ResponseText == nil || *sorry.Entry.ResponseText != steps.ApologyMessage {
		t.Fatalf("sorry entry=%+v", sorry.Entry)
	}

	sugg, err := f.uc.SubmitTurn(ctx, TurnInput{
		SessionID:   ptr("s-reserved"),
		QuestionKey: "dietary_preference",
		AnswerKey:   ptr(conversation.AnswerKeySuggestion),
		Channel:     conversation.ChannelSelect,
	})
	if err != nil {
		t.Fatalf("SubmitTurn suggestion: %v", err)
	}
	if sugg.Outcome != steps.OutcomeSuggested || sugg.Matched || strings.TrimSpace(sugg.Message) == "" {
		t.Fatalf("suggestion turn=%+v", sugg)
	}
	if sugg.Entry.AnswerKey == nil || *sugg.Entry.AnswerKey != conversation.AnswerKeySuggestion || sugg.Entry.ResponseText == nil {
		t.Fatalf("suggestion entry=%+v", sugg.Entry)
	}
	if f.llm.calls != 0 {
		t.Fatalf("classifier called %d times for direct keys", f.llm.calls)
	}
}
