package steps

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/testutil"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
)

func recordDeps(t *testing.T, db *gorm.DB) RecordDeps {
	t.Helper()
	log := testutil.Logger(t)
	return RecordDeps{
		Log:       log,
		Tx:        txn.NewGormTxRunner(db),
		Questions: repos.NewQuestionRepo(db, log),
		Answers:   repos.NewAnswerRepo(db, log),
		Entries:   repos.NewConversationEntryRepo(db, log),
		Sessions:  repos.NewSessionRepo(db, log),
		Users:     repos.NewUserRepo(db, log),
	}
}

func countEntries(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&types.ConversationEntry{}).Count(&n).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	return n
}

func TestRecordDirectKey(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedWizard(t, ctx, db)

	out, err := Record(ctx, recordDeps(t, db), RecordInput{
		SessionID:   strPtr("s-1"),
		UserID:      strPtr("+15550100"),
		QuestionKey: "dietary_preference",
		AnswerKey:   strPtr("veg_key"),
		Channel:     conversation.ChannelSelect,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	e := out.Entry
	if e == nil || e.ID == 0 || e.CreatedAt.IsZero() {
		t.Fatalf("entry missing id/timestamp: %+v", e)
	}
	if e.AnswerKey == nil || *e.AnswerKey != "veg_key" || e.ResponseText != nil || out.Downgraded {
		t.Fatalf("unexpected entry: %+v downgraded=%v", e, out.Downgraded)
	}

	var s types.Session
	if err := db.Where("id = ?", "s-1").Take(&s).Error; err != nil {
		t.Fatalf("session not created lazily: %v", err)
	}
	if s.Language != "en" || s.UserID == nil || *s.UserID != "+15550100" {
		t.Fatalf("session=%+v", s)
	}
	var u types.User
	if err := db.Where("id = ?", "+15550100").Take(&u).Error; err != nil || !u.IsGuest {
		t.Fatalf("guest user=%+v, %v", u, err)
	}
}

func TestRecordRejectsUnknownOrInactiveQuestion(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedQuestion(t, ctx, db, "retired", 9, false)

	cases := []RecordInput{
		{QuestionKey: "missing", Channel: conversation.ChannelSelect},
		{QuestionKey: "retired", Channel: conversation.ChannelVoice},
		{QuestionKey: "", Channel: conversation.ChannelVoice},
		{QuestionKey: "retired", Channel: "sms"},
	}
	for _, in := range cases {
		_, err := Record(ctx, recordDeps(t, db), in)
		if !errs.IsCode(err, errs.CodeValidation) {
			t.Fatalf("Record(%+v) err=%v, want validation", in, err)
		}
	}
	if n := countEntries(t, db); n != 0 {
		t.Fatalf("rejected turns persisted %d rows", n)
	}
}

// An answer key owned by a different, inactive question is stored as null.
func TestRecordDowngradesForeignAnswerKey(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedWizard(t, ctx, db)
	testutil.SeedQuestion(t, ctx, db, "old_question", 99, false)
	testutil.SeedAnswer(t, ctx, db, "old_question", "stale_key", "Stale", 1, true)

	out, err := Record(ctx, recordDeps(t, db), RecordInput{
		QuestionKey:          "dietary_preference",
		AnswerKey:            strPtr("stale_key"),
		CustomInput:          strPtr("the old one"),
		ResponseIfDowngraded: strPtr(ApologyMessage),
		Channel:              conversation.ChannelSelect,
		Metadata:             []byte(`{"mode":"llm"}`),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !out.Downgraded || out.Entry.AnswerKey != nil {
		t.Fatalf("entry=%+v downgraded=%v, want null answer", out.Entry, out.Downgraded)
	}
	if out.Entry.CustomInput == nil || *out.Entry.CustomInput != "the old one" {
		t.Fatalf("free text lost: %+v", out.Entry.CustomInput)
	}
	if out.Entry.ResponseText == nil || *out.Entry.ResponseText != ApologyMessage {
		t.Fatalf("response=%v", out.Entry.ResponseText)
	}
	var meta map[string]any
	if err := json.Unmarshal(out.Entry.Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["mode"] != "llm" || meta["answer_downgraded"] != true || meta["rejected_answer_key"] != "stale_key" {
		t.Fatalf("metadata=%v", meta)
	}
}

func TestRecordSentinels(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedWizard(t, ctx, db)
	deps := recordDeps(t, db)

	sugg, err := Record(ctx, deps, RecordInput{
		QuestionKey:  "dietary_preference",
		AnswerKey:    strPtr(conversation.AnswerKeySuggestion),
		ResponseText: strPtr("Here are some ideas"),
		Channel:      conversation.ChannelVoice,
	})
	if err != nil || sugg.Entry.AnswerKey == nil || *sugg.Entry.AnswerKey != conversation.AnswerKeySuggestion || sugg.Downgraded {
		t.Fatalf("suggestion sentinel: %+v, %v", sugg.Entry, err)
	}

	sorry, err := Record(ctx, deps, RecordInput{
		QuestionKey: "dietary_preference",
		AnswerKey:   strPtr(conversation.AnswerKeySorry),
		Channel:     conversation.ChannelVoice,
	})
	if err != nil || sorry.Entry.AnswerKey != nil || sorry.Downgraded {
		t.Fatalf("sorry sentinel must be stored as null: %+v, %v", sorry.Entry, err)
	}
}

// Every stored non-null, non-sentinel answer key names an active answer of
// the entry's question.
func TestRecordedAnswerKeysAreValid(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedWizard(t, ctx, db)
	testutil.SeedAnswer(t, ctx, db, "cuisine_type", "thai_key", "Thai", 9, false)
	deps := recordDeps(t, db)

	attempts := []struct{ q, a string }{
		{"dietary_preference", "veg_key"},
		{"dietary_preference", "chinese_key"},
		{"cuisine_type", "thai_key"},
		{"cuisine_type", "italian_key"},
		{"hunger_level", "hungry_key"},
		{"hunger_level", "HUNGRY_KEY"},
		{"hunger_level", " "},
	}
	for _, at := range attempts {
		if _, err := Record(ctx, deps, RecordInput{QuestionKey: at.q, AnswerKey: strPtr(at.a), Channel: conversation.ChannelSelect}); err != nil {
			t.Fatalf("Record(%s,%s): %v", at.q, at.a, err)
		}
	}

	var entries []types.ConversationEntry
	if err := db.Find(&entries).Error; err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(attempts) {
		t.Fatalf("entries=%d, want %d", len(entries), len(attempts))
	}
	answers := repos.NewAnswerRepo(db, testutil.Logger(t))
	stored := 0
	for _, e := range entries {
		if e.AnswerKey == nil || conversation.IsSentinel(*e.AnswerKey) {
			continue
		}
		stored++
		a, err := answers.GetActiveForQuestion(dbctx.Context{Ctx: ctx}, e.QuestionKey, *e.AnswerKey)
		if err != nil || a == nil {
			t.Fatalf("entry %d stores invalid answer %q for %q", e.ID, *e.AnswerKey, e.QuestionKey)
		}
	}
	if stored != 3 {
		t.Fatalf("stored valid keys=%d, want 3", stored)
	}
}

type failingEntries struct {
	repos.ConversationEntryRepo
}

func (failingEntries) Create(dbctx.Context, *types.ConversationEntry) (*types.ConversationEntry, error) {
	return nil, errors.New("disk full")
}

// A failed entry insert rolls back the lazily created session and guest user.
func TestRecordRollsBackOnEntryFailure(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedWizard(t, ctx, db)
	deps := recordDeps(t, db)
	deps.Entries = failingEntries{ConversationEntryRepo: deps.Entries}

	_, err := Record(ctx, deps, RecordInput{
		SessionID:   strPtr("s-rollback"),
		UserID:      strPtr("+15550199"),
		QuestionKey: "dietary_preference",
		AnswerKey:   strPtr("veg_key"),
		Channel:     conversation.ChannelSelect,
	})
	if !errs.IsCode(err, errs.CodePersistence) {
		t.Fatalf("err=%v, want persistence", err)
	}

	var sessions, users int64
	if err := db.Model(&types.Session{}).Count(&sessions).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&types.User{}).Count(&users).Error; err != nil {
		t.Fatal(err)
	}
	if sessions != 0 || users != 0 || countEntries(t, db) != 0 {
		t.Fatalf("rows left after rollback: sessions=%d users=%d entries=%d", sessions, users, countEntries(t, db))
	}
}
