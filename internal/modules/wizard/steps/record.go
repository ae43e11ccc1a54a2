package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type RecordDeps struct {
	Log *logger.Logger
	Tx  txn.TxRunner

	Questions repos.QuestionRepo
	Answers   repos.AnswerRepo
	Entries   repos.ConversationEntryRepo
	Sessions  repos.SessionRepo
	Users     repos.UserRepo
}

// Record validates and appends one conversation entry in a single
// transaction. The question must exist and be active. An answer key that
// does not name an active answer of that question is stored as null; the
// suggestion sentinel is kept and the sorry sentinel is always stored as
// null. A referenced session or guest user is created if missing.
func Record(ctx context.Context, deps RecordDeps, in RecordInput) (RecordOutput, error) {
	out := RecordOutput{}
	if deps.Tx == nil || deps.Questions == nil || deps.Answers == nil || deps.Entries == nil {
		return out, fmt.Errorf("wizard record: missing deps")
	}
	questionKey := strings.TrimSpace(in.QuestionKey)
	if questionKey == "" {
		return out, errs.Validation("wizard.record", "question_key is required")
	}
	channel, ok := conversation.ParseChannel(string(in.Channel))
	if !ok {
		return out, errs.Validation("wizard.record", "unsupported channel %q", in.Channel)
	}
	sessionID := trimmedPtr(in.SessionID)
	userID := trimmedPtr(in.UserID)

	err := deps.Tx.InTx(ctx, func(dbc dbctx.Context) error {
		q, err := deps.Questions.GetByKey(dbc, questionKey)
		if err != nil {
			return err
		}
		if q == nil {
			return errs.Validation("wizard.record", "unknown question %q", questionKey)
		}
		if !q.IsActive {
			return errs.Validation("wizard.record", "question %q is not active", questionKey)
		}

		answerKey, downgraded, err := validAnswerKey(dbc, deps.Answers, questionKey, in.AnswerKey)
		if err != nil {
			return err
		}
		out.Downgraded = downgraded

		if userID != nil && deps.Users != nil {
			if _, err := deps.Users.EnsureGuest(dbc, *userID, nil); err != nil {
				return err
			}
		}
		if sessionID != nil && deps.Sessions != nil {
			if _, err := deps.Sessions.EnsureExists(dbc, &types.Session{ID: *sessionID, UserID: userID}); err != nil {
				return err
			}
		}

		response := in.ResponseText
		meta := in.Metadata
		if downgraded {
			if in.ResponseIfDowngraded != nil {
				response = in.ResponseIfDowngraded
			}
			meta = markDowngraded(meta, deref(in.AnswerKey))
		}
		entry, err := deps.Entries.Create(dbc, &types.ConversationEntry{
			SessionID:    sessionID,
			UserID:       userID,
			QuestionKey:  questionKey,
			AnswerKey:    answerKey,
			CustomInput:  in.CustomInput,
			ResponseText: response,
			SelectType:   channel,
			Metadata:     meta,
		})
		if err != nil {
			return err
		}
		out.Entry = entry
		return nil
	})
	if err != nil {
		return RecordOutput{}, txn.MapError("wizard.record", err)
	}
	if deps.Log != nil && out.Downgraded {
		deps.Log.Info("answer key downgraded to null", "question_key", questionKey, "answer_key", deref(in.AnswerKey))
	}
	return out, nil
}

func validAnswerKey(dbc dbctx.Context, answers repos.AnswerRepo, questionKey string, raw *string) (*string, bool, error) {
	key := strings.TrimSpace(deref(raw))
	switch key {
	case "", conversation.AnswerKeySorry:
		return nil, false, nil
	case conversation.AnswerKeySuggestion:
		return strPtr(key), false, nil
	}
	a, err := answers.GetActiveForQuestion(dbc, questionKey, key)
	if err != nil {
		return nil, false, err
	}
	if a == nil {
		return nil, true, nil
	}
	return strPtr(a.AnswerKey), false, nil
}

// markDowngraded records the rejected key in the entry metadata.
func markDowngraded(meta datatypes.JSON, rejected string) datatypes.JSON {
	m := map[string]any{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &m); err != nil {
			m = map[string]any{}
		}
	}
	m["answer_downgraded"] = true
	m["rejected_answer_key"] = strings.TrimSpace(rejected)
	raw, err := json.Marshal(m)
	if err != nil {
		return meta
	}
	return datatypes.JSON(raw)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return nonEmpty(strings.TrimSpace(*s))
}
