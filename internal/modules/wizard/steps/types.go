package steps

import (
	"gorm.io/datatypes"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
)

// ApologyMessage is returned (and stored as the turn's response text) for
// every ambiguous turn.
const ApologyMessage = "Sorry, I don't understand your request. Could you please rephrase or select from the available options?"

const DefaultSuggestionLimit = 5

// Outcome labels a terminal resolution state.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeAmbiguous Outcome = "ambiguous"
	OutcomeSuggested Outcome = "suggested"
)

// Source names the stage that produced a resolved key.
type Source string

const (
	SourceDirect     Source = "direct"
	SourceClassifier Source = "classifier"
	SourceMatcher    Source = "matcher"
	SourceHint       Source = "hint_fallback"
)

// Turn states, recorded in the entry metadata trace.
const (
	StateReceived  = "RECEIVED"
	StateResolving = "RESOLVING"
)

// Candidate is one active answer offered for a question.
type Candidate struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Resolution is the terminal state of one turn. The concrete types are
// Resolved, Ambiguous and Suggested.
type Resolution interface {
	Outcome() Outcome
	sealed()
}

type Resolved struct {
	AnswerKey string
	Via       Source
}

type Ambiguous struct {
	Reason string
}

type Suggested struct {
	Diet Diet
	Text string
}

func (Resolved) Outcome() Outcome  { return OutcomeResolved }
func (Ambiguous) Outcome() Outcome { return OutcomeAmbiguous }
func (Suggested) Outcome() Outcome { return OutcomeSuggested }

func (Resolved) sealed()  {}
func (Ambiguous) sealed() {}
func (Suggested) sealed() {}

// Ambiguity reasons.
const (
	ReasonEmptyInput    = "empty_input"
	ReasonNoCandidates  = "no_candidates"
	ReasonNotUnderstood = "not_understood"
	ReasonNoMatch       = "no_match"
	ReasonTransport     = "transport_failure"
	ReasonInvalidAnswer = "invalid_answer"
)

// TurnInput is one inbound wizard step.
type TurnInput struct {
	SessionID   *string
	UserID      *string
	QuestionKey string
	// AnswerKey is the caller's pre-chosen answer, if any.
	AnswerKey *string
	Text      string
	Channel   conversation.Channel
	// Language overrides the session language for generated text.
	Language string
}

// RecordInput mirrors the conversation_entries row the Recorder writes.
type RecordInput struct {
	SessionID    *string
	UserID       *string
	QuestionKey  string
	AnswerKey    *string
	CustomInput  *string
	ResponseText *string
	// ResponseIfDowngraded replaces ResponseText when AnswerKey is dropped.
	ResponseIfDowngraded *string
	Channel              conversation.Channel
	Metadata             datatypes.JSON
}

type RecordOutput struct {
	Entry      *conversation.ConversationEntry
	Downgraded bool
}

func strPtr(s string) *string { return &s }

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
