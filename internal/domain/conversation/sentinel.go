package conversation

import "strings"

// Reserved answer keys. They never name a catalog row.
const (
	AnswerKeySorry      = "SORRY_DONT_UNDERSTAND"
	AnswerKeySuggestion = "SUGGESTION_REQUEST"
)

func IsSentinel(key string) bool {
	return key == AnswerKeySorry || key == AnswerKeySuggestion
}

type Channel string

const (
	ChannelSelect Channel = "select"
	ChannelVoice  Channel = "voice"
)

func ParseChannel(s string) (Channel, bool) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelSelect:
		return ChannelSelect, true
	case ChannelVoice:
		return ChannelVoice, true
	default:
		return "", false
	}
}

// InputType is the session-level channel preference.
const (
	InputTypeText  = "text"
	InputTypeVoice = "voice"
)

func NormalizeInputType(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), InputTypeVoice) {
		return InputTypeVoice
	}
	return InputTypeText
}
