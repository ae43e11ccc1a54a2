package domain

import (
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/catalog"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/commerce"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/fulfillment"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/language"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/user"
)

const (
	AnswerKeySorry      = conversation.AnswerKeySorry
	AnswerKeySuggestion = conversation.AnswerKeySuggestion

	ChannelSelect = conversation.ChannelSelect
	ChannelVoice  = conversation.ChannelVoice

	DefaultLanguage = conversation.DefaultLanguage
)

type (
	Question            = catalog.Question
	QuestionTranslation = catalog.QuestionTranslation
	Answer              = catalog.Answer
	AnswerTranslation   = catalog.AnswerTranslation

	Session           = conversation.Session
	ConversationEntry = conversation.ConversationEntry
	Channel           = conversation.Channel

	User = user.User

	Cart      = commerce.Cart
	CartItem  = commerce.CartItem
	Order     = commerce.Order
	OrderItem = commerce.OrderItem

	Service     = fulfillment.Service
	UserService = fulfillment.UserService

	Language = language.Language
)

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Language{},
		&Question{},
		&QuestionTranslation{},
		&Answer{},
		&AnswerTranslation{},
		&Session{},
		&ConversationEntry{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Service{},
		&UserService{},
	}
}
