package repos

import (
	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/catalog"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/commerce"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/fulfillment"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/language"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/user"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type QuestionRepo = catalog.QuestionRepo
type AnswerRepo = catalog.AnswerRepo

type SessionRepo = conversation.SessionRepo
type ConversationEntryRepo = conversation.ConversationEntryRepo

type UserRepo = user.UserRepo

type MenuItemRepo = commerce.MenuItemRepo

type ServiceRepo = fulfillment.ServiceRepo
type UserServiceRepo = fulfillment.UserServiceRepo

type LanguageRepo = language.LanguageRepo

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return catalog.NewQuestionRepo(db, baseLog)
}
func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	return catalog.NewAnswerRepo(db, baseLog)
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return conversation.NewSessionRepo(db, baseLog)
}
func NewConversationEntryRepo(db *gorm.DB, baseLog *logger.Logger) ConversationEntryRepo {
	return conversation.NewConversationEntryRepo(db, baseLog)
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewMenuItemRepo(db *gorm.DB, baseLog *logger.Logger) MenuItemRepo {
	return commerce.NewMenuItemRepo(db, baseLog)
}

func NewServiceRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRepo {
	return fulfillment.NewServiceRepo(db, baseLog)
}
func NewUserServiceRepo(db *gorm.DB, baseLog *logger.Logger) UserServiceRepo {
	return fulfillment.NewUserServiceRepo(db, baseLog)
}

func NewLanguageRepo(db *gorm.DB, baseLog *logger.Logger) LanguageRepo {
	return language.NewLanguageRepo(db, baseLog)
}
