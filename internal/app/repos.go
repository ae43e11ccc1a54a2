package app

import (
	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type Repos struct {
	Question    repos.QuestionRepo
	Answer      repos.AnswerRepo
	Session     repos.SessionRepo
	Entry       repos.ConversationEntryRepo
	User        repos.UserRepo
	MenuItem    repos.MenuItemRepo
	Service     repos.ServiceRepo
	UserService repos.UserServiceRepo
	Language    repos.LanguageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Question:    repos.NewQuestionRepo(db, log),
		Answer:      repos.NewAnswerRepo(db, log),
		Session:     repos.NewSessionRepo(db, log),
		Entry:       repos.NewConversationEntryRepo(db, log),
		User:        repos.NewUserRepo(db, log),
		MenuItem:    repos.NewMenuItemRepo(db, log),
		Service:     repos.NewServiceRepo(db, log),
		UserService: repos.NewUserServiceRepo(db, log),
		Language:    repos.NewLanguageRepo(db, log),
	}
}
