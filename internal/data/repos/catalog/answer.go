package catalog

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type AnswerRepo interface {
	ListActiveByQuestion(dbc dbctx.Context, questionKey string) ([]*types.Answer, error)
	ListActiveByQuestions(dbc dbctx.Context, questionKeys []string) ([]*types.Answer, error)
	// GetActiveForQuestion returns nil, nil unless answerKey names an active
	// answer owned by questionKey.
	GetActiveForQuestion(dbc dbctx.Context, questionKey, answerKey string) (*types.Answer, error)
	ListTranslations(dbc dbctx.Context, answerKeys []string, language string) ([]*types.AnswerTranslation, error)
}

type answerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	return &answerRepo{
		db:  db,
		log: baseLog.With("repo", "AnswerRepo"),
	}
}

func (r *answerRepo) ListActiveByQuestion(dbc dbctx.Context, questionKey string) ([]*types.Answer, error) {
	return r.ListActiveByQuestions(dbc, []string{questionKey})
}

func (r *answerRepo) ListActiveByQuestions(dbc dbctx.Context, questionKeys []string) ([]*types.Answer, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Answer
	if len(questionKeys) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("question_key IN ? AND is_active = ?", questionKeys, true).
		Order("question_key ASC, answer_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *answerRepo) GetActiveForQuestion(dbc dbctx.Context, questionKey, answerKey string) (*types.Answer, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if questionKey == "" || answerKey == "" {
		return nil, nil
	}
	var a types.Answer
	err := transaction.WithContext(dbc.Ctx).
		Where("answer_key = ? AND question_key = ? AND is_active = ?", answerKey, questionKey, true).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *answerRepo) ListTranslations(dbc dbctx.Context, answerKeys []string, language string) ([]*types.AnswerTranslation, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.AnswerTranslation
	if len(answerKeys) == 0 || language == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("answer_key IN ? AND language = ?", answerKeys, language).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
