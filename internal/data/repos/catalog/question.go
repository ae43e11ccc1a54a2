package catalog

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type QuestionRepo interface {
	// GetByKey returns nil, nil when no row exists.
	GetByKey(dbc dbctx.Context, key string) (*types.Question, error)
	ListActive(dbc dbctx.Context) ([]*types.Question, error)
	// FirstActiveAfter returns the active question with the smallest order
	// strictly greater than after (or the smallest overall when after is nil).
	FirstActiveAfter(dbc dbctx.Context, after *int) (*types.Question, error)
	ListTranslations(dbc dbctx.Context, keys []string, language string) ([]*types.QuestionTranslation, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{
		db:  db,
		log: baseLog.With("repo", "QuestionRepo"),
	}
}

func (r *questionRepo) GetByKey(dbc dbctx.Context, key string) (*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if key == "" {
		return nil, nil
	}
	var q types.Question
	err := transaction.WithContext(dbc.Ctx).
		Where("question_key = ?", key).
		Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) ListActive(dbc dbctx.Context) ([]*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Question
	if err := transaction.WithContext(dbc.Ctx).
		Where("is_active = ?", true).
		Order("question_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) FirstActiveAfter(dbc dbctx.Context, after *int) (*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Where("is_active = ?", true)
	if after != nil {
		q = q.Where("question_order > ?", *after)
	}
	var out types.Question
	err := q.Order("question_order ASC, id ASC").Limit(1).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *questionRepo) ListTranslations(dbc dbctx.Context, keys []string, language string) ([]*types.QuestionTranslation, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.QuestionTranslation
	if len(keys) == 0 || language == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("question_key IN ? AND language = ?", keys, language).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
