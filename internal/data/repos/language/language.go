package language

import (
	"gorm.io/gorm"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type LanguageRepo interface {
	ListActive(dbc dbctx.Context) ([]*types.Language, error)
}

type languageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLanguageRepo(db *gorm.DB, baseLog *logger.Logger) LanguageRepo {
	return &languageRepo{
		db:  db,
		log: baseLog.With("repo", "LanguageRepo"),
	}
}

func (r *languageRepo) ListActive(dbc dbctx.Context) ([]*types.Language, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Language
	if err := transaction.WithContext(dbc.Ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
