package conversation

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type SessionRepo interface {
	// GetByID returns nil, nil when no row exists.
	GetByID(dbc dbctx.Context, id string) (*types.Session, error)
	// EnsureExists creates the session with defaults when missing and
	// returns the stored row. Existing rows are not modified.
	EnsureExists(dbc dbctx.Context, seed *types.Session) (*types.Session, error)
	// SaveSelection creates the session or updates language, input type and
	// (when non-nil) user id.
	SaveSelection(dbc dbctx.Context, s *types.Session) (*types.Session, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{
		db:  db,
		log: baseLog.With("repo", "SessionRepo"),
	}
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id string) (*types.Session, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var s types.Session
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) EnsureExists(dbc dbctx.Context, seed *types.Session) (*types.Session, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if seed == nil || strings.TrimSpace(seed.ID) == "" {
		return nil, errors.New("session id required")
	}
	row := *seed
	if row.Language == "" {
		row.Language = types.DefaultLanguage
	}
	if row.InputType == "" {
		row.InputType = "text"
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	var out types.Session
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", seed.ID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) SaveSelection(dbc dbctx.Context, s *types.Session) (*types.Session, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if s == nil || strings.TrimSpace(s.ID) == "" {
		return nil, errors.New("session id required")
	}
	updateCols := []string{"language", "input_type", "updated_at"}
	if s.UserID != nil {
		updateCols = append(updateCols, "user_id")
	}
	row := *s
	if row.Language == "" {
		row.Language = types.DefaultLanguage
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(updateCols),
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	var out types.Session
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", s.ID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
