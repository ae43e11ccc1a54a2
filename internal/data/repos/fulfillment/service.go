package fulfillment

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type ServiceRepo interface {
	ListActive(dbc dbctx.Context) ([]*types.Service, error)
	// GetActiveByName matches case-insensitively and returns nil, nil when
	// no active service has that name.
	GetActiveByName(dbc dbctx.Context, name string) (*types.Service, error)
}

type serviceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewServiceRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRepo {
	return &serviceRepo{
		db:  db,
		log: baseLog.With("repo", "ServiceRepo"),
	}
}

func (r *serviceRepo) ListActive(dbc dbctx.Context) ([]*types.Service, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Service
	if err := transaction.WithContext(dbc.Ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *serviceRepo) GetActiveByName(dbc dbctx.Context, name string) (*types.Service, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var s types.Service
	err := transaction.WithContext(dbc.Ctx).
		Where("LOWER(service_name) = LOWER(?) AND is_active = ?", name, true).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type UserServiceRepo interface {
	// Upsert records the selection, refreshing selected_at and input_type
	// when the user already chose this service.
	Upsert(dbc dbctx.Context, userID string, serviceID uint, inputType string, at time.Time) (*types.UserService, error)
	ListByUser(dbc dbctx.Context, userID string) ([]*types.UserService, error)
}

type userServiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserServiceRepo(db *gorm.DB, baseLog *logger.Logger) UserServiceRepo {
	return &userServiceRepo{
		db:  db,
		log: baseLog.With("repo", "UserServiceRepo"),
	}
}

func (r *userServiceRepo) Upsert(dbc dbctx.Context, userID string, serviceID uint, inputType string, at time.Time) (*types.UserService, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if strings.TrimSpace(userID) == "" || serviceID == 0 {
		return nil, errors.New("user id and service id required")
	}
	row := &types.UserService{
		UserID:     userID,
		ServiceID:  serviceID,
		InputType:  inputType,
		SelectedAt: at,
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "service_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"input_type", "selected_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	var out types.UserService
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Service").
		Where("user_id = ? AND service_id = ?", userID, serviceID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userServiceRepo) ListByUser(dbc dbctx.Context, userID string) ([]*types.UserService, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.UserService
	if strings.TrimSpace(userID) == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Service").
		Where("user_id = ?", userID).
		Order("selected_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
