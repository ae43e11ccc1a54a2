package commerce

import (
	"gorm.io/gorm"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/commerce"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

// MenuItemRepo reads line items as suggestion candidates. Dietary type is
// matched case-insensitively and results are newest first.
type MenuItemRepo interface {
	RecentOrderItems(dbc dbctx.Context, dietaryType string, limit int) ([]commerce.MenuItem, error)
	ActiveCartItems(dbc dbctx.Context, dietaryType string, limit int) ([]commerce.MenuItem, error)
	AnyItems(dbc dbctx.Context, dietaryType string, limit int) ([]commerce.MenuItem, error)
}

type menuItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMenuItemRepo(db *gorm.DB, baseLog *logger.Logger) MenuItemRepo {
	return &menuItemRepo{
		db:  db,
		log: baseLog.With("repo", "MenuItemRepo"),
	}
}

func (r *menuItemRepo) RecentOrderItems(dbc dbctx.Context, dietaryType string, limit int) ([]commerce.MenuItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []commerce.MenuItem
	if limit <= 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.OrderItem{}).
		Select("item_name AS name, item_description AS description, price, category").
		Where("LOWER(dietary_type) = LOWER(?) AND item_name <> ''", dietaryType).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *menuItemRepo) ActiveCartItems(dbc dbctx.Context, dietaryType string, limit int) ([]commerce.MenuItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []commerce.MenuItem
	if limit <= 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.CartItem{}).
		Select("cart_items.name AS name, cart_items.description AS description, cart_items.price, cart_items.category").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.status = ? AND LOWER(cart_items.dietary_type) = LOWER(?) AND cart_items.name <> ''", commerce.CartStatusActive, dietaryType).
		Order("cart_items.created_at DESC, cart_items.id DESC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *menuItemRepo) AnyItems(dbc dbctx.Context, dietaryType string, limit int) ([]commerce.MenuItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []commerce.MenuItem
	if limit <= 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT name, description, price, category FROM (
			SELECT item_name AS name, item_description AS description, price, category, dietary_type, created_at FROM order_items
			UNION ALL
			SELECT name, description, price, category, dietary_type, created_at FROM cart_items
		) AS all_items
		WHERE LOWER(dietary_type) = LOWER(?) AND name <> ''
		ORDER BY created_at DESC
		LIMIT ?`, dietaryType, limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
