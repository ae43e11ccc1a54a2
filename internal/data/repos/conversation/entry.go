package conversation

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

// ConversationEntryRepo is append-only; entries are never updated or deleted.
type ConversationEntryRepo interface {
	Create(dbc dbctx.Context, entry *types.ConversationEntry) (*types.ConversationEntry, error)
	ListBySession(dbc dbctx.Context, sessionID string) ([]*types.ConversationEntry, error)
}

type conversationEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationEntryRepo(db *gorm.DB, baseLog *logger.Logger) ConversationEntryRepo {
	return &conversationEntryRepo{
		db:  db,
		log: baseLog.With("repo", "ConversationEntryRepo"),
	}
}

func (r *conversationEntryRepo) Create(dbc dbctx.Context, entry *types.ConversationEntry) (*types.ConversationEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if entry == nil {
		return nil, errors.New("entry required")
	}
	if err := transaction.WithContext(dbc.Ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *conversationEntryRepo) ListBySession(dbc dbctx.Context, sessionID string) ([]*types.ConversationEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ConversationEntry
	if strings.TrimSpace(sessionID) == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
