package user

import (
	"context"
	"testing"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/testutil"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
)

func TestUserRepoEnsureGuest(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	u, err := repo.EnsureGuest(dbc, "+12065551212", nil)
	if err != nil {
		t.Fatalf("EnsureGuest: %v", err)
	}
	if !u.IsGuest || u.ID != "+12065551212" {
		t.Fatalf("EnsureGuest=%+v", u)
	}

	if err := tx.Model(&types.User{}).Where("id = ?", u.ID).Update("is_guest", false).Error; err != nil {
		t.Fatalf("promote: %v", err)
	}
	again, err := repo.EnsureGuest(dbc, u.ID, nil)
	if err != nil || again.IsGuest {
		t.Fatalf("EnsureGuest must not reset a registered user: %+v, %v", again, err)
	}

	if _, err := repo.EnsureGuest(dbc, "  ", nil); err == nil {
		t.Fatalf("expected error for blank id")
	}
	if missing, err := repo.GetByID(dbc, "nobody"); err != nil || missing != nil {
		t.Fatalf("GetByID(nobody)=%+v, %v", missing, err)
	}
}
