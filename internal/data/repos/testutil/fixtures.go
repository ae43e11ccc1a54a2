package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/db"
	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/commerce"
)

// SeedWizard installs the default three-question catalog with translations.
func SeedWizard(tb testing.TB, ctx context.Context, tx *gorm.DB) {
	tb.Helper()
	if err := db.SeedWizard(ctx, tx); err != nil {
		tb.Fatalf("seed wizard: %v", err)
	}
}

func SeedReference(tb testing.TB, ctx context.Context, tx *gorm.DB) {
	tb.Helper()
	if err := db.SeedReferenceData(ctx, tx); err != nil {
		tb.Fatalf("seed reference data: %v", err)
	}
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, key string, order int, active bool) *types.Question {
	tb.Helper()
	q := &types.Question{
		QuestionKey:   key,
		QuestionText:  key + "?",
		QuestionOrder: order,
		Type:          "single_choice",
		IsActive:      active,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedAnswer(tb testing.TB, ctx context.Context, tx *gorm.DB, questionKey, key, text string, order int, active bool) *types.Answer {
	tb.Helper()
	a := &types.Answer{
		AnswerKey:   key,
		QuestionKey: questionKey,
		AnswerText:  text,
		AnswerOrder: order,
		IsActive:    active,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed answer: %v", err)
	}
	return a
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, id, language string) *types.Session {
	tb.Helper()
	s := &types.Session{ID: id, Language: language, InputType: "text"}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedOrderItem(tb testing.TB, ctx context.Context, tx *gorm.DB, name, dietaryType string, price float64) *types.OrderItem {
	tb.Helper()
	o := &types.Order{Status: "completed", TotalAmount: price}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	it := &types.OrderItem{
		OrderID:         o.ID,
		ItemName:        name,
		ItemDescription: name + " description",
		Price:           price,
		Quantity:        1,
		Category:        "Main",
		DietaryType:     dietaryType,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed order item: %v", err)
	}
	return it
}

func SeedCartItem(tb testing.TB, ctx context.Context, tx *gorm.DB, name, dietaryType string, price float64) *types.CartItem {
	tb.Helper()
	c := &types.Cart{Status: commerce.CartStatusActive}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed cart: %v", err)
	}
	it := &types.CartItem{
		CartID:      c.ID,
		Name:        name,
		Description: name + " description",
		Price:       price,
		Quantity:    1,
		Category:    "Main",
		DietaryType: dietaryType,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed cart item: %v", err)
	}
	return it
}
