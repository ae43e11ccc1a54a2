package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/commerce"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

// Item sources, in the order they are consulted.
const (
	SuggestSourceOrders   = "orders"
	SuggestSourceCart     = "cart"
	SuggestSourceAny      = "any"
	SuggestSourceFallback = "static_fallback"
)

type SuggestDeps struct {
	Log     *logger.Logger
	Items   repos.MenuItemRepo
	Metrics *observability.Metrics
}

type suggestTemplate struct {
	intro    string
	empty    string
	followUp string
}

var suggestTemplates = map[string]suggestTemplate{
	"en": {
		intro:    "Here are some great %s food suggestions for you:",
		empty:    "Sorry, I couldn't find any %s food suggestions at the moment. Please try again later.",
		followUp: "Would you like to know more about any of these items or need different suggestions?",
	},
	"es": {
		intro:    "Aquí tienes algunas excelentes sugerencias de comida %s para ti:",
		empty:    "Lo siento, no pude encontrar sugerencias de comida %s en este momento. Por favor, inténtalo de nuevo más tarde.",
		followUp: "¿Te gustaría saber más sobre alguno de estos artículos o necesitas sugerencias diferentes?",
	},
	"fr": {
		intro:    "Voici quelques excellentes suggestions de nourriture %s pour vous:",
		empty:    "Désolé, je n'ai pas pu trouver de suggestions de nourriture %s pour le moment. Veuillez réessayer plus tard.",
		followUp: "Aimeriez-vous en savoir plus sur l'un de ces articles ou avez-vous besoin de suggestions différentes?",
	},
	"hi": {
		intro:    "यहाँ आपके लिए कुछ बेहतरीन %s भोजन सुझाव हैं:",
		empty:    "क्षमा करें, मैं इस समय कोई %s भोजन सुझाव नहीं खोज सका। कृपया बाद में पुनः प्रयास करें।",
		followUp: "क्या आप इनमें से किसी आइटम के बारे में अधिक जानना चाहेंगे या आपको अलग सुझाव चाहिए?",
	},
}

func staticSuggestions(d Diet) []commerce.MenuItem {
	switch d {
	case DietNonVeg:
		return []commerce.MenuItem{
			{Name: "Chicken Burger", Description: "Juicy chicken patty with fresh vegetables", Price: 11.99, Category: "Burger"},
			{Name: "Beef Steak", Description: "Tender beef steak cooked to perfection", Price: 24.99, Category: "Main Course"},
			{Name: "Fish & Chips", Description: "Crispy fish with golden fries", Price: 16.99, Category: "Seafood"},
		}
	case DietVegan:
		return []commerce.MenuItem{
			{Name: "Vegan Buddha Bowl", Description: "Quinoa, vegetables, and tahini dressing", Price: 13.99, Category: "Bowl"},
			{Name: "Vegan Tacos", Description: "Plant-based protein with fresh vegetables", Price: 10.99, Category: "Mexican"},
			{Name: "Vegan Smoothie", Description: "Mixed fruits and plant-based milk", Price: 6.99, Category: "Beverage"},
		}
	default:
		return []commerce.MenuItem{
			{Name: "Vegetable Pizza", Description: "Fresh vegetables on crispy crust", Price: 12.99, Category: "Pizza"},
			{Name: "Caesar Salad", Description: "Fresh lettuce with vegetarian dressing", Price: 8.99, Category: "Salad"},
			{Name: "Pasta Primavera", Description: "Mixed vegetables with pasta", Price: 14.99, Category: "Pasta"},
		}
	}
}

// Suggest returns a localized, numbered list of up to limit items for the
// diet. It always returns non-empty text: source failures and panics fall
// back to the static list.
func Suggest(ctx context.Context, deps SuggestDeps, diet Diet, language string, limit int) (text string) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	defer func() {
		if r := recover(); r != nil {
			if deps.Log != nil {
				deps.Log.Error("suggestion generator panicked", "diet", diet, "panic", r)
			}
			deps.Metrics.ObserveSuggestionSource(SuggestSourceFallback)
			text = FormatSuggestions(truncateItems(staticSuggestions(diet), limit), diet, language)
		}
	}()

	items, source := CollectSuggestions(ctx, deps, diet, limit)
	deps.Metrics.ObserveSuggestionSource(source)
	return FormatSuggestions(items, diet, language)
}

// CollectSuggestions walks the item sources until limit items are found and
// reports the last source that contributed.
func CollectSuggestions(ctx context.Context, deps SuggestDeps, diet Diet, limit int) ([]commerce.MenuItem, string) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if deps.Items == nil {
		return truncateItems(staticSuggestions(diet), limit), SuggestSourceFallback
	}
	dbc := dbctx.Context{Ctx: ctx}
	dietaryType := diet.DietaryType()

	type source struct {
		name  string
		fetch func(dbctx.Context, string, int) ([]commerce.MenuItem, error)
	}
	sources := []source{
		{SuggestSourceOrders, deps.Items.RecentOrderItems},
		{SuggestSourceCart, deps.Items.ActiveCartItems},
		{SuggestSourceAny, deps.Items.AnyItems},
	}

	var out []commerce.MenuItem
	seen := map[string]bool{}
	last := ""
	for _, src := range sources {
		remaining := limit - len(out)
		if remaining <= 0 {
			break
		}
		rows, err := src.fetch(dbc, dietaryType, remaining)
		if err != nil {
			if deps.Log != nil {
				deps.Log.Warn("suggestion source failed", "source", src.name, "diet", dietaryType, "error", err)
			}
			continue
		}
		for _, it := range rows {
			name := strings.ToLower(strings.TrimSpace(it.Name))
			if name == "" || seen[name] || len(out) >= limit {
				continue
			}
			seen[name] = true
			out = append(out, it)
			last = src.name
		}
	}
	if len(out) == 0 {
		return truncateItems(staticSuggestions(diet), limit), SuggestSourceFallback
	}
	return out, last
}

// FormatSuggestions renders items with the language's template, falling
// back to English.
func FormatSuggestions(items []commerce.MenuItem, diet Diet, language string) string {
	tpl, ok := suggestTemplates[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		tpl = suggestTemplates[conversation.DefaultLanguage]
	}
	label := diet.DietaryType()
	if len(items) == 0 {
		return fmt.Sprintf(tpl.empty, label)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(tpl.intro, label))
	b.WriteString("\n\n")
	for i, it := range items {
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			desc = "Delicious food item"
		}
		category := strings.TrimSpace(it.Category)
		if category == "" {
			category = "Food"
		}
		price := "Price on request"
		if it.Price > 0 {
			price = fmt.Sprintf("$%.2f", it.Price)
		}
		fmt.Fprintf(&b, "%d. **%s**\n   %s\n   Price: %s\n   Category: %s\n\n", i+1, strings.TrimSpace(it.Name), desc, price, category)
	}
	b.WriteString(tpl.followUp)
	return b.String()
}

func truncateItems(items []commerce.MenuItem, limit int) []commerce.MenuItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
