package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/fulfillment"
)

type seedAnswer struct {
	Key          string
	Text         string
	Translations map[string]string
}

type seedQuestion struct {
	Key          string
	Text         string
	Order        int
	Translations map[string]string
	Answers      []seedAnswer
}

// DefaultWizard is the three-step food wizard installed by `seed`.
var DefaultWizard = []seedQuestion{
	{
		Key:   "dietary_preference",
		Text:  "What is your dietary preference?",
		Order: 1,
		Translations: map[string]string{
			"es": "¿Cuál es tu preferencia alimentaria?",
			"fr": "Quelle est votre préférence alimentaire ?",
			"hi": "आपकी आहार वरीयता क्या है?",
		},
		Answers: []seedAnswer{
			{Key: "veg_key", Text: "Vegetarian", Translations: map[string]string{"es": "Vegetariano", "fr": "Végétarien", "hi": "शाकाहारी"}},
			{Key: "non_veg_key", Text: "Non-Vegetarian", Translations: map[string]string{"es": "No vegetariano", "fr": "Non végétarien", "hi": "मांसाहारी"}},
			{Key: "vegan_key", Text: "Vegan", Translations: map[string]string{"es": "Vegano", "fr": "Végétalien", "hi": "वीगन"}},
		},
	},
	{
		Key:   "cuisine_type",
		Text:  "What cuisine are you craving?",
		Order: 2,
		Translations: map[string]string{
			"es": "¿Qué cocina te apetece?",
			"fr": "Quelle cuisine vous fait envie ?",
			"hi": "आप कौन सा व्यंजन खाना चाहते हैं?",
		},
		Answers: []seedAnswer{
			{Key: "chinese_key", Text: "Chinese", Translations: map[string]string{"es": "China", "fr": "Chinoise", "hi": "चाइनीज़"}},
			{Key: "italian_key", Text: "Italian", Translations: map[string]string{"es": "Italiana", "fr": "Italienne", "hi": "इटैलियन"}},
			{Key: "mexican_key", Text: "Mexican", Translations: map[string]string{"es": "Mexicana", "fr": "Mexicaine", "hi": "मैक्सिकन"}},
			{Key: "japanese_key", Text: "Japanese", Translations: map[string]string{"es": "Japonesa", "fr": "Japonaise", "hi": "जापानी"}},
		},
	},
	{
		Key:   "hunger_level",
		Text:  "How hungry are you?",
		Order: 3,
		Translations: map[string]string{
			"es": "¿Cuánta hambre tienes?",
			"fr": "Quelle faim avez-vous ?",
			"hi": "आपको कितनी भूख लगी है?",
		},
		Answers: []seedAnswer{
			{Key: "snacking_key", Text: "Just Snacking", Translations: map[string]string{"es": "Solo picar algo", "fr": "Juste grignoter", "hi": "बस नाश्ता"}},
			{Key: "hungry_key", Text: "Hungry", Translations: map[string]string{"es": "Con hambre", "fr": "J'ai faim", "hi": "भूखा"}},
			{Key: "super_hungry_key", Text: "Super Hungry", Translations: map[string]string{"es": "Muchísima hambre", "fr": "Très faim", "hi": "बहुत भूखा"}},
		},
	},
}

var defaultLanguages = []types.Language{
	{Code: "en", Name: "English", NativeName: "English", IsActive: true},
	{Code: "es", Name: "Spanish", NativeName: "Español", IsActive: true},
	{Code: "fr", Name: "French", NativeName: "Français", IsActive: true},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी", IsActive: true},
}

var serviceDescriptions = map[string]string{
	"Delivery":    "Food delivered to your door",
	"Pickup":      "Order ahead and pick up in store",
	"Reservation": "Reserve a table",
	"Catering":    "Food for groups and occasions",
	"Events":      "Private dining and events",
}

// SeedWizard installs the default questions, answers and translations.
// Existing rows are left untouched.
func SeedWizard(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ignore := tx.Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})
		for _, q := range DefaultWizard {
			if err := ignore.Create(&types.Question{
				QuestionKey:   q.Key,
				QuestionText:  q.Text,
				QuestionOrder: q.Order,
				Type:          "single_choice",
				IsActive:      true,
			}).Error; err != nil {
				return fmt.Errorf("seed question %s: %w", q.Key, err)
			}
			for lang, text := range q.Translations {
				if err := ignore.Create(&types.QuestionTranslation{QuestionKey: q.Key, Language: lang, TranslatedText: text}).Error; err != nil {
					return fmt.Errorf("seed question translation %s/%s: %w", q.Key, lang, err)
				}
			}
			for i, a := range q.Answers {
				if err := ignore.Create(&types.Answer{
					AnswerKey:   a.Key,
					QuestionKey: q.Key,
					AnswerText:  a.Text,
					AnswerOrder: i + 1,
					IsActive:    true,
				}).Error; err != nil {
					return fmt.Errorf("seed answer %s: %w", a.Key, err)
				}
				for lang, text := range a.Translations {
					if err := ignore.Create(&types.AnswerTranslation{AnswerKey: a.Key, Language: lang, TranslatedText: text}).Error; err != nil {
						return fmt.Errorf("seed answer translation %s/%s: %w", a.Key, lang, err)
					}
				}
			}
		}
		return nil
	})
}

func SeedReferenceData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ignore := tx.Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})
		for i := range defaultLanguages {
			lang := defaultLanguages[i]
			if err := ignore.Create(&lang).Error; err != nil {
				return fmt.Errorf("seed language %s: %w", lang.Code, err)
			}
		}
		for _, name := range fulfillment.ServiceNames {
			if err := ignore.Create(&types.Service{
				ServiceName: name,
				Description: serviceDescriptions[name],
				IsActive:    true,
			}).Error; err != nil {
				return fmt.Errorf("seed service %s: %w", name, err)
			}
		}
		return nil
	})
}

func SeedAll(ctx context.Context, db *gorm.DB) error {
	if err := SeedWizard(ctx, db); err != nil {
		return err
	}
	return SeedReferenceData(ctx, db)
}
