package catalog

import "time"

// Question is one step of the wizard. QuestionOrder defines the sequence
// among active questions.
type Question struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionKey   string    `gorm:"column:question_key;size:100;not null;uniqueIndex" json:"question_key"`
	QuestionText  string    `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionOrder int       `gorm:"column:question_order;not null;index" json:"question_order"`
	Type          string    `gorm:"column:type;size:50;not null" json:"type"`
	IsActive      bool      `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "question_masters" }

type QuestionTranslation struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionKey    string    `gorm:"column:question_key;size:100;not null;uniqueIndex:idx_question_translation_lang,priority:1" json:"question_key"`
	Language       string    `gorm:"column:language;size:10;not null;uniqueIndex:idx_question_translation_lang,priority:2" json:"language"`
	TranslatedText string    `gorm:"column:translated_text;type:text;not null" json:"translated_text"`
	Variant        *string   `gorm:"column:variant;size:50" json:"variant,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (QuestionTranslation) TableName() string { return "question_translations" }
