package catalog

import "time"

// Answer is one selectable option. Only active answers under an active
// question are matchable.
type Answer struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AnswerKey   string    `gorm:"column:answer_key;size:100;not null;uniqueIndex" json:"answer_key"`
	QuestionKey string    `gorm:"column:question_key;size:100;not null;index" json:"question_key"`
	AnswerText  string    `gorm:"column:answer_text;type:text;not null" json:"answer_text"`
	AnswerOrder int       `gorm:"column:answer_order;not null" json:"answer_order"`
	IsActive    bool      `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Answer) TableName() string { return "answer_masters" }

type AnswerTranslation struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AnswerKey      string    `gorm:"column:answer_key;size:100;not null;uniqueIndex:idx_answer_translation_lang,priority:1" json:"answer_key"`
	Language       string    `gorm:"column:language;size:10;not null;uniqueIndex:idx_answer_translation_lang,priority:2" json:"language"`
	TranslatedText string    `gorm:"column:translated_text;type:text;not null" json:"translated_text"`
	Variant        *string   `gorm:"column:variant;size:50" json:"variant,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (AnswerTranslation) TableName() string { return "answer_translations" }
