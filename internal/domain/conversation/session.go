package conversation

import (
	"time"

	"gorm.io/datatypes"
)

const DefaultLanguage = "en"

// Session is created lazily on the first language, service or wizard call.
type Session struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	UserID    *string        `gorm:"column:user_id;size:64;index" json:"user_id,omitempty"`
	Language  string         `gorm:"column:language;size:10;not null" json:"language"`
	InputType string         `gorm:"column:input_type;size:10;not null" json:"input_type"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "sessions" }

// LanguageOrDefault never returns an empty code.
func (s *Session) LanguageOrDefault() string {
	if s == nil || s.Language == "" {
		return DefaultLanguage
	}
	return s.Language
}
