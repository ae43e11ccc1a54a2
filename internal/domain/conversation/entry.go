package conversation

import (
	"time"

	"gorm.io/datatypes"
)

// ConversationEntry is one recorded wizard turn. Rows are append-only.
type ConversationEntry struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID    *string        `gorm:"column:session_id;size:64;index" json:"session_id,omitempty"`
	UserID       *string        `gorm:"column:user_id;size:64;index" json:"user_id,omitempty"`
	QuestionKey  string         `gorm:"column:question_key;size:100;not null;index" json:"question_key"`
	AnswerKey    *string        `gorm:"column:answer_key;size:100" json:"answer_key,omitempty"`
	CustomInput  *string        `gorm:"column:custom_input;type:text" json:"custom_input,omitempty"`
	ResponseText *string        `gorm:"column:response_text;type:text" json:"response_text,omitempty"`
	SelectType   Channel        `gorm:"column:select_type;size:10;not null" json:"select_type"`
	Metadata     datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
}

func (ConversationEntry) TableName() string { return "conversation_entries" }
