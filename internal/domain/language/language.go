package language

import "time"

type Language struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code       string    `gorm:"column:code;size:10;not null;uniqueIndex" json:"code"`
	Name       string    `gorm:"column:name;size:100;not null" json:"name"`
	NativeName string    `gorm:"column:native_name;size:100" json:"native_name"`
	IsActive   bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Language) TableName() string { return "languages" }
