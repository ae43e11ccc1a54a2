package user

import "time"

// User is keyed by a caller-provided identifier (phone number or device id).
// Users created from a session reference are guests until they register.
type User struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	IsGuest    bool      `gorm:"column:is_guest;not null" json:"is_guest"`
	DeviceInfo *string   `gorm:"column:device_info;type:text" json:"device_info,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }
