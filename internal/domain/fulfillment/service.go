package fulfillment

import "time"

// Canonical service names. Detection output is validated against these.
var ServiceNames = []string{"Delivery", "Pickup", "Reservation", "Catering", "Events"}

const DefaultServiceName = "Delivery"

type Service struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ServiceName string    `gorm:"column:service_name;size:50;not null;uniqueIndex" json:"service_name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Service) TableName() string { return "services" }

type UserService struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"column:user_id;size:64;not null;uniqueIndex:idx_user_service,priority:1" json:"user_id"`
	ServiceID  uint      `gorm:"column:service_id;not null;uniqueIndex:idx_user_service,priority:2" json:"service_id"`
	Service    *Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	InputType  string    `gorm:"column:input_type;size:10;not null" json:"input_type"`
	SelectedAt time.Time `gorm:"column:selected_at;not null;index" json:"selected_at"`
}

func (UserService) TableName() string { return "user_services" }
