package commerce

import "time"

const CartStatusActive = "active"

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string    `gorm:"column:user_id;size:64;index" json:"user_id,omitempty"`
	SessionID *string    `gorm:"column:session_id;size:64;index" json:"session_id,omitempty"`
	Status    string     `gorm:"column:status;size:20;not null;index" json:"status"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID      uint      `gorm:"column:cart_id;not null;index" json:"cart_id"`
	Name        string    `gorm:"column:name;size:200;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Price       float64   `gorm:"column:price;not null" json:"price"`
	Quantity    int       `gorm:"column:quantity;not null" json:"quantity"`
	Category    string    `gorm:"column:category;size:100" json:"category"`
	DietaryType string    `gorm:"column:dietary_type;size:30;index" json:"dietary_type"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

func (CartItem) TableName() string { return "cart_items" }
