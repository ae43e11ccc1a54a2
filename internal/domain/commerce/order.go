package commerce

import "time"

type Order struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      *string     `gorm:"column:user_id;size:64;index" json:"user_id,omitempty"`
	SessionID   *string     `gorm:"column:session_id;size:64;index" json:"session_id,omitempty"`
	Status      string      `gorm:"column:status;size:20;not null" json:"status"`
	TotalAmount float64     `gorm:"column:total_amount;not null" json:"total_amount"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         uint      `gorm:"column:order_id;not null;index" json:"order_id"`
	ItemName        string    `gorm:"column:item_name;size:200;not null" json:"item_name"`
	ItemDescription string    `gorm:"column:item_description;type:text" json:"item_description"`
	Price           float64   `gorm:"column:price;not null" json:"price"`
	Quantity        int       `gorm:"column:quantity;not null" json:"quantity"`
	Category        string    `gorm:"column:category;size:100" json:"category"`
	DietaryType     string    `gorm:"column:dietary_type;size:30;index" json:"dietary_type"`
	CreatedAt       time.Time `gorm:"not null;index" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
