package interaction

import "time"

// 注册时记录的交互类型。
const (
	TypeSale        = "Sale"
	TypeNewCustomer = "New Customer"
)

// Interaction 是 interactions 表的 GORM 模型（客户触点流水）。
type Interaction struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	CustomerID uint64    `gorm:"index;not null" json:"customer_id"`
	VehicleID  *uint64   `gorm:"index" json:"vehicle_id,omitempty"`
	Type       string    `gorm:"size:32;not null" json:"interaction_type"`
	Notes      string    `gorm:"size:255" json:"notes"`
	Date       time.Time `gorm:"not null" json:"interaction_date"`
}
