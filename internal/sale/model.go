package sale

import "time"

// PaymentStatus 付款状态枚举（持久化为字符串）。
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"   // 未付款
	PaymentPartial   PaymentStatus = "Partial"   // 部分付款
	PaymentCompleted PaymentStatus = "Completed" // 已付清
)

// ValidPaymentStatus 校验付款状态取值。
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentCompleted:
		return true
	}
	return false
}

// Sale 是 sales 表的 GORM 模型。
// 仅在注册时附带购车才会产生，一次购车注册恰好一条。
type Sale struct {
	ID            uint64        `gorm:"primaryKey"`
	CustomerID    uint64        `gorm:"index;not null"`
	VehicleID     uint64        `gorm:"index;not null"`
	SaleDate      time.Time     `gorm:"not null"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null;default:'Pending'"`
	VIN           string        `gorm:"column:vin;size:50"` // 可选，不做唯一约束
	Amount        int64         `gorm:"not null;default:0"` // 成交金额，单位：分

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Report 销售报表行：销售 + 客户姓名 + 车辆标签。
type Report struct {
	ID            uint64        `json:"id"`
	CustomerID    uint64        `json:"customer_id"`
	CustomerName  string        `json:"customer_name"`
	VehicleID     uint64        `json:"vehicle_id"`
	Manufacturer  string        `json:"manufacturer"`
	VehicleModel  string        `json:"vehicle_model"`
	VehicleYear   int           `json:"vehicle_year"`
	SaleDate      time.Time     `json:"sale_date"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	VIN           string        `json:"vin"`
	Amount        int64         `json:"amount"`
}
