package customer

import (
	"time"
)

// Customer 是 customers 表的 GORM 模型。
// phone_number 全局唯一，由数据库唯一索引兜底（应用层只做快速预检）。
type Customer struct {
	ID             uint64  `gorm:"primaryKey"`
	Name           string  `gorm:"size:100;not null"`
	Email          string  `gorm:"column:email_id;size:100"`
	Phone          string  `gorm:"column:phone_number;uniqueIndex;size:15;not null"`
	VehicleID      *uint64 `gorm:"index"` // 购车客户指向所购车辆；纯线索客户为空
	ModelPurchased string  `gorm:"size:100"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Report 客户报表行：客户 + 所购车辆（LEFT JOIN，线索客户车辆字段为空）。
type Report struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email_id"`
	Phone          string    `json:"phone_number"`
	ModelPurchased string    `json:"model_purchased"`
	Manufacturer   string    `json:"manufacturer"`
	VehicleModel   string    `json:"vehicle_model"`
	VehicleYear    int       `json:"vehicle_year"`
	CreatedAt      time.Time `json:"created_at"`
}
