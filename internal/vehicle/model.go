package vehicle

import (
	"fmt"
	"time"
)

// Status 车辆库存状态（持久化为字符串）。
type Status string

const (
	StatusAvailable Status = "Available" // 在售
	StatusReserved  Status = "Reserved"  // 已预订
	StatusSold      Status = "Sold"      // 售罄（同组库存合计为 0 时）
)

// Vehicle 是 vehicles 表的 GORM 模型。
// 同一 (manufacturer, model, year) 组合可能有多行（不同批次入库）。
type Vehicle struct {
	ID           uint64 `gorm:"primaryKey"`
	Manufacturer string `gorm:"size:50;not null;index:idx_model,priority:1"`
	Model        string `gorm:"size:50;not null;index:idx_model,priority:2"`
	Year         int    `gorm:"not null;index:idx_model,priority:3"`
	Price        int64  `gorm:"not null"`                         // 单位：分
	Stock        int    `gorm:"not null;default:0;check:stock >= 0"` // 库存数，数据库层保证非负
	Status       Status `gorm:"type:varchar(16);index;not null;default:'Available'"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Label 车辆展示标签，写入客户的 model_purchased 字段。
func (v Vehicle) Label() string {
	return fmt.Sprintf("%s %s (%d)", v.Manufacturer, v.Model, v.Year)
}

// DeriveStatus 根据同组库存合计推导状态：合计 <= 0 即 Sold。
// 合计 > 0 时只把 Sold 行恢复为 Available，Reserved 行不动。
func DeriveStatus(groupStock int64) Status {
	if groupStock <= 0 {
		return StatusSold
	}
	return StatusAvailable
}
