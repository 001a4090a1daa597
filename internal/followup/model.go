package followup

import "time"

// 跟进原因与到期偏移：购车客户走售后回访（30 天），纯线索走线索跟进（3 天）。
const (
	ReasonPostSale    = "Post-sale vehicle service follow-up"
	ReasonInitialLead = "Initial lead follow-up"

	PostSaleDue    = 30 * 24 * time.Hour
	InitialLeadDue = 3 * 24 * time.Hour
)

// FollowUp 是 follow_ups 表的 GORM 模型。
// 每次客户注册恰好生成一条，completed 初始为 false。
type FollowUp struct {
	ID         uint64    `gorm:"primaryKey"`
	CustomerID uint64    `gorm:"index;not null"`
	DueAt      time.Time `gorm:"column:follow_up_date;not null"`
	Reason     string    `gorm:"size:255;not null"`
	Completed  bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Report 跟进报表行：跟进 + 客户姓名/电话。
type Report struct {
	ID            uint64    `json:"id"`
	CustomerID    uint64    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	DueAt         time.Time `json:"follow_up_date"`
	Reason        string    `json:"reason"`
	Completed     bool      `json:"completed"`
}
