package sale

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, s *Sale) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(s).Error
}

// List 销售报表：JOIN 客户与车辆，最新成交在前。
func (r *Repo) List(ctx context.Context, offset, limit int) ([]Report, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := db.Model(&Sale{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Report
	err := db.Table("sales").
		Select("sales.id, sales.customer_id, sales.vehicle_id, sales.sale_date, " +
			"sales.payment_status, sales.vin, sales.amount, " +
			"customers.name AS customer_name, " +
			"vehicles.manufacturer, vehicles.model AS vehicle_model, vehicles.year AS vehicle_year").
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Joins("JOIN vehicles ON vehicles.id = sales.vehicle_id").
		Order("sales.sale_date DESC, sales.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
