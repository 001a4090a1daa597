package customer

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

func (r *Repo) Create(ctx context.Context, c *Customer) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(c).Error
}

func (r *Repo) FindByID(ctx context.Context, id uint64) (*Customer, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Customer
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByPhone 手机号预检用；未找到返回 gorm.ErrRecordNotFound。
func (r *Repo) FindByPhone(ctx context.Context, phone string) (*Customer, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Customer
	if err := db.Where("phone_number = ?", phone).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListWithVehicle 客户报表：LEFT JOIN 车辆，最新注册在前。
func (r *Repo) ListWithVehicle(ctx context.Context, offset, limit int) ([]Report, int64, error) {
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
	if err := db.Model(&Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Report
	err := db.Table("customers").
		Select("customers.id, customers.name, customers.email_id AS email, customers.phone_number AS phone, " +
			"customers.model_purchased, customers.created_at, " +
			"COALESCE(vehicles.manufacturer, '') AS manufacturer, " +
			"COALESCE(vehicles.model, '') AS vehicle_model, " +
			"COALESCE(vehicles.year, 0) AS vehicle_year").
		Joins("LEFT JOIN vehicles ON vehicles.id = customers.vehicle_id").
		Order("customers.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
