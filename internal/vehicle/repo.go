package vehicle

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

func (r *Repo) FindByID(ctx context.Context, id uint64) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ListAvailable 在售车辆列表（status=Available 且 stock>0），按厂商/车型/年份排序。
func (r *Repo) ListAvailable(ctx context.Context) ([]Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var vehicles []Vehicle
	err := db.Where("status = ? AND stock > 0", StatusAvailable).
		Order("manufacturer, model, year").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// List 全量库存（后台报表用）+ 分页。
func (r *Repo) List(ctx context.Context, offset, limit int) ([]Vehicle, int64, error) {
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

	q := db.Model(&Vehicle{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var vehicles []Vehicle
	if err := q.Order("manufacturer, model, year").Offset(offset).Limit(limit).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// DecrementStock 条件扣减库存：仅当 stock > 0 时减 1。
// 返回 false 表示没有命中任何行（并发下已被扣完），由调用方按“缺货”处理。
// 依赖数据库的行级原子性防止超卖，应用层不加锁。
func (r *Repo) DecrementStock(ctx context.Context, id uint64) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := db.Model(&Vehicle{}).
		Where("id = ? AND stock > 0", id).
		UpdateColumn("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GroupStock 同组 (manufacturer, model, year) 库存合计。
func (r *Repo) GroupStock(ctx context.Context, manufacturer, model string, year int) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := db.Model(&Vehicle{}).
		Where("manufacturer = ? AND model = ? AND year = ?", manufacturer, model, year).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// RefreshGroupStatus 按同组库存合计重算状态：
// - 合计 <= 0：整组置为 Sold
// - 合计 > 0：把之前误置/售罄回补的 Sold 行恢复为 Available（Reserved 不动）
func (r *Repo) RefreshGroupStatus(ctx context.Context, manufacturer, model string, year int) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	total, err := r.GroupStock(ctx, manufacturer, model, year)
	if err != nil {
		return err
	}

	group := db.Model(&Vehicle{}).
		Where("manufacturer = ? AND model = ? AND year = ?", manufacturer, model, year)
	if DeriveStatus(total) == StatusSold {
		return group.UpdateColumn("status", StatusSold).Error
	}
	return group.Where("status = ?", StatusSold).UpdateColumn("status", StatusAvailable).Error
}

// Count 库存行数（启动时判断是否需要播种样例数据）。
func (r *Repo) Count(ctx context.Context) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	if err := db.Model(&Vehicle{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Create 新增库存行。
func (r *Repo) Create(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(v).Error
}
