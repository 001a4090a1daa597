package followup

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

func (r *Repo) Create(ctx context.Context, f *FollowUp) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(f).Error
}

// ListPending 未完成跟进，按到期时间升序。
func (r *Repo) ListPending(ctx context.Context, offset, limit int) ([]Report, int64, error) {
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

	q := db.Model(&FollowUp{}).Where("completed = ?", false)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Report
	err := db.Table("follow_ups").
		Select("follow_ups.id, follow_ups.customer_id, follow_ups.follow_up_date AS due_at, "+
			"follow_ups.reason, follow_ups.completed, "+
			"customers.name AS customer_name, customers.phone_number AS customer_phone").
		Joins("JOIN customers ON customers.id = follow_ups.customer_id").
		Where("follow_ups.completed = ?", false).
		Order("follow_ups.follow_up_date").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkCompleted 标记跟进已完成；未命中返回 gorm.ErrRecordNotFound。
func (r *Repo) MarkCompleted(ctx context.Context, id uint64) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	res := db.Model(&FollowUp{}).Where("id = ?", id).UpdateColumn("completed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
