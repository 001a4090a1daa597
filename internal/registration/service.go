package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/logger"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/customer"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/followup"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/interaction"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/sale"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/vehicle"
)

// Service 封装客户注册工作流（不依赖 HTTP），便于复用和测试。
// 注册 = 客户 + 跟进 + 交互 (+ 购车时的销售/扣库存)，在一个事务里要么全成要么全回滚。
type Service struct {
	db  *gorm.DB
	log logger.Logger
}

func NewService(db *gorm.DB, log logger.Logger) *Service {
	return &Service{db: db, log: log}
}

// RegisterInput 注册入参（可作为传输层 DTO 的基础）。
type RegisterInput struct {
	Name  string
	Email string
	Phone string

	VehicleID     *uint64 // 可选：购买的车辆
	VIN           string  // 可选：成交车架号
	PaymentStatus string  // 可选：Pending/Partial/Completed，默认 Completed
	SaleAmount    *int64  // 可选：成交金额（分），默认取车辆定价
}

// RegisterResult 注册结果。
type RegisterResult struct {
	CustomerID     uint64
	SaleID         uint64 // 未购车为 0
	FollowUpID     uint64
	FollowUpDue    time.Time
	ModelPurchased string
}

// RegisterCustomer 注册新客户（可附带购车）。
//
// 流程（单事务）：
//  1. 字段校验（事务外，一次性收集全部违规项）
//  2. 手机号预检（快速失败；并发场景由唯一索引兜底）
//  3. 购车时：回查车辆 -> 条件扣库存（stock > 0 才命中）-> 重算同组状态
//  4. 写客户（带 model_purchased 标签）
//  5. 写跟进（购车 +30 天售后回访 / 线索 +3 天）
//  6. 写交互流水
//  7. 购车时写销售记录
//
// 任一步失败整体回滚，不会留下部分数据。
func (s *Service) RegisterCustomer(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if s == nil || s.db == nil {
		return nil, &StoreError{Err: fmt.Errorf("service not initialized")}
	}
	if violations := validate(in); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	vin := strings.TrimSpace(in.VIN)
	now := time.Now()

	var out RegisterResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := customer.NewRepo(tx)
		vehicles := vehicle.NewRepo(tx)
		followups := followup.NewRepo(tx)
		interactions := interaction.NewRepo(tx)
		sales := sale.NewRepo(tx)

		// 手机号唯一性预检
		if _, err := customers.FindByPhone(ctx, phone); err == nil {
			return &ConflictError{Message: "phone already exists"}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 购车：回查 + 条件扣库存 + 同组状态重算
		var v *vehicle.Vehicle
		if in.VehicleID != nil {
			var err error
			v, err = vehicles.FindByID(ctx, *in.VehicleID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "vehicle", ID: *in.VehicleID}
			}
			if err != nil {
				return err
			}

			ok, err := vehicles.DecrementStock(ctx, v.ID)
			if err != nil {
				return err
			}
			if !ok {
				// 条件更新没命中任何行：库存已被并发扣完
				return &ValidationError{Violations: []string{"vehicle out of stock"}}
			}
			if err := vehicles.RefreshGroupStatus(ctx, v.Manufacturer, v.Model, v.Year); err != nil {
				return err
			}
		}

		c := &customer.Customer{
			Name:  name,
			Email: email,
			Phone: phone,
		}
		if v != nil {
			vid := v.ID
			c.VehicleID = &vid
			c.ModelPurchased = v.Label()
		}
		if err := customers.Create(ctx, c); err != nil {
			return err
		}

		reason, due := followup.ReasonInitialLead, now.Add(followup.InitialLeadDue)
		if v != nil {
			reason, due = followup.ReasonPostSale, now.Add(followup.PostSaleDue)
		}
		f := &followup.FollowUp{
			CustomerID: c.ID,
			DueAt:      due,
			Reason:     reason,
		}
		if err := followups.Create(ctx, f); err != nil {
			return err
		}

		rec := &interaction.Interaction{
			CustomerID: c.ID,
			Type:       interaction.TypeNewCustomer,
			Notes:      "Initial interaction on registration",
			Date:       now,
		}
		if v != nil {
			vid := v.ID
			rec.VehicleID = &vid
			rec.Type = interaction.TypeSale
			rec.Notes = "Vehicle sold at time of registration"
		}
		if err := interactions.Create(ctx, rec); err != nil {
			return err
		}

		if v != nil {
			status := sale.PaymentCompleted // 未指定时按已付清记账
			if in.PaymentStatus != "" {
				status = sale.PaymentStatus(in.PaymentStatus)
			}
			amount := v.Price
			if in.SaleAmount != nil {
				amount = *in.SaleAmount
			}
			sl := &sale.Sale{
				CustomerID:    c.ID,
				VehicleID:     v.ID,
				SaleDate:      now,
				PaymentStatus: status,
				VIN:           vin,
				Amount:        amount,
			}
			if err := sales.Create(ctx, sl); err != nil {
				return err
			}
			out.SaleID = sl.ID
		}

		out.CustomerID = c.ID
		out.FollowUpID = f.ID
		out.FollowUpDue = due
		out.ModelPurchased = c.ModelPurchased
		return nil
	})
	if err != nil {
		return nil, s.classify(err)
	}
	return &out, nil
}

// classify 把事务返回的错误归入对外分类；存储层原始错误只进日志。
func (s *Service) classify(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce
	}
	var ne *NotFoundError
	if errors.As(err, &ne) {
		return ne
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		// 预检没拦住的并发重复注册，由唯一索引兜底
		return &ConflictError{Message: "phone already exists"}
	}
	if s.log != nil {
		s.log.WithError(err).Error("registration transaction failed")
	}
	return &StoreError{Err: err}
}

// isUniqueViolation 识别各驱动的唯一约束错误文案（MySQL / SQLite）。
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint")
}
