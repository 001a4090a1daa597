package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/logger"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/customer"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/followup"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/interaction"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/registration"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/sale"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/vehicle"
)

// Handler JSON API 处理器：注册工作流 + 只读报表查询。
type Handler struct {
	svc          *registration.Service
	customers    *customer.Repo
	vehicles     *vehicle.Repo
	sales        *sale.Repo
	followups    *followup.Repo
	interactions *interaction.Repo
	log          logger.Logger
}

func NewHandler(db *gorm.DB, log logger.Logger) *Handler {
	return &Handler{
		svc:          registration.NewService(db, log),
		customers:    customer.NewRepo(db),
		vehicles:     vehicle.NewRepo(db),
		sales:        sale.NewRepo(db),
		followups:    followup.NewRepo(db),
		interactions: interaction.NewRepo(db),
		log:          log,
	}
}

// Register 挂载 API 路由。
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api")
	g.POST("/customers", h.registerCustomer)
	g.GET("/customers", h.listCustomers)
	g.GET("/customers/:id/interactions", h.listInteractions)
	g.GET("/vehicles", h.listVehicles)
	g.GET("/followups", h.listFollowUps)
	g.GET("/sales", h.listSales)
}

// registerRequest 注册请求体（字段名沿用既有 API 契约）。
type registerRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email_id"`
	Phone         string  `json:"phone_number"`
	VehicleID     *uint64 `json:"vehicle_id"`
	VIN           string  `json:"vin"`
	PaymentStatus string  `json:"payment_status"`
	SaleAmount    *int64  `json:"sale_amount"`
}

func (h *Handler) registerCustomer(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.RegisterCustomer(c.Request.Context(), registration.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		VehicleID:     req.VehicleID,
		VIN:           req.VIN,
		PaymentStatus: req.PaymentStatus,
		SaleAmount:    req.SaleAmount,
	})
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	respondSuccess(c, "Customer, interaction, follow-up, and sales data added", gin.H{
		"customer_id":     res.CustomerID,
		"sale_id":         res.SaleID,
		"follow_up_id":    res.FollowUpID,
		"follow_up_due":   res.FollowUpDue,
		"model_purchased": res.ModelPurchased,
	})
}

// respondWorkflowError 按错误分类映射状态码；存储层细节不外泄。
func (h *Handler) respondWorkflowError(c *gin.Context, err error) {
	var ve *registration.ValidationError
	if errors.As(err, &ve) {
		respondError(c, http.StatusBadRequest, "validation failed", ve.Violations...)
		return
	}
	var ce *registration.ConflictError
	if errors.As(err, &ce) {
		respondError(c, http.StatusConflict, ce.Message)
		return
	}
	var ne *registration.NotFoundError
	if errors.As(err, &ne) {
		respondError(c, http.StatusNotFound, "vehicle not available")
		return
	}
	if h.log != nil {
		h.log.WithError(err).Error("register customer failed")
	}
	respondError(c, http.StatusInternalServerError, "internal error")
}

func (h *Handler) listCustomers(c *gin.Context) {
	offset, limit := pagination(c)
	rows, total, err := h.customers.ListWithVehicle(c.Request.Context(), offset, limit)
	if err != nil {
		h.respondListError(c, "list customers", err)
		return
	}
	respondSuccess(c, "ok", gin.H{"customers": rows, "total": total})
}

func (h *Handler) listInteractions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid customer id")
		return
	}
	if _, err := h.customers.FindByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "customer not found")
			return
		}
		h.respondListError(c, "find customer", err)
		return
	}
	rows, err := h.interactions.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.respondListError(c, "list interactions", err)
		return
	}
	respondSuccess(c, "ok", gin.H{"interactions": rows})
}

func (h *Handler) listVehicles(c *gin.Context) {
	rows, err := h.vehicles.ListAvailable(c.Request.Context())
	if err != nil {
		h.respondListError(c, "list vehicles", err)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, v := range rows {
		out = append(out, gin.H{
			"vehicle_id":   v.ID,
			"manufacturer": v.Manufacturer,
			"model":        v.Model,
			"year":         v.Year,
			"price":        v.Price,
			"stock":        v.Stock,
			"status":       v.Status,
		})
	}
	respondSuccess(c, "ok", gin.H{"vehicles": out})
}

func (h *Handler) listFollowUps(c *gin.Context) {
	offset, limit := pagination(c)
	rows, total, err := h.followups.ListPending(c.Request.Context(), offset, limit)
	if err != nil {
		h.respondListError(c, "list follow-ups", err)
		return
	}
	respondSuccess(c, "ok", gin.H{"followups": rows, "total": total})
}

func (h *Handler) listSales(c *gin.Context) {
	offset, limit := pagination(c)
	rows, total, err := h.sales.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.respondListError(c, "list sales", err)
		return
	}
	respondSuccess(c, "ok", gin.H{"sales": rows, "total": total})
}

func (h *Handler) respondListError(c *gin.Context, op string, err error) {
	if h.log != nil {
		h.log.WithError(err).Errorf("%s failed", op)
	}
	respondError(c, http.StatusInternalServerError, "internal error")
}

func pagination(c *gin.Context) (offset, limit int) {
	page := intQuery(c, "page", 1)
	size := intQuery(c, "page_size", 50)
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}
	return (page - 1) * size, size
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
