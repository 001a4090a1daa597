package dashboard

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/logger"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/customer"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/followup"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/registration"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/sale"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/vehicle"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler 服务端渲染的运营面板：注册表单 + 客户/库存/跟进/销售页面。
type Handler struct {
	svc       *registration.Service
	customers *customer.Repo
	vehicles  *vehicle.Repo
	sales     *sale.Repo
	followups *followup.Repo
	log       logger.Logger
}

func NewHandler(db *gorm.DB, log logger.Logger) *Handler {
	return &Handler{
		svc:       registration.NewService(db, log),
		customers: customer.NewRepo(db),
		vehicles:  vehicle.NewRepo(db),
		sales:     sale.NewRepo(db),
		followups: followup.NewRepo(db),
		log:       log,
	}
}

// Templates 解析嵌入的模板集，供 engine.SetHTMLTemplate 使用。
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"money": formatMoney,
	}).ParseFS(templatesFS, "templates/*.html"))
}

// formatMoney 分 -> 元，两位小数。
func formatMoney(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// Register 挂载面板路由（根路径下，与 /api 互不冲突）。
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.index)
	r.POST("/register", h.register)
	r.GET("/customers", h.customersPage)
	r.GET("/followups", h.followUpsPage)
	r.POST("/followups/:id/complete", h.completeFollowUp)
	r.GET("/sales", h.salesPage)
}

// indexData 首页模板数据：表单回显 + 可售库存 + 提示消息。
type indexData struct {
	Form     map[string]string
	Vehicles []vehicle.Vehicle
	Errors   []string
	Success  string
}

func (h *Handler) index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, indexData{Form: map[string]string{}})
}

func (h *Handler) renderIndex(c *gin.Context, code int, data indexData) {
	rows, err := h.vehicles.ListAvailable(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("dashboard: list vehicles failed")
		data.Errors = append(data.Errors, "could not load inventory")
	}
	data.Vehicles = rows
	if data.Form == nil {
		data.Form = map[string]string{}
	}
	c.HTML(code, "index.html", data)
}

func (h *Handler) register(c *gin.Context) {
	form := map[string]string{
		"name":           strings.TrimSpace(c.PostForm("name")),
		"email_id":       strings.TrimSpace(c.PostForm("email_id")),
		"phone_number":   strings.TrimSpace(c.PostForm("phone_number")),
		"vehicle_id":     strings.TrimSpace(c.PostForm("vehicle_id")),
		"vin":            strings.TrimSpace(c.PostForm("vin")),
		"payment_status": strings.TrimSpace(c.PostForm("payment_status")),
		"sale_amount":    strings.TrimSpace(c.PostForm("sale_amount")),
	}

	in := registration.RegisterInput{
		Name:          form["name"],
		Email:         form["email_id"],
		Phone:         form["phone_number"],
		VIN:           form["vin"],
		PaymentStatus: form["payment_status"],
	}
	if form["vehicle_id"] != "" {
		id, err := strconv.ParseUint(form["vehicle_id"], 10, 64)
		if err != nil {
			h.renderIndex(c, http.StatusBadRequest, indexData{Form: form, Errors: []string{"vehicle selection is invalid"}})
			return
		}
		in.VehicleID = &id
	}
	if form["sale_amount"] != "" {
		// 表单里填的是元，转成分入库
		amt, err := strconv.ParseFloat(form["sale_amount"], 64)
		if err != nil {
			h.renderIndex(c, http.StatusBadRequest, indexData{Form: form, Errors: []string{"sale amount is invalid"}})
			return
		}
		cents := int64(math.Round(amt * 100))
		in.SaleAmount = &cents
	}

	res, err := h.svc.RegisterCustomer(c.Request.Context(), in)
	if err != nil {
		code, msgs := h.classifyFormError(err)
		h.renderIndex(c, code, indexData{Form: form, Errors: msgs})
		return
	}

	msg := fmt.Sprintf("Customer #%d registered", res.CustomerID)
	if res.SaleID != 0 {
		msg = fmt.Sprintf("Customer #%d registered, sale #%d recorded for %s", res.CustomerID, res.SaleID, res.ModelPurchased)
	}
	h.renderIndex(c, http.StatusOK, indexData{Form: map[string]string{}, Success: msg})
}

// classifyFormError 把工作流错误翻译成面板提示；每条校验违规单独一行。
func (h *Handler) classifyFormError(err error) (int, []string) {
	var ve *registration.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Violations
	}
	var ce *registration.ConflictError
	if errors.As(err, &ce) {
		return http.StatusConflict, []string{ce.Message}
	}
	var ne *registration.NotFoundError
	if errors.As(err, &ne) {
		return http.StatusNotFound, []string{"selected vehicle is not available"}
	}
	h.log.WithError(err).Error("dashboard: registration failed")
	return http.StatusInternalServerError, []string{"registration failed, please retry"}
}

func (h *Handler) customersPage(c *gin.Context) {
	rows, total, err := h.customers.ListWithVehicle(c.Request.Context(), 0, 200)
	if err != nil {
		h.renderListError(c, "list customers", err)
		return
	}
	c.HTML(http.StatusOK, "customers.html", gin.H{"Customers": rows, "Total": total})
}

func (h *Handler) followUpsPage(c *gin.Context) {
	rows, total, err := h.followups.ListPending(c.Request.Context(), 0, 200)
	if err != nil {
		h.renderListError(c, "list follow-ups", err)
		return
	}
	c.HTML(http.StatusOK, "followups.html", gin.H{"FollowUps": rows, "Total": total})
}

func (h *Handler) completeFollowUp(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid follow-up id")
		return
	}
	if err := h.followups.MarkCompleted(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusNotFound, "follow-up not found")
			return
		}
		h.log.WithError(err).Error("dashboard: complete follow-up failed")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Redirect(http.StatusSeeOther, "/followups")
}

func (h *Handler) salesPage(c *gin.Context) {
	rows, total, err := h.sales.List(c.Request.Context(), 0, 200)
	if err != nil {
		h.renderListError(c, "list sales", err)
		return
	}
	c.HTML(http.StatusOK, "sales.html", gin.H{"Sales": rows, "Total": total})
}

func (h *Handler) renderListError(c *gin.Context, op string, err error) {
	h.log.WithError(err).Errorf("dashboard: %s failed", op)
	c.String(http.StatusInternalServerError, "internal error")
}
