package dashboard

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/db/dbtest"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/common/logger"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/customer"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/followup"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/interaction"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/sale"
	"github.com/AutoLinkCRM/AutoLinkCRM/internal/vehicle"
)

func newDashboard(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := dbtest.Open(t,
		&customer.Customer{},
		&vehicle.Vehicle{},
		&sale.Sale{},
		&followup.FollowUp{},
		&interaction.Interaction{},
	)
	engine := gin.New()
	engine.SetHTMLTemplate(Templates())
	NewHandler(gdb, logger.Nop()).Register(engine)
	return engine, gdb
}

func postForm(t *testing.T, engine *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, engine *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestIndexShowsInventory(t *testing.T) {
	engine, gdb := newDashboard(t)

	v := vehicle.Vehicle{Manufacturer: "Tata", Model: "Nexon", Year: 2023, Price: 135000000, Stock: 3, Status: vehicle.StatusAvailable}
	if err := gdb.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	w := get(t, engine, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Register Customer", "Nexon", "1350000.00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index page missing %q:\n%s", want, body)
		}
	}
}

func TestRegisterFormSuccess(t *testing.T) {
	engine, gdb := newDashboard(t)

	v := vehicle.Vehicle{Manufacturer: "Tata", Model: "Nexon", Year: 2023, Price: 135000000, Stock: 1, Status: vehicle.StatusAvailable}
	if err := gdb.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	w := postForm(t, engine, "/register", url.Values{
		"name":         {"Rahul Shah"},
		"email_id":     {"rahul@example.com"},
		"phone_number": {"9876543210"},
		"vehicle_id":   {fmt.Sprint(v.ID)},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "sale #") {
		t.Fatalf("expected sale confirmation, got:\n%s", w.Body.String())
	}

	var count int64
	if err := gdb.Model(&sale.Sale{}).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("sales count = %d err = %v, want 1", count, err)
	}
}

func TestRegisterFormValidationMessages(t *testing.T) {
	engine, _ := newDashboard(t)

	w := postForm(t, engine, "/register", url.Values{
		"name":         {"A"},
		"email_id":     {"a.b"},
		"phone_number": {"12345"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
	body := w.Body.String()
	// 每条违规独立成行展示
	for _, want := range []string{"name must be", "email must contain", "phone must be"} {
		if !strings.Contains(body, want) {
			t.Fatalf("validation page missing %q:\n%s", want, body)
		}
	}
	// 表单值回显
	if !strings.Contains(body, `value="12345"`) {
		t.Fatalf("expected form echo of phone, got:\n%s", body)
	}
}

func TestRegisterFormDuplicatePhone(t *testing.T) {
	engine, _ := newDashboard(t)

	form := url.Values{
		"name":         {"Rahul Shah"},
		"email_id":     {"rahul@example.com"},
		"phone_number": {"9876543210"},
	}
	if w := postForm(t, engine, "/register", form); w.Code != http.StatusOK {
		t.Fatalf("first register code = %d", w.Code)
	}
	w := postForm(t, engine, "/register", form)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate code = %d, want 409", w.Code)
	}
	if !strings.Contains(w.Body.String(), "phone already exists") {
		t.Fatalf("expected conflict message, got:\n%s", w.Body.String())
	}
}

func TestFollowUpCompleteFlow(t *testing.T) {
	engine, gdb := newDashboard(t)

	if w := postForm(t, engine, "/register", url.Values{
		"name":         {"Rahul Shah"},
		"email_id":     {"rahul@example.com"},
		"phone_number": {"9876543210"},
	}); w.Code != http.StatusOK {
		t.Fatalf("register code = %d", w.Code)
	}

	w := get(t, engine, "/followups")
	if w.Code != http.StatusOK {
		t.Fatalf("followups code = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), followup.ReasonInitialLead) {
		t.Fatalf("expected pending lead follow-up, got:\n%s", w.Body.String())
	}

	var f followup.FollowUp
	if err := gdb.First(&f).Error; err != nil {
		t.Fatalf("load follow-up: %v", err)
	}
	w = postForm(t, engine, fmt.Sprintf("/followups/%d/complete", f.ID), url.Values{})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("complete code = %d, want 303", w.Code)
	}

	w = get(t, engine, "/followups")
	if strings.Contains(w.Body.String(), followup.ReasonInitialLead) {
		t.Fatalf("completed follow-up still listed:\n%s", w.Body.String())
	}

	w = postForm(t, engine, "/followups/9999/complete", url.Values{})
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing follow-up code = %d, want 404", w.Code)
	}
}

func TestSalesPage(t *testing.T) {
	engine, gdb := newDashboard(t)

	v := vehicle.Vehicle{Manufacturer: "Ford", Model: "Mustang", Year: 2020, Price: 275000000, Stock: 1, Status: vehicle.StatusAvailable}
	if err := gdb.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	if w := postForm(t, engine, "/register", url.Values{
		"name":         {"Rahul Shah"},
		"email_id":     {"rahul@example.com"},
		"phone_number": {"9876543210"},
		"vehicle_id":   {fmt.Sprint(v.ID)},
		"vin":          {"1FA6P8TH5L5100001"},
		"sale_amount":  {"2740000.50"},
	}); w.Code != http.StatusOK {
		t.Fatalf("register code = %d", w.Code)
	}

	w := get(t, engine, "/sales")
	if w.Code != http.StatusOK {
		t.Fatalf("sales code = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Mustang", "1FA6P8TH5L5100001", "2740000.50"} {
		if !strings.Contains(body, want) {
			t.Fatalf("sales page missing %q:\n%s", want, body)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{135000000, "1350000.00"},
		{199, "1.99"},
	}
	for _, tc := range cases {
		if got := formatMoney(tc.cents); got != tc.want {
			t.Fatalf("formatMoney(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
