package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
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

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
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
	NewHandler(gdb, logger.Nop()).Register(engine)
	return engine, gdb
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, engine *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v body=%s", err, w.Body.String())
	}
	return w, out
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal envelope: %v body=%s", err, w.Body.String())
	}
	return out
}

func TestRegisterCustomerAPISuccess(t *testing.T) {
	engine, gdb := newTestRouter(t)

	v := vehicle.Vehicle{Manufacturer: "Tata", Model: "Nexon", Year: 2023, Price: 135000000, Stock: 1, Status: vehicle.StatusAvailable}
	if err := gdb.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	w := postJSON(t, engine, "/api/customers", map[string]interface{}{
		"name":         "Rahul Shah",
		"email_id":     "rahul@example.com",
		"phone_number": "9876543210",
		"vehicle_id":   v.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	out := decodeEnvelope(t, w)
	if out["status"] != "success" {
		t.Fatalf("status = %v", out["status"])
	}
	data, _ := out["data"].(map[string]interface{})
	if data == nil || data["customer_id"] == nil {
		t.Fatalf("expected customer_id in data, got %v", out["data"])
	}
}

func TestRegisterCustomerAPIValidation(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := postJSON(t, engine, "/api/customers", map[string]interface{}{
		"name":         "A",
		"email_id":     "a.b",
		"phone_number": "123456789",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
	out := decodeEnvelope(t, w)
	errs, _ := out["errors"].([]interface{})
	// 全部违规项逐条返回
	if len(errs) < 3 {
		t.Fatalf("expected >=3 error messages, got %v", out["errors"])
	}
}

func TestRegisterCustomerAPIConflict(t *testing.T) {
	engine, _ := newTestRouter(t)

	body := map[string]interface{}{
		"name":         "Rahul Shah",
		"email_id":     "rahul@example.com",
		"phone_number": "9876543210",
	}
	if w := postJSON(t, engine, "/api/customers", body); w.Code != http.StatusOK {
		t.Fatalf("first register code = %d, want 200", w.Code)
	}
	w := postJSON(t, engine, "/api/customers", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register code = %d, want 409", w.Code)
	}
}

func TestRegisterCustomerAPIVehicleNotFound(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := postJSON(t, engine, "/api/customers", map[string]interface{}{
		"name":         "Rahul Shah",
		"email_id":     "rahul@example.com",
		"phone_number": "9876543210",
		"vehicle_id":   9999,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", w.Code)
	}
}

func TestRegisterCustomerAPIBadBody(t *testing.T) {
	engine, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}

func TestListInteractions(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := postJSON(t, engine, "/api/customers", map[string]interface{}{
		"name":         "Rahul Shah",
		"email_id":     "rahul@example.com",
		"phone_number": "9876543210",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register code = %d", w.Code)
	}
	out := decodeEnvelope(t, w)
	data, _ := out["data"].(map[string]interface{})
	cid, _ := data["customer_id"].(float64)
	if cid == 0 {
		t.Fatalf("no customer_id in %v", out)
	}

	rec, body := getJSON(t, engine, fmt.Sprintf("/api/customers/%d/interactions", int(cid)))
	if rec.Code != http.StatusOK {
		t.Fatalf("interactions code = %d", rec.Code)
	}
	d, _ := body["data"].(map[string]interface{})
	rows, _ := d["interactions"].([]interface{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 interaction, got %v", d)
	}
	row, _ := rows[0].(map[string]interface{})
	if row["interaction_type"] != "New Customer" {
		t.Fatalf("interaction row = %v", row)
	}

	rec, _ = getJSON(t, engine, "/api/customers/9999/interactions")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing customer code = %d, want 404", rec.Code)
	}
}

func TestReadSideEndpoints(t *testing.T) {
	engine, gdb := newTestRouter(t)

	v := vehicle.Vehicle{Manufacturer: "Ford", Model: "Mustang", Year: 2020, Price: 275000000, Stock: 2, Status: vehicle.StatusAvailable}
	if err := gdb.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	w := postJSON(t, engine, "/api/customers", map[string]interface{}{
		"name":         "Rahul Shah",
		"email_id":     "rahul@example.com",
		"phone_number": "9876543210",
		"vehicle_id":   v.ID,
		"vin":          "1FA6P8TH5L5100001",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register code = %d, body=%s", w.Code, w.Body.String())
	}

	for _, path := range []string{"/api/vehicles", "/api/customers", "/api/followups", "/api/sales"} {
		rec, out := getJSON(t, engine, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s code = %d, want 200", path, rec.Code)
		}
		if out["status"] != "success" {
			t.Fatalf("GET %s status = %v", path, out["status"])
		}
	}

	// 购车后销售报表应有一行，带客户/车辆上下文
	_, out := getJSON(t, engine, "/api/sales")
	data, _ := out["data"].(map[string]interface{})
	sales, _ := data["sales"].([]interface{})
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale row, got %v", data)
	}
	row, _ := sales[0].(map[string]interface{})
	if row["customer_name"] != "Rahul Shah" || row["vehicle_model"] != "Mustang" {
		t.Fatalf("sale row = %v", row)
	}

	// 库存剩 1，仍在售
	_, out = getJSON(t, engine, "/api/vehicles")
	data, _ = out["data"].(map[string]interface{})
	vehicles, _ := data["vehicles"].([]interface{})
	if len(vehicles) != 1 {
		t.Fatalf("expected 1 available vehicle, got %v", data)
	}
}
