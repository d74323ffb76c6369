package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/CoderRahul01/OrmeeHairs/api/controllers"
	"github.com/CoderRahul01/OrmeeHairs/api/middleware"
	"github.com/CoderRahul01/OrmeeHairs/internal/session"
	"github.com/CoderRahul01/OrmeeHairs/internal/snapshot"
	"github.com/CoderRahul01/OrmeeHairs/pkg/config"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/metrics"
	"github.com/CoderRahul01/OrmeeHairs/pkg/orders"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubOrders struct{}

func (stubOrders) CreateOrder(context.Context, orders.CreateRequest, string) (string, error) {
	return "ORD123", nil
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{
		Env:                "test",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(reg)
	registry, err := session.NewRegistry(session.Params{
		Storage: snapshot.NewMemoryStorage(),
		Orders:  stubOrders{},
		Rules:   pricing.DefaultRules,
		Logger:  logger.Nop(),
		Metrics: cartMetrics,
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	t.Cleanup(func() { _ = registry.Close(context.Background()) })

	return NewRouter(testConfig(), logger.Nop(), Deps{
		Sessions: registry,
		Rules:    pricing.DefaultRules,
		Checks:   map[string]controllers.Pinger{"redis": stubPinger{}},
		Gatherer: reg,
	})
}

func send(router http.Handler, method, target, deviceID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if deviceID != "" {
		req.Header.Set(middleware.DeviceIDHeader, deviceID)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/health/live", "/health/ready"} {
		if resp := send(router, http.MethodGet, path, "", ""); resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestAPIRequiresDeviceID(t *testing.T) {
	router := newTestRouter(t)
	if resp := send(router, http.MethodGet, "/api/v1/cart", "", ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without device id got %d", resp.Code)
	}
	if resp := send(router, http.MethodGet, "/api/v1/cart", "bad id!", ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed device id got %d", resp.Code)
	}
}

func TestCartIsScopedPerDevice(t *testing.T) {
	router := newTestRouter(t)
	body := `{"id":"p1","name":"Wig","price":200,"quantity":2}`
	if resp := send(router, http.MethodPost, "/api/v1/cart/items", "device-a", body); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			TotalItemCount int `json:"total_item_count"`
		} `json:"data"`
	}
	resp := send(router, http.MethodGet, "/api/v1/cart", "device-b", "")
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.TotalItemCount != 0 {
		t.Fatalf("expected device-b cart empty got %d", envelope.Data.TotalItemCount)
	}

	resp = send(router, http.MethodGet, "/api/v1/cart", "device-a", "")
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.TotalItemCount != 2 {
		t.Fatalf("expected device-a cart to hold 2 got %d", envelope.Data.TotalItemCount)
	}
}

func TestCheckoutFlowThroughRouter(t *testing.T) {
	router := newTestRouter(t)
	device := "device-flow"

	if resp := send(router, http.MethodPost, "/api/v1/checkout", device, ""); resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty cart got %d", resp.Code)
	}

	send(router, http.MethodPost, "/api/v1/cart/items", device, `{"id":"p1","name":"Wig","price":200,"quantity":2}`)
	steps := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/v1/checkout", "", http.StatusOK},
		{http.MethodPut, "/api/v1/checkout/shipping", `{"first_name":"Asha","last_name":"Rao","email":"a@example.com","phone":"9876543210","address":"12 MG Road","city":"Pune","state":"MH","pincode":"411001"}`, http.StatusOK},
		{http.MethodPut, "/api/v1/checkout/payment", `{"payment_method":"card"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/checkout/submit", "", http.StatusCreated},
	}
	for _, step := range steps {
		if resp := send(router, step.method, step.path, device, step.body); resp.Code != step.want {
			t.Fatalf("%s %s: expected %d got %d: %s", step.method, step.path, step.want, resp.Code, resp.Body.String())
		}
	}

	resp := send(router, http.MethodGet, "/metrics", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "checkout_submissions_total") {
		t.Fatalf("expected submission metric exported")
	}
}
