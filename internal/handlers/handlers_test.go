package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/core/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/handlers"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/SscSPs/fieldops_backend/internal/platform/config"
	"github.com/SscSPs/fieldops_backend/internal/repositories/memory"
	"github.com/SscSPs/fieldops_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	adminUsername = "dispatch"
	adminPassword = "correct-horse-battery"
)

type RouterTestSuite struct {
	suite.Suite
	router        *gin.Engine
	cfg           *config.Config
	container     *portssvc.ServiceContainer
	adminToken    string
	employeeToken string
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cfg = &config.Config{
		IsProduction:      true,
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "fieldops-test",
		LoginRateLimit:    "100-M",
		APIRateLimit:      "1000-M",
		MaxUploadBytes:    1 << 20,
		PublicBaseURL:     "http://localhost:8080",
	}

	now := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	suite.container = services.NewServiceContainer(
		suite.cfg,
		memory.NewRepositoryProvider(),
		memory.NewBlobStore(suite.cfg.PublicBaseURL+"/media"),
		nil,
		services.WithClock(func() time.Time { return now }),
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger))
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, suite.cfg, suite.container, nil))

	_, created, err := suite.container.User.EnsureSuperAdmin(middleware.WithLogger(context.Background(), logger), adminUsername, adminPassword)
	suite.Require().NoError(err)
	suite.Require().True(created)

	w := suite.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Username: adminUsername, Password: adminPassword})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var login dto.LoginResponse
	suite.decode(w, &login)
	suite.adminToken = login.Token

	suite.employeeToken, _, err = utils.GenerateJWT("emp-1", string(domain.RoleEmployee), suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
}

func (suite *RouterTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *RouterTestSuite) createClient() string {
	w := suite.do(http.MethodPost, "/api/v1/clients", suite.adminToken, dto.CreateClientRequest{
		Name:    "Dana Ortiz",
		Company: "Ortiz Drilling",
		Email:   "dana@ortizdrilling.example",
		Phone:   "+1 432 555 0100",
		Address: dto.AddressRequest{
			Street:  "400 W Wall St",
			City:    "Midland",
			State:   "TX",
			ZipCode: "79701",
			Country: "USA",
		},
		PaymentTerms: "net15",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var client dto.ClientResponse
	suite.decode(w, &client)
	return client.ClientID
}

func (suite *RouterTestSuite) openWorkOrder(token string) dto.WorkOrderResponse {
	w := suite.do(http.MethodPost, "/api/v1/work-orders", token, dto.CreateWorkOrderRequest{WorkCode: "4821"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var order dto.WorkOrderResponse
	suite.decode(w, &order)
	return order
}

func (suite *RouterTestSuite) advance(token, orderID string, req dto.AdvanceStepRequest) dto.WorkOrderResponse {
	w := suite.do(http.MethodPost, "/api/v1/work-orders/"+orderID+"/advance", token, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var order dto.WorkOrderResponse
	suite.decode(w, &order)
	return order
}

// orderAtBilling walks a new order through the first three steps. The billing
// step is submitted only when clientID is not empty.
func (suite *RouterTestSuite) orderAtBilling(token, clientID string) string {
	order := suite.openWorkOrder(token)
	truth := true
	mileage := 88120.0
	fuel, none, rate := decimal.RequireFromString("61.20"), decimal.Zero, decimal.NewFromInt(50)

	suite.advance(token, order.WorkOrderID, dto.AdvanceStepRequest{JSAData: &domain.JSAData{
		JobDescription: "Deliver spool",
		Hazards:        "Highway travel",
		Controls:       "Journey management plan",
		PPE:            []string{domain.PPEHardHat, domain.PPEHighVisibilityVest},
	}})
	suite.advance(token, order.WorkOrderID, dto.AdvanceStepRequest{PreTripData: &domain.PreTripData{
		VehicleID:        "TRK-7",
		Mileage:          &mileage,
		FuelLevel:        "3/4",
		TireCondition:    "good",
		LightsWorking:    &truth,
		BrakesFunctional: &truth,
		FluidsChecked:    &truth,
		SafetyEquipment:  &truth,
	}})
	at := suite.advance(token, order.WorkOrderID, dto.AdvanceStepRequest{JourneyData: &domain.JourneyData{
		StartLocation:    "Midland yard",
		EndLocation:      "Pad 12",
		StartTime:        "06:30",
		EstimatedEndTime: "10:30",
		FuelExpense:      &fuel,
		FoodExpense:      &none,
		OtherExpenses:    &none,
	}})
	suite.Require().Equal(domain.StepBilling, at.CurrentStep)

	if clientID != "" {
		suite.advance(token, order.WorkOrderID, dto.AdvanceStepRequest{BillingData: &domain.BillingData{
			ClientID:     clientID,
			ServiceType:  domain.ServiceHotShot,
			HoursWorked:  decimal.NewFromInt(4),
			RatePerHour:  &rate,
			PaymentTerms: domain.Net15,
		}})
	}
	return order.WorkOrderID
}

func (suite *RouterTestSuite) TestHealth() {
	for _, path := range []string{"/health", "/healthz"} {
		w := suite.do(http.MethodGet, path, "", nil)
		suite.Equal(http.StatusOK, w.Code)
		suite.Equal("OK", w.Body.String())
	}
}

func (suite *RouterTestSuite) TestLogin() {
	suite.NotEmpty(suite.adminToken)

	w := suite.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Username: adminUsername, Password: "wrong-password"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": adminUsername})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestRequiresToken() {
	w := suite.do(http.MethodGet, "/api/v1/work-orders", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RouterTestSuite) TestCompleteWorkOrder_IssuesInvoice() {
	clientID := suite.createClient()
	orderID := suite.orderAtBilling(suite.employeeToken, clientID)

	w := suite.do(http.MethodPost, "/api/v1/work-orders/"+orderID+"/complete", suite.employeeToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.CompleteWorkOrderResponse
	suite.decode(w, &resp)
	suite.Equal(domain.WorkOrderClosed, resp.WorkOrder.Status)
	suite.Equal(domain.StepBilling, resp.WorkOrder.CurrentStep)
	suite.Require().NotNil(resp.WorkOrder.InvoiceID)
	suite.Equal(resp.Invoice.InvoiceID, *resp.WorkOrder.InvoiceID)

	suite.Equal("INV-1000", resp.Invoice.InvoiceNumber)
	suite.Equal("4821", resp.Invoice.WorkCode)
	suite.Equal("200.00", resp.Invoice.Amount)
	suite.Equal("pending", resp.Invoice.Status)
	suite.Equal("net15", resp.Invoice.PaymentTerms)
	suite.Equal("Ortiz Drilling", resp.Invoice.ClientCompany)
	suite.Equal("Midland", resp.Invoice.ClientAddress.City)
	suite.True(resp.Invoice.DueDate.Equal(resp.Invoice.Date.AddDate(0, 0, 15)))

	// A closed order accepts neither another completion nor step changes.
	w = suite.do(http.MethodPost, "/api/v1/work-orders/"+orderID+"/complete", suite.employeeToken, nil)
	suite.Equal(http.StatusConflict, w.Code)
	w = suite.do(http.MethodPost, "/api/v1/work-orders/"+orderID+"/back", suite.employeeToken, nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/invoices/"+resp.Invoice.InvoiceID, suite.employeeToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/dashboard", suite.employeeToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
}

func (suite *RouterTestSuite) TestCompleteWorkOrder_Rejections() {
	orderID := suite.orderAtBilling(suite.employeeToken, "")

	w := suite.do(http.MethodPost, "/api/v1/work-orders/"+orderID+"/complete", suite.employeeToken, nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/work-orders/does-not-exist/complete", suite.employeeToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	lateRate := decimal.NewFromInt(80)
	// Billing that points at an unknown client is accepted but cannot be invoiced.
	suite.advance(suite.employeeToken, orderID, dto.AdvanceStepRequest{BillingData: &domain.BillingData{
		ClientID:     "missing-client",
		ServiceType:  domain.ServiceHotShot,
		HoursWorked:  decimal.NewFromInt(2),
		RatePerHour:  &lateRate,
		PaymentTerms: domain.Net30,
	}})
	w = suite.do(http.MethodPost, "/api/v1/work-orders/"+orderID+"/complete", suite.employeeToken, nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/work-orders/"+orderID, suite.employeeToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var order dto.WorkOrderResponse
	suite.decode(w, &order)
	suite.Equal(domain.WorkOrderOpen, order.Status)
}

func (suite *RouterTestSuite) TestAdvance_InvalidPayload() {
	order := suite.openWorkOrder(suite.employeeToken)

	// Billing data is not read at the JSA step, so the JSA payload is missing.
	w := suite.do(http.MethodPost, "/api/v1/work-orders/"+order.WorkOrderID+"/advance", suite.employeeToken, dto.AdvanceStepRequest{
		JSAData: &domain.JSAData{JobDescription: "No hazards listed"},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestAdminOnlyRoutes() {
	clientID := suite.createClient()
	orderID := suite.orderAtBilling(suite.employeeToken, clientID)
	w := suite.do(http.MethodPost, "/api/v1/work-orders/"+orderID+"/complete", suite.employeeToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.CompleteWorkOrderResponse
	suite.decode(w, &resp)

	paid := "paid"
	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"delete client", http.MethodDelete, "/api/v1/clients/" + clientID, nil},
		{"update invoice", http.MethodPatch, "/api/v1/invoices/" + resp.Invoice.InvoiceID, dto.UpdateInvoiceRequest{Status: &paid}},
		{"list users", http.MethodGet, "/api/v1/users", nil},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(tt.method, tt.path, suite.employeeToken, tt.body)
			suite.Equal(http.StatusForbidden, w.Code)
		})
	}

	w = suite.do(http.MethodPatch, "/api/v1/invoices/"+resp.Invoice.InvoiceID, suite.adminToken, dto.UpdateInvoiceRequest{Status: &paid, Reason: "cheque received"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.InvoiceResponse
	suite.decode(w, &updated)
	suite.Equal("paid", updated.Status)
}

func (suite *RouterTestSuite) TestExportInvoices() {
	clientID := suite.createClient()
	orderID := suite.orderAtBilling(suite.employeeToken, clientID)
	w := suite.do(http.MethodPost, "/api/v1/work-orders/"+orderID+"/complete", suite.employeeToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/invoices/export?status=pending", suite.employeeToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), ".xlsx")
	// xlsx workbooks are zip archives.
	suite.True(bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func (suite *RouterTestSuite) TestUsersMe() {
	w := suite.do(http.MethodGet, "/api/v1/users/me", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserResponse
	suite.decode(w, &me)
	suite.Equal(adminUsername, me.Username)

	// The employee token belongs to no stored user.
	w = suite.do(http.MethodGet, "/api/v1/users/me", suite.employeeToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/users/"+me.UserID, suite.employeeToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
