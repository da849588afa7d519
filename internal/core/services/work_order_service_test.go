package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/core/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type WorkOrderServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	clock      *testClock
	store      *memory.Store
	workOrders portssvc.WorkOrderSvcFacade
	invoices   portssvc.InvoiceSvcFacade
	clients    portssvc.ClientSvcFacade
	client     *domain.Client
	userID     string
}

func (suite *WorkOrderServiceTestSuite) SetupTest() {
	suite.ctx = quietCtx()
	suite.clock = &testClock{now: time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)}
	suite.store = memory.NewStore()
	suite.userID = "tech-1"

	repos := suite.store.Provider()
	opt := services.WithClock(suite.clock.Now)
	suite.invoices = services.NewInvoiceService(repos.InvoiceRepo, repos.ClientRepo, opt)
	suite.workOrders = services.NewWorkOrderService(repos.WorkOrderRepo, suite.invoices, nil, opt)
	suite.clients = services.NewClientService(repos.ClientRepo, opt)

	client, err := suite.clients.CreateClient(suite.ctx, clientRequest("net30"), "admin-1")
	suite.Require().NoError(err)
	suite.client = client
}

// orderAtBilling creates a work order and submits every step including billing.
func (suite *WorkOrderServiceTestSuite) orderAtBilling(workCode string, billing domain.StepData) *domain.WorkOrder {
	order, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{WorkCode: workCode}, suite.userID)
	suite.Require().NoError(err)
	for _, step := range []domain.StepData{jsaStep(), preTripStep(), journeyStep(), billing} {
		order, err = suite.workOrders.AdvanceStep(suite.ctx, order.WorkOrderID, step, suite.userID)
		suite.Require().NoError(err)
	}
	return order
}

func (suite *WorkOrderServiceTestSuite) TestCreateWorkOrder() {
	order, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{WorkCode: " 4821 "}, suite.userID)
	suite.Require().NoError(err)
	suite.Equal("4821", order.WorkCode)
	suite.Equal(domain.WorkOrderOpen, order.Status)
	suite.Equal(domain.StepJSA, order.CurrentStep)
	suite.Equal(suite.clock.now, order.CreatedAt)

	generated, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{}, suite.userID)
	suite.Require().NoError(err)
	suite.Len(generated.WorkCode, 4)

	// Work codes are not unique.
	dup, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{WorkCode: "4821"}, suite.userID)
	suite.Require().NoError(err)
	suite.NotEqual(order.WorkOrderID, dup.WorkOrderID)
}

func (suite *WorkOrderServiceTestSuite) TestAdvanceStep_FollowsStepOrder() {
	order, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{WorkCode: "1001"}, suite.userID)
	suite.Require().NoError(err)

	steps := []struct {
		data domain.StepData
		want domain.Step
	}{
		{jsaStep(), domain.StepPreTrip},
		{preTripStep(), domain.StepJourney},
		{journeyStep(), domain.StepBilling},
		{billingStep(suite.client.ClientID, "4", "50", domain.Net15), domain.StepBilling},
	}
	for _, s := range steps {
		order, err = suite.workOrders.AdvanceStep(suite.ctx, order.WorkOrderID, s.data, suite.userID)
		suite.Require().NoError(err)
		suite.Equal(s.want, order.CurrentStep)
	}

	stored, err := suite.workOrders.GetWorkOrder(suite.ctx, order.WorkOrderID)
	suite.Require().NoError(err)
	suite.NotNil(stored.JSAData)
	suite.NotNil(stored.PreTripData)
	suite.NotNil(stored.JourneyData)
	suite.NotNil(stored.BillingData)
	suite.Equal(domain.WorkOrderOpen, stored.Status)
}

func (suite *WorkOrderServiceTestSuite) TestAdvanceStep_RejectsInvalidPayload() {
	order, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{WorkCode: "1002"}, suite.userID)
	suite.Require().NoError(err)

	badJSA := jsaStep()
	badJSA.JSA.Hazards = ""

	tests := []struct {
		name string
		data domain.StepData
	}{
		{"payload for another step", preTripStep()},
		{"no payload", domain.StepData{}},
		{"missing hazards", badJSA},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.workOrders.AdvanceStep(suite.ctx, order.WorkOrderID, tt.data, suite.userID)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	stored, err := suite.workOrders.GetWorkOrder(suite.ctx, order.WorkOrderID)
	suite.Require().NoError(err)
	suite.Equal(domain.StepJSA, stored.CurrentStep)
	suite.Nil(stored.JSAData)

	_, err = suite.workOrders.AdvanceStep(suite.ctx, "missing", jsaStep(), suite.userID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *WorkOrderServiceTestSuite) TestRetreatStep() {
	order, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{WorkCode: "1003"}, suite.userID)
	suite.Require().NoError(err)

	same, err := suite.workOrders.RetreatStep(suite.ctx, order.WorkOrderID, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.StepJSA, same.CurrentStep)

	for _, step := range []domain.StepData{jsaStep(), preTripStep()} {
		_, err = suite.workOrders.AdvanceStep(suite.ctx, order.WorkOrderID, step, suite.userID)
		suite.Require().NoError(err)
	}

	back, err := suite.workOrders.RetreatStep(suite.ctx, order.WorkOrderID, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.StepPreTrip, back.CurrentStep)
	suite.NotNil(back.PreTripData, "retreat keeps collected data")

	back, err = suite.workOrders.RetreatStep(suite.ctx, order.WorkOrderID, suite.userID)
	suite.Require().NoError(err)
	suite.Equal(domain.StepJSA, back.CurrentStep)
	suite.NotNil(back.JSAData)
}

func (suite *WorkOrderServiceTestSuite) TestCompleteWorkOrder_Scenario4821() {
	order := suite.orderAtBilling("4821", billingStep(suite.client.ClientID, "4", "50", domain.Net15))
	suite.clock.Advance(2 * time.Hour)
	completedAt := suite.clock.now

	closed, invoice, err := suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, suite.userID)
	suite.Require().NoError(err)

	suite.Equal("INV-1000", invoice.InvoiceNumber)
	suite.Equal("4821", invoice.WorkCode)
	suite.Equal(order.WorkOrderID, invoice.WorkOrderID)
	suite.Equal(domain.ServiceHotShot, invoice.ServiceType)
	suite.Equal("200.00", invoice.Amount.StringFixed(2))
	suite.Equal(domain.InvoicePending, invoice.Status)
	suite.Equal(completedAt, invoice.Date)
	suite.Equal(completedAt.AddDate(0, 0, 15), invoice.DueDate)
	suite.Equal(suite.client.Snapshot(), invoice.ClientSnapshot)

	suite.Equal(domain.WorkOrderClosed, closed.Status)
	suite.Equal(domain.StepBilling, closed.CurrentStep)
	suite.Require().NotNil(closed.InvoiceID)
	suite.Equal(invoice.InvoiceID, *closed.InvoiceID)
	suite.Require().NotNil(closed.CompletedAt)
	suite.Equal(completedAt, *closed.CompletedAt)

	stored, err := suite.workOrders.GetWorkOrder(suite.ctx, order.WorkOrderID)
	suite.Require().NoError(err)
	suite.Equal(domain.WorkOrderClosed, stored.Status)
}

func (suite *WorkOrderServiceTestSuite) TestCompleteWorkOrder_AmountRounding() {
	order := suite.orderAtBilling("2001", billingStep(suite.client.ClientID, "3.5", "45.00", domain.Net30))
	_, invoice, err := suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, suite.userID)
	suite.Require().NoError(err)
	suite.Equal("157.50", invoice.Amount.StringFixed(2))
	suite.Equal(time.Date(2024, 1, 31, 15, 30, 0, 0, time.UTC), invoice.DueDate)
}

func (suite *WorkOrderServiceTestSuite) TestCompleteWorkOrder_WithoutBilling() {
	order, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{WorkCode: "3001"}, suite.userID)
	suite.Require().NoError(err)

	_, _, err = suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, suite.userID)
	suite.ErrorIs(err, apperrors.ErrMissingBillingData)

	stored, err := suite.workOrders.GetWorkOrder(suite.ctx, order.WorkOrderID)
	suite.Require().NoError(err)
	suite.Equal(domain.WorkOrderOpen, stored.Status)

	invoices, err := suite.invoices.ListInvoices(suite.ctx, domain.InvoiceFilter{}, domain.ListParams{})
	suite.Require().NoError(err)
	suite.Empty(invoices)
}

func (suite *WorkOrderServiceTestSuite) TestCompleteWorkOrder_UnknownClient() {
	order := suite.orderAtBilling("3002", billingStep("no-such-client", "2", "10", domain.Net15))

	_, _, err := suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, suite.userID)
	suite.ErrorIs(err, apperrors.ErrClientNotFound)

	stored, err := suite.workOrders.GetWorkOrder(suite.ctx, order.WorkOrderID)
	suite.Require().NoError(err)
	suite.Equal(domain.WorkOrderOpen, stored.Status)
}

func (suite *WorkOrderServiceTestSuite) TestClosedOrderRejectsChanges() {
	order := suite.orderAtBilling("3003", billingStep(suite.client.ClientID, "1", "100", domain.Net15))
	_, _, err := suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, suite.userID)
	suite.Require().NoError(err)

	_, err = suite.workOrders.AdvanceStep(suite.ctx, order.WorkOrderID, billingStep(suite.client.ClientID, "9", "9", domain.Net15), suite.userID)
	suite.ErrorIs(err, apperrors.ErrOrderClosed)
	_, err = suite.workOrders.RetreatStep(suite.ctx, order.WorkOrderID, suite.userID)
	suite.ErrorIs(err, apperrors.ErrOrderClosed)
	_, _, err = suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, suite.userID)
	suite.ErrorIs(err, apperrors.ErrOrderClosed)
}

func (suite *WorkOrderServiceTestSuite) TestSequentialCompletionsAreNumberedWithoutGaps() {
	const n = 6
	for i := 0; i < n; i++ {
		order := suite.orderAtBilling(fmt.Sprintf("50%02d", i), billingStep(suite.client.ClientID, "1", "10", domain.Net15))
		suite.clock.Advance(time.Minute)
		_, invoice, err := suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, suite.userID)
		suite.Require().NoError(err)
		suite.Equal(domain.FormatInvoiceNumber(domain.FirstInvoiceNumber+i), invoice.InvoiceNumber)
	}
}

func (suite *WorkOrderServiceTestSuite) TestConcurrentCompletionsGetUniqueNumbers() {
	const n = 25
	ids := make([]string, n)
	for i := range ids {
		ids[i] = suite.orderAtBilling(fmt.Sprintf("6%03d", i), billingStep(suite.client.ClientID, "2", "25", domain.Net45)).WorkOrderID
	}

	var wg sync.WaitGroup
	numbers := make([]string, n)
	errs := make([]error, n)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, invoice, err := suite.workOrders.CompleteWorkOrder(suite.ctx, id, suite.userID)
			errs[i] = err
			if invoice != nil {
				numbers[i] = invoice.InvoiceNumber
			}
		}(i, id)
	}
	wg.Wait()

	suite.Require().NoError(errors.Join(errs...))
	sort.Strings(numbers)
	for i, number := range numbers {
		suite.Equal(domain.FormatInvoiceNumber(domain.FirstInvoiceNumber+i), number)
	}
}

func (suite *WorkOrderServiceTestSuite) TestConcurrentCompletionOfOneOrderClosesItOnce() {
	id := suite.orderAtBilling("7001", billingStep(suite.client.ClientID, "1", "1", domain.Net15)).WorkOrderID

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = suite.workOrders.CompleteWorkOrder(suite.ctx, id, suite.userID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, apperrors.ErrOrderClosed)
	}
	suite.Equal(1, succeeded)

	invoices, err := suite.invoices.ListInvoices(suite.ctx, domain.InvoiceFilter{}, domain.ListParams{})
	suite.Require().NoError(err)
	suite.Len(invoices, 1)
}

func (suite *WorkOrderServiceTestSuite) TestInvoiceKeepsClientSnapshot() {
	order := suite.orderAtBilling("8001", billingStep(suite.client.ClientID, "1", "10", domain.Net15))
	_, invoice, err := suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, suite.userID)
	suite.Require().NoError(err)

	_, err = suite.clients.UpdateClient(suite.ctx, suite.client.ClientID, dto.UpdateClientRequest{Company: strPtr("Renamed LLC")}, "admin-1")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.clients.DeleteClient(suite.ctx, suite.client.ClientID, "admin-1"))

	stored, err := suite.invoices.GetInvoice(suite.ctx, invoice.InvoiceID)
	suite.Require().NoError(err)
	suite.Equal("Ortiz Drilling", stored.ClientSnapshot.Company)
}

func (suite *WorkOrderServiceTestSuite) TestListWorkOrders_FilterAndPaging() {
	for i := 0; i < 3; i++ {
		suite.clock.Advance(time.Minute)
		_, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{WorkCode: fmt.Sprintf("900%d", i)}, suite.userID)
		suite.Require().NoError(err)
	}
	suite.clock.Advance(time.Minute)
	done := suite.orderAtBilling("9100", billingStep(suite.client.ClientID, "1", "10", domain.Net15))
	_, _, err := suite.workOrders.CompleteWorkOrder(suite.ctx, done.WorkOrderID, suite.userID)
	suite.Require().NoError(err)

	open := domain.WorkOrderOpen
	openOrders, err := suite.workOrders.ListWorkOrders(suite.ctx, domain.WorkOrderFilter{Status: &open}, domain.ListParams{})
	suite.Require().NoError(err)
	suite.Len(openOrders, 3)
	suite.Equal("9002", openOrders[0].WorkCode, "newest first")

	first, err := suite.workOrders.ListWorkOrders(suite.ctx, domain.WorkOrderFilter{}, domain.ListParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(first, 2)
	last := first[1]
	rest, err := suite.workOrders.ListWorkOrders(suite.ctx, domain.WorkOrderFilter{}, domain.ListParams{
		Limit:          2,
		AfterCreatedAt: &last.CreatedAt,
		AfterID:        last.WorkOrderID,
	})
	suite.Require().NoError(err)
	suite.Len(rest, 2)
	suite.NotEqual(first[0].WorkOrderID, rest[0].WorkOrderID)
}

func TestWorkOrderService(t *testing.T) {
	suite.Run(t, new(WorkOrderServiceTestSuite))
}

// TestCompleteWorkOrder_IssueFailureLeavesOrderOpen drives the invoice repository
// into a failure and checks nothing was written.
func TestCompleteWorkOrder_IssueFailureLeavesOrderOpen(t *testing.T) {
	ctx := quietCtx()
	store := memory.NewStore()
	repos := store.Provider()
	clients := services.NewClientService(repos.ClientRepo)
	client, err := clients.CreateClient(ctx, clientRequest("net15"), "admin-1")
	if err != nil {
		t.Fatal(err)
	}

	invoiceRepo := new(MockInvoiceRepository)
	invoiceRepo.On("IssueInvoice", mock.Anything, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("domain.WorkOrder")).
		Return(nil, apperrors.NewPersistenceError("failed to insert invoice", errors.New("connection reset"))).Once()

	invoices := services.NewInvoiceService(invoiceRepo, repos.ClientRepo)
	workOrders := services.NewWorkOrderService(repos.WorkOrderRepo, invoices, nil)

	order, err := workOrders.CreateWorkOrder(ctx, dto.CreateWorkOrderRequest{WorkCode: "4821"}, "tech-1")
	if err != nil {
		t.Fatal(err)
	}
	for _, step := range []domain.StepData{jsaStep(), preTripStep(), journeyStep(), billingStep(client.ClientID, "4", "50", domain.Net15)} {
		if order, err = workOrders.AdvanceStep(ctx, order.WorkOrderID, step, "tech-1"); err != nil {
			t.Fatal(err)
		}
	}

	_, _, err = workOrders.CompleteWorkOrder(ctx, order.WorkOrderID, "tech-1")
	if !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("want persistence error, got %v", err)
	}

	stored, err := workOrders.GetWorkOrder(ctx, order.WorkOrderID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domain.WorkOrderOpen || stored.InvoiceID != nil {
		t.Fatalf("order changed after failed completion: %+v", stored)
	}
	invoiceRepo.AssertExpectations(t)
}
