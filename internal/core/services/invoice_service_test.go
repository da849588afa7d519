package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/core/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/export"
	"github.com/SscSPs/fieldops_backend/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	clock      *testClock
	workOrders portssvc.WorkOrderSvcFacade
	invoices   portssvc.InvoiceSvcFacade
	clientID   string
	repos      portsrepo.RepositoryProvider
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.ctx = quietCtx()
	suite.clock = &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	repos := memory.NewStore().Provider()
	suite.repos = repos
	opt := services.WithClock(suite.clock.Now)
	suite.invoices = services.NewInvoiceService(repos.InvoiceRepo, repos.ClientRepo, opt)
	suite.workOrders = services.NewWorkOrderService(repos.WorkOrderRepo, suite.invoices, nil, opt)

	client, err := services.NewClientService(repos.ClientRepo, opt).CreateClient(suite.ctx, clientRequest("net30"), "admin-1")
	suite.Require().NoError(err)
	suite.clientID = client.ClientID
}

// issue runs a work order through every step and completes it.
func (suite *InvoiceServiceTestSuite) issue(hours, rate string, terms domain.PaymentTerms) *domain.Invoice {
	order, err := suite.workOrders.CreateWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{}, "tech-1")
	suite.Require().NoError(err)
	for _, step := range []domain.StepData{jsaStep(), preTripStep(), journeyStep(), billingStep(suite.clientID, hours, rate, terms)} {
		_, err = suite.workOrders.AdvanceStep(suite.ctx, order.WorkOrderID, step, "tech-1")
		suite.Require().NoError(err)
	}
	_, invoice, err := suite.workOrders.CompleteWorkOrder(suite.ctx, order.WorkOrderID, "tech-1")
	suite.Require().NoError(err)
	suite.clock.Advance(time.Minute)
	return invoice
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_RecordsChange() {
	invoice := suite.issue("4", "50", domain.Net15)

	paid := string(domain.InvoicePaid)
	updated, err := suite.invoices.UpdateInvoice(suite.ctx, invoice.InvoiceID, dto.UpdateInvoiceRequest{
		Status: &paid,
		Reason: "check 1182",
	}, "accountant-1")
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, updated.Status)
	suite.Equal("200.00", updated.Amount.StringFixed(2))
	suite.Equal(invoice.InvoiceNumber, updated.InvoiceNumber)
	suite.Equal("accountant-1", updated.LastUpdatedBy)

	amount := decimal.RequireFromString("187.555")
	updated, err = suite.invoices.UpdateInvoice(suite.ctx, invoice.InvoiceID, dto.UpdateInvoiceRequest{Amount: &amount}, "accountant-1")
	suite.Require().NoError(err)
	suite.Equal("187.56", updated.Amount.StringFixed(2))
	suite.Equal(domain.InvoicePaid, updated.Status)

	changes, err := suite.invoices.ListInvoiceChanges(suite.ctx, invoice.InvoiceID)
	suite.Require().NoError(err)
	suite.Require().Len(changes, 2)
	suite.Equal(domain.InvoicePending, changes[0].PreviousStatus)
	suite.Equal(domain.InvoicePaid, changes[0].NewStatus)
	suite.Equal("check 1182", changes[0].Reason)
	suite.Equal("accountant-1", changes[0].ChangedBy)
	suite.Equal("200.00", changes[1].PreviousAmount.StringFixed(2))
	suite.Equal("187.56", changes[1].NewAmount.StringFixed(2))

	stored, err := suite.invoices.GetInvoice(suite.ctx, invoice.InvoiceID)
	suite.Require().NoError(err)
	suite.Equal(invoice.ClientSnapshot, stored.ClientSnapshot)
	suite.Equal(invoice.Details, stored.Details)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_Rejections() {
	invoice := suite.issue("1", "10", domain.Net15)
	bogus := "void"
	negative := decimal.NewFromInt(-5)

	tests := []struct {
		name    string
		id      string
		req     dto.UpdateInvoiceRequest
		wantErr error
	}{
		{"nothing to change", invoice.InvoiceID, dto.UpdateInvoiceRequest{Reason: "noop"}, apperrors.ErrValidation},
		{"unknown status", invoice.InvoiceID, dto.UpdateInvoiceRequest{Status: &bogus}, apperrors.ErrValidation},
		{"negative amount", invoice.InvoiceID, dto.UpdateInvoiceRequest{Amount: &negative}, apperrors.ErrValidation},
		{"missing invoice", "nope", dto.UpdateInvoiceRequest{Status: strPtr("paid")}, apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.invoices.UpdateInvoice(suite.ctx, tt.id, tt.req, "accountant-1")
			suite.ErrorIs(err, tt.wantErr)
		})
	}

	changes, err := suite.invoices.ListInvoiceChanges(suite.ctx, invoice.InvoiceID)
	suite.Require().NoError(err)
	suite.Empty(changes)

	_, err = suite.invoices.ListInvoiceChanges(suite.ctx, "nope")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestRecomputeAmount() {
	invoice := suite.issue("2.5", "80", domain.Net30)
	discounted := decimal.NewFromInt(150)
	_, err := suite.invoices.UpdateInvoice(suite.ctx, invoice.InvoiceID, dto.UpdateInvoiceRequest{Amount: &discounted}, "accountant-1")
	suite.Require().NoError(err)

	recomputed, err := suite.invoices.RecomputeAmount(suite.ctx, invoice.InvoiceID, "accountant-1")
	suite.Require().NoError(err)
	suite.Equal("200.00", recomputed.Amount.StringFixed(2))

	changes, err := suite.invoices.ListInvoiceChanges(suite.ctx, invoice.InvoiceID)
	suite.Require().NoError(err)
	suite.Require().Len(changes, 2)
	suite.Equal("recomputed from hours and rate", changes[1].Reason)
}

func (suite *InvoiceServiceTestSuite) TestMarkOverdue() {
	short := suite.issue("1", "100", domain.Net15)
	long := suite.issue("1", "100", domain.Net30)
	settled := suite.issue("1", "100", domain.Net15)
	_, err := suite.invoices.UpdateInvoice(suite.ctx, settled.InvoiceID, dto.UpdateInvoiceRequest{Status: strPtr("paid")}, "accountant-1")
	suite.Require().NoError(err)

	now := suite.clock.now.AddDate(0, 0, 20)
	marked, err := suite.invoices.MarkOverdue(suite.ctx, now)
	suite.Require().NoError(err)
	suite.Equal(1, marked)

	stored, err := suite.invoices.GetInvoice(suite.ctx, short.InvoiceID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceOverdue, stored.Status)
	suite.Equal(domain.SystemUserID, stored.LastUpdatedBy)

	changes, err := suite.invoices.ListInvoiceChanges(suite.ctx, short.InvoiceID)
	suite.Require().NoError(err)
	suite.Require().Len(changes, 1)
	suite.Equal("past due date", changes[0].Reason)
	suite.Equal(now, changes[0].ChangedAt)

	for _, id := range []string{long.InvoiceID, settled.InvoiceID} {
		other, err := suite.invoices.GetInvoice(suite.ctx, id)
		suite.Require().NoError(err)
		suite.NotEqual(domain.InvoiceOverdue, other.Status)
	}

	marked, err = suite.invoices.MarkOverdue(suite.ctx, now)
	suite.Require().NoError(err)
	suite.Zero(marked, "second sweep finds nothing new")
}

// paidDuringSweep marks an invoice paid right after the sweep has read the
// pending list, before the sweep writes.
type paidDuringSweep struct {
	portsrepo.InvoiceRepositoryFacade
	pay func()
}

func (r *paidDuringSweep) FindPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Invoice, error) {
	due, err := r.InvoiceRepositoryFacade.FindPendingDueBefore(ctx, cutoff)
	r.pay()
	return due, err
}

func (suite *InvoiceServiceTestSuite) TestMarkOverdue_KeepsPaymentMadeDuringSweep() {
	late := suite.issue("1", "100", domain.Net15)
	alsoLate := suite.issue("2", "100", domain.Net15)

	repo := &paidDuringSweep{
		InvoiceRepositoryFacade: suite.repos.InvoiceRepo,
		pay: func() {
			_, err := suite.invoices.UpdateInvoice(suite.ctx, late.InvoiceID, dto.UpdateInvoiceRequest{Status: strPtr("paid")}, "accountant-1")
			suite.Require().NoError(err)
		},
	}
	sweeper := services.NewInvoiceService(repo, suite.repos.ClientRepo, services.WithClock(suite.clock.Now))

	marked, err := sweeper.MarkOverdue(suite.ctx, suite.clock.now.AddDate(0, 0, 20))
	suite.Require().NoError(err, "a concurrent edit is skipped, not reported")
	suite.Equal(1, marked)

	paid, err := suite.invoices.GetInvoice(suite.ctx, late.InvoiceID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, paid.Status)
	changes, err := suite.invoices.ListInvoiceChanges(suite.ctx, late.InvoiceID)
	suite.Require().NoError(err)
	suite.Require().Len(changes, 1)
	suite.Equal("accountant-1", changes[0].ChangedBy)

	overdue, err := suite.invoices.GetInvoice(suite.ctx, alsoLate.InvoiceID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceOverdue, overdue.Status)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_StaleReadConflicts() {
	invoice := suite.issue("1", "100", domain.Net15)
	_, err := suite.invoices.UpdateInvoice(suite.ctx, invoice.InvoiceID, dto.UpdateInvoiceRequest{Status: strPtr("paid")}, "accountant-1")
	suite.Require().NoError(err)

	// invoice still holds the pending status it was issued with.
	change := domain.InvoiceChange{
		ChangeID: "late-edit", InvoiceID: invoice.InvoiceID,
		PreviousStatus: invoice.Status, NewStatus: domain.InvoiceOverdue,
		PreviousAmount: invoice.Amount, NewAmount: invoice.Amount,
	}
	stale := *invoice
	stale.Status = domain.InvoiceOverdue
	err = suite.repos.InvoiceRepo.UpdateInvoice(suite.ctx, stale, change)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *InvoiceServiceTestSuite) TestExportInvoices() {
	for i := 0; i < 3; i++ {
		suite.issue("1", "10", domain.Net15)
	}
	first, err := suite.invoices.ListInvoices(suite.ctx, domain.InvoiceFilter{}, domain.ListParams{Limit: 1})
	suite.Require().NoError(err)
	_, err = suite.invoices.UpdateInvoice(suite.ctx, first[0].InvoiceID, dto.UpdateInvoiceRequest{Status: strPtr("paid")}, "accountant-1")
	suite.Require().NoError(err)

	var buf bytes.Buffer
	n, err := suite.invoices.ExportInvoices(suite.ctx, domain.InvoiceFilter{}, &buf)
	suite.Require().NoError(err)
	suite.Equal(3, n)

	f, err := excelize.OpenReader(&buf)
	suite.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows(export.InvoiceSheet)
	suite.Require().NoError(err)
	suite.Len(rows, 4)
	suite.Equal("INV-1002", rows[1][0], "newest first")

	paid := domain.InvoicePaid
	buf.Reset()
	n, err = suite.invoices.ExportInvoices(suite.ctx, domain.InvoiceFilter{Status: &paid}, &buf)
	suite.Require().NoError(err)
	suite.Equal(1, n)
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func TestMarkOverdue_ContinuesPastFailures(t *testing.T) {
	now := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)
	pending := []domain.Invoice{
		{InvoiceID: "a", InvoiceNumber: "INV-1000", Status: domain.InvoicePending, DueDate: due, Amount: decimal.NewFromInt(10)},
		{InvoiceID: "b", InvoiceNumber: "INV-1001", Status: domain.InvoicePending, DueDate: due, Amount: decimal.NewFromInt(20)},
		{InvoiceID: "c", InvoiceNumber: "INV-1002", Status: domain.InvoicePending, DueDate: now.AddDate(0, 0, 1)},
	}

	repo := new(MockInvoiceRepository)
	repo.On("FindPendingDueBefore", mock.Anything, now).Return(pending, nil).Once()
	repo.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool { return inv.InvoiceID == "a" }), mock.Anything).
		Return(errors.New("deadlock detected")).Once()
	repo.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.InvoiceID == "b" && inv.Status == domain.InvoiceOverdue
	}), mock.MatchedBy(func(c domain.InvoiceChange) bool {
		return c.ChangedBy == domain.SystemUserID && c.PreviousStatus == domain.InvoicePending
	})).Return(nil).Once()

	svc := services.NewInvoiceService(repo, nil)
	marked, err := svc.MarkOverdue(quietCtx(), now)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "INV-1000")
	assert.Equal(t, 1, marked)
	repo.AssertExpectations(t)
}

func TestMarkOverdue_SkipsConflicts(t *testing.T) {
	now := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	pending := []domain.Invoice{
		{InvoiceID: "a", InvoiceNumber: "INV-1000", Status: domain.InvoicePending, DueDate: now.AddDate(0, 0, -2), Amount: decimal.NewFromInt(10)},
	}

	repo := new(MockInvoiceRepository)
	repo.On("FindPendingDueBefore", mock.Anything, now).Return(pending, nil).Once()
	repo.On("UpdateInvoice", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: invoice a changed since it was read", apperrors.ErrConflict)).Once()

	svc := services.NewInvoiceService(repo, nil)
	marked, err := svc.MarkOverdue(quietCtx(), now)

	require.NoError(t, err)
	assert.Zero(t, marked)
	repo.AssertExpectations(t)
}
