package firestoredb

import (
	"testing"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkOrderDoc_PayloadsSurviveMapEncoding(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	lights := true
	mileage := 1200.5
	rate := decimal.RequireFromString("45.00")
	order := domain.NewWorkOrder("wo-1", "4821", "user-1", now)
	order.JSAData = &domain.JSAData{JobDescription: "Spool cable", Hazards: "Pinch points", Controls: "Spotter", PPE: []string{domain.PPEGloves}}
	order.PreTripData = &domain.PreTripData{VehicleID: "T-9", Mileage: &mileage, FuelLevel: "full", TireCondition: "good", LightsWorking: &lights, BrakesFunctional: &lights, FluidsChecked: &lights, SafetyEquipment: &lights}
	order.BillingData = &domain.BillingData{
		ClientID:     "C1",
		ServiceType:  domain.ServiceHotShot,
		HoursWorked:  decimal.RequireFromString("3.5"),
		RatePerHour:  &rate,
		PaymentTerms: domain.Net30,
	}

	d, err := toWorkOrderDoc(order)
	require.NoError(t, err)
	assert.Nil(t, d.JourneyData)
	assert.Equal(t, "3.5", d.BillingData["hoursWorked"])

	back, err := d.toDomain("wo-1")
	require.NoError(t, err)
	assert.Equal(t, order.JSAData, back.JSAData)
	assert.Equal(t, order.PreTripData, back.PreTripData)
	assert.Nil(t, back.JourneyData)
	require.NotNil(t, back.BillingData)
	assert.True(t, order.BillingData.HoursWorked.Equal(back.BillingData.HoursWorked))
	require.NotNil(t, back.BillingData.RatePerHour)
	assert.True(t, rate.Equal(*back.BillingData.RatePerHour))
	assert.Equal(t, order.WorkCode, back.WorkCode)
	assert.Equal(t, order.CreatedAt, back.CreatedAt)
}

func TestInvoiceDoc_KeepsMoneyAsDecimalStrings(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	inv := domain.Invoice{
		InvoiceID:      "inv-1",
		InvoiceNumber:  "INV-1000",
		ClientSnapshot: domain.ClientSnapshot{Name: "Dana", Address: domain.Address{City: "Odessa"}},
		Amount:         decimal.RequireFromString("157.50"),
		Status:         domain.InvoicePending,
		Date:           now,
		DueDate:        now.AddDate(0, 0, 30),
		Details:        domain.InvoiceDetails{HoursWorked: decimal.RequireFromString("3.5"), RatePerHour: decimal.RequireFromString("45")},
	}

	d := toInvoiceDoc(inv, 1000)
	assert.Equal(t, int64(1000), d.InvoiceSeq)
	assert.Equal(t, "157.5", d.Amount)

	back, err := d.toDomain("inv-1")
	require.NoError(t, err)
	assert.Equal(t, "157.50", back.Amount.StringFixed(2))
	assert.Equal(t, inv.ClientSnapshot, back.ClientSnapshot)
	assert.Equal(t, inv.DueDate, back.DueDate)

	d.Amount = "lots"
	_, err = d.toDomain("inv-1")
	assert.Error(t, err)
}

func TestUserDoc_StoresLowercasedEmail(t *testing.T) {
	d := toUserDoc(domain.User{UserID: "u1", Email: " Dana@Ortiz.Example ", Role: domain.RoleEmployee, Active: true})
	assert.Equal(t, "dana@ortiz.example", d.EmailLower)
	u := d.toDomain("u1")
	assert.Equal(t, domain.RoleEmployee, u.Role)
	assert.True(t, u.Active)
}
