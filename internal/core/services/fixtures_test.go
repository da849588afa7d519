package services_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/SscSPs/fieldops_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// quietCtx carries a discarding logger so service logs do not clutter test output.
func quietCtx() context.Context {
	return middleware.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// testClock is a settable clock for services.WithClock.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func jsaStep() domain.StepData {
	return domain.StepData{JSA: &domain.JSAData{
		JobDescription: "Spool coiled tubing",
		Hazards:        "Pinch points, overhead load",
		Controls:       "Spotter, exclusion zone",
		PPE:            []string{domain.PPEHardHat, domain.PPESteelToedBoots, domain.PPEGloves},
	}}
}

func preTripStep() domain.StepData {
	return domain.StepData{PreTrip: &domain.PreTripData{
		VehicleID:        "TRK-7",
		Mileage:          floatPtr(88120),
		FuelLevel:        "full",
		TireCondition:    "good",
		LightsWorking:    boolPtr(true),
		BrakesFunctional: boolPtr(true),
		FluidsChecked:    boolPtr(true),
		SafetyEquipment:  boolPtr(true),
	}}
}

func journeyStep() domain.StepData {
	return domain.StepData{Journey: &domain.JourneyData{
		StartLocation:    "Midland yard",
		EndLocation:      "Pad 12",
		StartTime:        "06:30",
		EstimatedEndTime: "11:00",
		FuelExpense:      decPtr("92.40"),
		FoodExpense:      decPtr("18"),
		OtherExpenses:    decPtr("0"),
	}}
}

func billingStep(clientID, hours, rate string, terms domain.PaymentTerms) domain.StepData {
	return domain.StepData{Billing: &domain.BillingData{
		ClientID:     clientID,
		ServiceType:  domain.ServiceHotShot,
		HoursWorked:  decimal.RequireFromString(hours),
		RatePerHour:  decPtr(rate),
		PaymentTerms: terms,
	}}
}

func clientRequest(terms string) dto.CreateClientRequest {
	return dto.CreateClientRequest{
		Name:    "Dana Ortiz",
		Company: "Ortiz Drilling",
		Email:   "dana@ortiz.example",
		Phone:   "555-0101",
		Address: dto.AddressRequest{
			Street:  "1 Main St",
			City:    "Odessa",
			State:   "TX",
			ZipCode: "79761",
			Country: "US",
		},
		PaymentTerms: terms,
	}
}
