package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validJSA() *domain.JSAData {
	return &domain.JSAData{
		JobDescription: "Spool cable onto drum",
		Hazards:        "Pinch points",
		Controls:       "Lockout before loading",
		PPE:            []string{domain.PPEHardHat, domain.PPEGloves},
	}
}

func validPreTrip() *domain.PreTripData {
	return &domain.PreTripData{
		VehicleID:        "TRK-12",
		Mileage:          floatPtr(120345),
		FuelLevel:        "3/4",
		TireCondition:    "good",
		LightsWorking:    boolPtr(true),
		BrakesFunctional: boolPtr(true),
		FluidsChecked:    boolPtr(false),
		SafetyEquipment:  boolPtr(true),
	}
}

func validJourney() *domain.JourneyData {
	return &domain.JourneyData{
		StartLocation:    "Yard",
		EndLocation:      "Pad 7",
		StartTime:        "2024-01-01T07:00",
		EstimatedEndTime: "2024-01-01T12:00",
		FuelExpense:      decPtr("80.25"),
		FoodExpense:      decPtr("15"),
		OtherExpenses:    decPtr("0"),
	}
}

func validBilling() *domain.BillingData {
	return &domain.BillingData{
		ClientID:     "C1",
		ServiceType:  domain.ServiceHotShot,
		HoursWorked:  decimal.RequireFromString("4"),
		RatePerHour:  decPtr("50"),
		PaymentTerms: domain.Net15,
	}
}

func fullSequence() []domain.StepData {
	return []domain.StepData{
		{JSA: validJSA()},
		{PreTrip: validPreTrip()},
		{Journey: validJourney()},
		{Billing: validBilling()},
	}
}

func TestStep_NextAndPrevious(t *testing.T) {
	tests := []struct {
		step     domain.Step
		next     domain.Step
		hasNext  bool
		prev     domain.Step
		hasPrev  bool
		position int
	}{
		{domain.StepJSA, domain.StepPreTrip, true, domain.StepJSA, false, 0},
		{domain.StepPreTrip, domain.StepJourney, true, domain.StepJSA, true, 1},
		{domain.StepJourney, domain.StepBilling, true, domain.StepPreTrip, true, 2},
		{domain.StepBilling, domain.StepBilling, false, domain.StepJourney, true, 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.step), func(t *testing.T) {
			next, ok := tt.step.Next()
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.hasNext, ok)
			prev, ok := tt.step.Previous()
			assert.Equal(t, tt.prev, prev)
			assert.Equal(t, tt.hasPrev, ok)
			assert.Equal(t, tt.position, tt.step.Index())
		})
	}
	assert.False(t, domain.Step("invoice").IsValid())
}

func TestApplyStep_FollowsFixedOrder(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	order := domain.NewWorkOrder("wo-1", "4821", "user-1", now)
	require.Equal(t, domain.StepJSA, order.CurrentStep)
	require.Equal(t, domain.WorkOrderOpen, order.Status)

	expected := []domain.Step{domain.StepPreTrip, domain.StepJourney, domain.StepBilling, domain.StepBilling}
	for i, data := range fullSequence() {
		var err error
		order, err = domain.ApplyStep(order, data, "user-1", now.Add(time.Duration(i+1)*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, expected[i], order.CurrentStep)
		assert.Equal(t, now.Add(time.Duration(i+1)*time.Minute), order.LastUpdatedAt)
	}
	assert.NotNil(t, order.JSAData)
	assert.NotNil(t, order.PreTripData)
	assert.NotNil(t, order.JourneyData)
	assert.NotNil(t, order.BillingData)
	assert.Equal(t, now, order.CreatedAt)
}

func TestApplyStep_RejectsPayloadForOtherStep(t *testing.T) {
	now := time.Now()
	order := domain.NewWorkOrder("wo-1", "4821", "user-1", now)

	updated, err := domain.ApplyStep(order, domain.StepData{Billing: validBilling()}, "user-1", now)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, domain.StepJSA, updated.CurrentStep)
	assert.Nil(t, updated.BillingData)
}

func TestApplyStep_Validation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		step    domain.Step
		data    domain.StepData
		wantErr bool
	}{
		{"jsa valid", domain.StepJSA, domain.StepData{JSA: validJSA()}, false},
		{"jsa missing hazards", domain.StepJSA, domain.StepData{JSA: func() *domain.JSAData {
			d := validJSA()
			d.Hazards = ""
			return d
		}()}, true},
		{"jsa unknown ppe", domain.StepJSA, domain.StepData{JSA: func() *domain.JSAData {
			d := validJSA()
			d.PPE = []string{"Cape"}
			return d
		}()}, true},
		{"pre-trip missing check", domain.StepPreTrip, domain.StepData{PreTrip: func() *domain.PreTripData {
			d := validPreTrip()
			d.BrakesFunctional = nil
			return d
		}()}, true},
		{"pre-trip zero mileage", domain.StepPreTrip, domain.StepData{PreTrip: func() *domain.PreTripData {
			d := validPreTrip()
			d.Mileage = floatPtr(0)
			return d
		}()}, false},
		{"pre-trip missing mileage", domain.StepPreTrip, domain.StepData{PreTrip: func() *domain.PreTripData {
			d := validPreTrip()
			d.Mileage = nil
			return d
		}()}, true},
		{"pre-trip negative mileage", domain.StepPreTrip, domain.StepData{PreTrip: func() *domain.PreTripData {
			d := validPreTrip()
			d.Mileage = floatPtr(-5)
			return d
		}()}, true},
		{"journey missing fuel expense", domain.StepJourney, domain.StepData{Journey: func() *domain.JourneyData {
			d := validJourney()
			d.FuelExpense = nil
			return d
		}()}, true},
		{"journey missing food expense", domain.StepJourney, domain.StepData{Journey: func() *domain.JourneyData {
			d := validJourney()
			d.FoodExpense = nil
			return d
		}()}, true},
		{"journey missing other expenses", domain.StepJourney, domain.StepData{Journey: func() *domain.JourneyData {
			d := validJourney()
			d.OtherExpenses = nil
			return d
		}()}, true},
		{"billing missing rate", domain.StepBilling, domain.StepData{Billing: func() *domain.BillingData {
			d := validBilling()
			d.RatePerHour = nil
			return d
		}()}, true},
		{"pre-trip bad fuel level", domain.StepPreTrip, domain.StepData{PreTrip: func() *domain.PreTripData {
			d := validPreTrip()
			d.FuelLevel = "half"
			return d
		}()}, true},
		{"journey negative expense", domain.StepJourney, domain.StepData{Journey: func() *domain.JourneyData {
			d := validJourney()
			d.FoodExpense = decPtr("-1")
			return d
		}()}, true},
		{"billing hours below minimum", domain.StepBilling, domain.StepData{Billing: func() *domain.BillingData {
			d := validBilling()
			d.HoursWorked = decimal.RequireFromString("0.25")
			return d
		}()}, true},
		{"billing minimum hours", domain.StepBilling, domain.StepData{Billing: func() *domain.BillingData {
			d := validBilling()
			d.HoursWorked = decimal.RequireFromString("0.5")
			d.RatePerHour = decPtr("0")
			return d
		}()}, false},
		{"billing unknown terms", domain.StepBilling, domain.StepData{Billing: func() *domain.BillingData {
			d := validBilling()
			d.PaymentTerms = "net90"
			return d
		}()}, true},
		{"billing unknown service", domain.StepBilling, domain.StepData{Billing: func() *domain.BillingData {
			d := validBilling()
			d.ServiceType = "Catering"
			return d
		}()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.NewWorkOrder("wo-1", "1", "u", now)
			order.CurrentStep = tt.step
			updated, err := domain.ApplyStep(order, tt.data, "u", now)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Equal(t, order, updated)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRetreatStep(t *testing.T) {
	now := time.Now()
	order := domain.NewWorkOrder("wo-1", "4821", "user-1", now)

	same, moved, err := domain.RetreatStep(order, "user-1", now)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, order, same)

	for _, data := range fullSequence() {
		order, err = domain.ApplyStep(order, data, "user-1", now)
		require.NoError(t, err)
	}
	require.Equal(t, domain.StepBilling, order.CurrentStep)

	back, moved, err := domain.RetreatStep(order, "user-1", now)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, domain.StepJourney, back.CurrentStep)
	assert.Equal(t, order.JSAData, back.JSAData)
	assert.Equal(t, order.PreTripData, back.PreTripData)
	assert.Equal(t, order.JourneyData, back.JourneyData)
	assert.Equal(t, order.BillingData, back.BillingData)

	// resubmitting the journey overwrites it and moves forward again
	journey := validJourney()
	journey.Notes = "detour"
	again, err := domain.ApplyStep(back, domain.StepData{Journey: journey}, "user-1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StepBilling, again.CurrentStep)
	assert.Equal(t, "detour", again.JourneyData.Notes)
}

func TestCloseWorkOrder(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	order := domain.NewWorkOrder("wo-1", "4821", "user-1", now)

	_, err := domain.CloseWorkOrder(order, "inv-1", "user-1", now)
	assert.ErrorIs(t, err, apperrors.ErrMissingBillingData)

	order.BillingData = validBilling()
	closed, err := domain.CloseWorkOrder(order, "inv-1", "user-1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderClosed, closed.Status)
	require.NotNil(t, closed.CompletedAt)
	assert.Equal(t, now, *closed.CompletedAt)
	require.NotNil(t, closed.InvoiceID)
	assert.Equal(t, "inv-1", *closed.InvoiceID)

	_, err = domain.CloseWorkOrder(closed, "inv-2", "user-1", now)
	assert.ErrorIs(t, err, apperrors.ErrOrderClosed)

	_, err = domain.ApplyStep(closed, domain.StepData{Billing: validBilling()}, "user-1", now)
	assert.ErrorIs(t, err, apperrors.ErrOrderClosed)

	_, _, err = domain.RetreatStep(closed, "user-1", now)
	assert.ErrorIs(t, err, apperrors.ErrOrderClosed)
}

func TestValidateStepPayload_DecodedJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		body    string
		wantErr bool
	}{
		{"pre-trip without mileage", &domain.PreTripData{},
			`{"vehicleId":"TRK-12","fuelLevel":"full","tireCondition":"good","lightsWorking":true,"brakesFunctional":true,"fluidsChecked":true,"safetyEquipment":true}`, true},
		{"pre-trip with zero mileage", &domain.PreTripData{},
			`{"vehicleId":"TRK-12","mileage":0,"fuelLevel":"full","tireCondition":"good","lightsWorking":true,"brakesFunctional":true,"fluidsChecked":true,"safetyEquipment":false}`, false},
		{"journey without expenses", &domain.JourneyData{},
			`{"startLocation":"Yard","endLocation":"Pad 7","startTime":"07:00","estimatedEndTime":"12:00"}`, true},
		{"journey with zero expenses", &domain.JourneyData{},
			`{"startLocation":"Yard","endLocation":"Pad 7","startTime":"07:00","estimatedEndTime":"12:00","fuelExpense":0,"foodExpense":"0","otherExpenses":0}`, false},
		{"billing without rate", &domain.BillingData{},
			`{"clientId":"C1","serviceType":"Hot Shot","hoursWorked":2,"paymentTerms":"net30"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, json.Unmarshal([]byte(tt.body), tt.payload))
			err := domain.ValidateStepPayload(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestJourneyData_TotalExpenses(t *testing.T) {
	j := validJourney()
	assert.Equal(t, "95.25", j.TotalExpenses().StringFixed(2))

	j.FoodExpense = nil
	assert.Equal(t, "80.25", j.TotalExpenses().StringFixed(2))
}
