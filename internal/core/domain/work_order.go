package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderStatus is the open/closed axis of a work order.
type WorkOrderStatus string

const (
	WorkOrderOpen   WorkOrderStatus = "open"
	WorkOrderClosed WorkOrderStatus = "closed"
)

// Step is a data-collection stage of a work order.
type Step string

const (
	StepJSA     Step = "jsa"
	StepPreTrip Step = "pre-trip"
	StepJourney Step = "journey"
	StepBilling Step = "billing"
)

// Steps lists every step in the order a work order moves through them.
var Steps = []Step{StepJSA, StepPreTrip, StepJourney, StepBilling}

// Index returns the position of s in Steps, or -1 for an unknown step.
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

func (s Step) IsValid() bool {
	return s.Index() >= 0
}

// Next returns the step after s. ok is false when s is the last step.
func (s Step) Next() (next Step, ok bool) {
	i := s.Index()
	if i < 0 || i == len(Steps)-1 {
		return s, false
	}
	return Steps[i+1], true
}

// Previous returns the step before s. ok is false when s is the first step.
func (s Step) Previous() (prev Step, ok bool) {
	i := s.Index()
	if i <= 0 {
		return s, false
	}
	return Steps[i-1], true
}

// PPE items a job safety analysis may list.
const (
	PPEHardHat            = "Hard Hat"
	PPESafetyGlasses      = "Safety Glasses"
	PPESteelToedBoots     = "Steel-Toed Boots"
	PPEGloves             = "Gloves"
	PPEHighVisibilityVest = "High-Visibility Vest"
	PPEHearingProtection  = "Hearing Protection"
	PPEFaceShield         = "Face Shield"
	PPEFallProtection     = "Fall Protection"
)

// ServiceType values accepted on billing.
const (
	ServiceCableSpooling     = "Cable Spooling"
	ServiceCTSpooling        = "CT Spooling"
	ServiceHotShot           = "Hot Shot"
	ServiceTechnicalServices = "Technical Services"
	ServiceOther             = "Other"
)

// JSAData is the job safety analysis step.
type JSAData struct {
	JobDescription string   `json:"jobDescription" validate:"required"`
	Hazards        string   `json:"hazards" validate:"required"`
	Controls       string   `json:"controls" validate:"required"`
	PPE            []string `json:"ppe" validate:"dive,oneof='Hard Hat' 'Safety Glasses' 'Steel-Toed Boots' 'Gloves' 'High-Visibility Vest' 'Hearing Protection' 'Face Shield' 'Fall Protection'"`
}

// PreTripData is the vehicle checklist filled in before travelling.
// Mileage and the checks are pointers so that an omitted value fails
// validation while zero or false is accepted.
type PreTripData struct {
	VehicleID        string   `json:"vehicleId" validate:"required"`
	Mileage          *float64 `json:"mileage" validate:"required,gte=0"`
	FuelLevel        string   `json:"fuelLevel" validate:"required,oneof=full 3/4 1/2 1/4 empty"`
	TireCondition    string   `json:"tireCondition" validate:"required,oneof=excellent good fair poor"`
	LightsWorking    *bool    `json:"lightsWorking" validate:"required"`
	BrakesFunctional *bool    `json:"brakesFunctional" validate:"required"`
	FluidsChecked    *bool    `json:"fluidsChecked" validate:"required"`
	SafetyEquipment  *bool    `json:"safetyEquipment" validate:"required"`
	Damages          string   `json:"damages,omitempty"`
}

// JourneyData is the travel log and expense step.
type JourneyData struct {
	StartLocation    string           `json:"startLocation" validate:"required"`
	EndLocation      string           `json:"endLocation" validate:"required"`
	StartTime        string           `json:"startTime" validate:"required"`
	EstimatedEndTime string           `json:"estimatedEndTime" validate:"required"`
	FuelExpense      *decimal.Decimal `json:"fuelExpense" validate:"required,gte=0"`
	FoodExpense      *decimal.Decimal `json:"foodExpense" validate:"required,gte=0"`
	OtherExpenses    *decimal.Decimal `json:"otherExpenses" validate:"required,gte=0"`
	Notes            string           `json:"notes,omitempty"`
}

// TotalExpenses sums the journey expense fields. Missing fields count as zero.
func (j JourneyData) TotalExpenses() decimal.Decimal {
	return decimalOrZero(j.FuelExpense).Add(decimalOrZero(j.FoodExpense)).Add(decimalOrZero(j.OtherExpenses))
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// BillingData is the final step and the input to invoice generation.
type BillingData struct {
	ClientID     string           `json:"clientId" validate:"required"`
	ServiceType  string           `json:"serviceType" validate:"required,oneof='Cable Spooling' 'CT Spooling' 'Hot Shot' 'Technical Services' 'Other'"`
	HoursWorked  decimal.Decimal  `json:"hoursWorked" validate:"gte=0.5"`
	RatePerHour  *decimal.Decimal `json:"ratePerHour" validate:"required,gte=0"`
	Materials    string           `json:"materials,omitempty"`
	PaymentTerms PaymentTerms     `json:"paymentTerms" validate:"required,oneof=net15 net30 net45 net60"`
	Notes        string           `json:"notes,omitempty"`
}

// StepData carries the payload for one step submission. Only the field
// matching the work order's current step is read.
type StepData struct {
	JSA     *JSAData     `json:"jsaData,omitempty"`
	PreTrip *PreTripData `json:"preTripData,omitempty"`
	Journey *JourneyData `json:"journeyData,omitempty"`
	Billing *BillingData `json:"billingData,omitempty"`
}

// WorkOrder is a unit of field work moving through the step workflow.
type WorkOrder struct {
	WorkOrderID string          `json:"id"`
	WorkCode    string          `json:"workCode"`
	Status      WorkOrderStatus `json:"status"`
	CurrentStep Step            `json:"currentStep"`

	JSAData     *JSAData     `json:"jsaData,omitempty"`
	PreTripData *PreTripData `json:"preTripData,omitempty"`
	JourneyData *JourneyData `json:"journeyData,omitempty"`
	BillingData *BillingData `json:"billingData,omitempty"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
	InvoiceID   *string    `json:"invoiceId,omitempty"`
	AuditFields
}

func (w WorkOrder) IsClosed() bool {
	return w.Status == WorkOrderClosed
}

// WorkOrderFilter narrows work order listings.
type WorkOrderFilter struct {
	Status *WorkOrderStatus
}
