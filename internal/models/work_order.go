package models

import "time"

// WorkOrder is a row of the work_orders table. Step payloads are stored as
// jsonb and are nil until the step has been submitted.
type WorkOrder struct {
	WorkOrderID string     `db:"work_order_id"`
	WorkCode    string     `db:"work_code"`
	Status      string     `db:"status"`
	CurrentStep string     `db:"current_step"`
	JSAData     []byte     `db:"jsa_data"`
	PreTripData []byte     `db:"pre_trip_data"`
	JourneyData []byte     `db:"journey_data"`
	BillingData []byte     `db:"billing_data"`
	CompletedAt *time.Time `db:"completed_at"`
	InvoiceID   *string    `db:"invoice_id"`
	AuditFields
}
