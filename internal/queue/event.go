// Package queue defines message payloads exchanged over the message broker.
package queue

// RentPaidEvent is published when a rent row transitions to Paid. It carries
// enough denormalized context for downstream consumers to log or notify
// without querying the primary database.
type RentPaidEvent struct {
	RentID       uint64  `json:"rent_id"`
	TenantID     uint64  `json:"tenant_id"`
	TenantName   string  `json:"tenant_name"`
	PropertyName string  `json:"property_name"`
	UnitNumber   string  `json:"unit_number"`
	Month        string  `json:"month"`
	TotalAmount  float64 `json:"total_amount"`
	PaidOn       string  `json:"paid_on"`
}
