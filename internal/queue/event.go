// Package queue defines the broker payloads and the lead log consumer.
package queue

// ConfigurationFinishedEvent is published when a shopper finishes a
// configuration.  It carries everything a downstream consumer needs to
// follow up on the lead without reading the database.
type ConfigurationFinishedEvent struct {
	LeadID       string   `json:"lead_id"`
	SessionID    string   `json:"session_id"`
	UserID       *uint64  `json:"user_id,omitempty"`
	VariantID    string   `json:"variant_id"`
	VariantName  string   `json:"variant_name"`
	Color        string   `json:"color,omitempty"`
	WheelID      string   `json:"wheel_id,omitempty"`
	SeatID       string   `json:"seat_id,omitempty"`
	AccessoryIDs []string `json:"accessory_ids"`
	TotalPrice   string   `json:"total_price"`
	FinishedAt   string   `json:"finished_at"`
}
