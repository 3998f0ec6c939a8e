package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lead records a finished configuration handed to the sales team.  It is
// the persisted form of the configurator's finish() snapshot.
//
// Fields:
//  ID           – uuid primary key.
//  SessionID    – configurator session that produced the lead.
//  UserID       – authenticated customer, nil for guests.
//  VariantID    – configured vehicle variant.
//  ColorName    – chosen paint, empty when the variant has no colors.
//  WheelID      – chosen wheel set, empty when none.
//  SeatID       – chosen seat option, empty for the standard seat.
//  AccessoryIDs – toggled accessories, sorted.
//  TotalPrice   – price computed at finish time.
type Lead struct {
	ID           string          `json:"id"`            // leads.id
	SessionID    string          `json:"session_id"`    // leads.session_id
	UserID       *uint64         `json:"user_id"`       // leads.user_id (nullable)
	VariantID    string          `json:"variant_id"`    // leads.variant_id
	VariantName  string          `json:"variant_name"`  // leads.variant_name
	ColorName    string          `json:"color_name"`    // leads.color_name
	WheelID      string          `json:"wheel_id"`      // leads.wheel_id
	SeatID       string          `json:"seat_id"`       // leads.seat_id
	AccessoryIDs []string        `json:"accessory_ids"` // leads.accessory_ids (JSON array)
	TotalPrice   decimal.Decimal `json:"total_price"`   // leads.total_price
	CreatedAt    time.Time       `json:"created_at"`    // leads.created_at
}
