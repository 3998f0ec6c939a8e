package model

import (
	"time"
)

// View names one fixed exterior camera angle.  The same keys are used by
// a variant's default image map and by each color's per-view image map.
type View string

const (
	ViewFront       View = "front"
	ViewSide        View = "side"
	ViewRearAngle   View = "rear_angle"
	ViewFrontDetail View = "front_detail"
	ViewRear        View = "rear"
)

// Transmission describes which gearboxes a variant can be ordered with.
type Transmission string

const (
	TransmissionAutomatic Transmission = "automatic"
	TransmissionManual    Transmission = "manual"
	TransmissionBoth      Transmission = "both"
)

// Accepts reports whether a variant with capability t is eligible under
// the filter f.  A variant offering both gearboxes passes every filter.
func (t Transmission) Accepts(f Transmission) bool {
	return t == TransmissionBoth || t == f
}

// AccessoryCategory tags an accessory as fitted outside or inside the car.
type AccessoryCategory string

const (
	AccessoryExterior AccessoryCategory = "exterior"
	AccessoryInterior AccessoryCategory = "interior"
)

// ColorOption is a paint choice.  Images holds per-view photos of the car
// in this color; Image is the generic (front/primary) photo.
type ColorOption struct {
	Name       string          `json:"name"`
	Hex        string          `json:"hex"`
	PriceDelta RawPrice        `json:"price"`
	Images     map[View]string `json:"images"`
	Image      string          `json:"image"`
}

// WheelOption is a wheel set.
type WheelOption struct {
	ID         FlexID   `json:"id"`
	Name       string   `json:"name"`
	PriceDelta RawPrice `json:"price"`
	Image      string   `json:"image"`
}

// SeatOption is an upholstery choice.  A nil *SeatOption in a selection
// stands for the manufacturer standard seat.
type SeatOption struct {
	ID         FlexID   `json:"id"`
	Name       string   `json:"name"`
	PriceDelta RawPrice `json:"price"`
	Image      string   `json:"image"`
}

// AccessoryOption is an add-on that can be toggled independently.
type AccessoryOption struct {
	ID         FlexID            `json:"id"`
	Name       string            `json:"name"`
	PriceDelta RawPrice          `json:"price"`
	Image      string            `json:"image"`
	Category   AccessoryCategory `json:"category"`
}

// InteriorImages holds the two default interior shots of a variant.
type InteriorImages struct {
	DashboardURL         string `json:"dashboard_url"`
	DashboardDescription string `json:"dashboard_description"`
	SeatsURL             string `json:"seats_url"`
	SeatsDescription     string `json:"seats_description"`
}

// VehicleVariant is one sellable configuration of a model, fully typed.
// It is produced by the catalog loader from a VehicleRecord; every list
// field is non-nil after normalization.
//
// Fields:
//  ID           – immutable identifier, used for sibling cross-links.
//  CategoryID   – model family shared by sibling variants.
//  BasePrice    – price before options, as stored.
//  CoverImage   – last-resort exterior photo.
//  Images       – default exterior photo per view.
//  Interior     – default dashboard and seats photos.
//  Transmission – automatic, manual or both.
type VehicleVariant struct {
	ID           string            `json:"id"`
	CategoryID   string            `json:"category_id"`
	Name         string            `json:"name"`
	BasePrice    RawPrice          `json:"base_price"`
	CoverImage   string            `json:"cover_image"`
	Images       map[View]string   `json:"images"`
	Interior     InteriorImages    `json:"interior"`
	Transmission Transmission      `json:"transmission"`
	Colors       []ColorOption     `json:"colors"`
	Wheels       []WheelOption     `json:"wheels"`
	Seats        []SeatOption      `json:"seat_types"`
	Accessories  []AccessoryOption `json:"accessories"`
}

// Accessory looks up an accessory of the variant by id.
func (v *VehicleVariant) Accessory(id string) (*AccessoryOption, bool) {
	for i := range v.Accessories {
		if string(v.Accessories[i].ID) == id {
			return &v.Accessories[i], true
		}
	}
	return nil, false
}

// VehicleRecord is a row of the vehicles table as stored.  Option lists and
// image maps are kept as raw JSON columns and may be NULL for legacy rows;
// base_price may hold a number or a formatted currency string.
type VehicleRecord struct {
	ID           string    // vehicles.id
	CategoryID   string    // vehicles.category_id
	Name         string    // vehicles.name
	BasePrice    RawPrice  // vehicles.base_price (nullable, free text)
	CoverImage   string    // vehicles.cover_image
	Images       []byte    // vehicles.images (JSON object, nullable)
	Interior     []byte    // vehicles.interior (JSON object, nullable)
	Transmission string    // vehicles.transmission
	Colors       []byte    // vehicles.colors (JSON array, nullable)
	Wheels       []byte    // vehicles.wheels (JSON array, nullable)
	SeatTypes    []byte    // vehicles.seat_types (JSON array, nullable)
	Accessories  []byte    // vehicles.accessories (JSON array, nullable)
	CreatedAt    time.Time // vehicles.created_at
	UpdatedAt    time.Time // vehicles.updated_at
}
