package configurator

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/vehicle-configurator/internal/imagery"
	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/pricing"
)

// Status is the load state of a session.
type Status string

const (
	StatusLoading     Status = "loading"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
	StatusError       Status = "error"
)

// View is the snapshot published to the presentation layer after every
// state change.  Version increases with each publication.
type View struct {
	SessionID          string                `json:"session_id"`
	Version            uint64                `json:"version"`
	Status             Status                `json:"status"`
	ActiveTab          imagery.Tab           `json:"active_tab"`
	RotationIndex      int                   `json:"rotation_index"`
	CurrentView        model.View            `json:"current_view"`
	InteriorSubView    imagery.InteriorView  `json:"interior_sub_view"`
	ResolvedImageURL   string                `json:"resolved_image_url"`
	DisplayedImageURL  string                `json:"displayed_image_url"`
	IsTransitioning    bool                  `json:"is_transitioning"`
	IsSwitchingVariant bool                  `json:"is_switching_variant"`
	Variant            *model.VehicleVariant `json:"variant,omitempty"`
	Selection          SelectionView         `json:"selection"`
	TotalPrice         decimal.Decimal       `json:"total_price"`
	Quote              pricing.Quote         `json:"quote"`
	SiblingVariants    []SiblingView         `json:"sibling_variants"`
	TransmissionFilter model.Transmission    `json:"transmission_filter,omitempty"`
	Summary            *Handoff              `json:"summary,omitempty"`
}

// SelectionView names the current choices by id.  A nil Seat is the
// standard seat.
type SelectionView struct {
	Color        string   `json:"color,omitempty"`
	Wheel        string   `json:"wheel,omitempty"`
	Seat         *string  `json:"seat"`
	AccessoryIDs []string `json:"accessory_ids"`
}

// SiblingView is the short form of an alternative variant.
type SiblingView struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Transmission model.Transmission `json:"transmission"`
	BasePrice    decimal.Decimal    `json:"base_price"`
	CoverImage   string             `json:"cover_image,omitempty"`
}

// Handoff is the snapshot given to the lead collaborator on finish.
type Handoff struct {
	SessionID            string          `json:"session_id"`
	LeadID               string          `json:"lead_id,omitempty"`
	UserID               *uint64         `json:"-"`
	VariantID            string          `json:"variant_id"`
	VariantName          string          `json:"variant_name"`
	SelectedColor        string          `json:"selected_color,omitempty"`
	SelectedWheel        string          `json:"selected_wheel,omitempty"`
	SelectedSeat         string          `json:"selected_seat,omitempty"`
	SelectedAccessoryIDs []string        `json:"selected_accessory_ids"`
	TotalPrice           decimal.Decimal `json:"total_price"`
	Quote                pricing.Quote   `json:"quote"`
}

func siblingView(v *model.VehicleVariant) SiblingView {
	return SiblingView{
		ID:           v.ID,
		Name:         v.Name,
		Transmission: v.Transmission,
		BasePrice:    pricing.Coerce(v.BasePrice),
		CoverImage:   v.CoverImage,
	}
}
