// Package selection holds the per-session choices of a configurator and the
// single transition function that mutates them.
package selection

import (
	"errors"
	"sort"

	"github.com/iliyamo/vehicle-configurator/internal/imagery"
	"github.com/iliyamo/vehicle-configurator/internal/model"
)

// ErrUnknownOption is returned when an action names an option the active
// variant does not offer.
var ErrUnknownOption = errors.New("unknown option")

// State is the ephemeral selection of one configurator session.  Color,
// Wheel and Seat point into the active variant's own lists; a nil Seat is
// the manufacturer standard seat.
type State struct {
	Color       *model.ColorOption
	Wheel       *model.WheelOption
	Seat        *model.SeatOption
	Tab         imagery.Tab
	Rotation    int
	Interior    imagery.InteriorView
	accessories map[string]struct{}
}

// New returns an empty selection on the Model tab.
func New() *State {
	return &State{
		Tab:         imagery.TabModel,
		Interior:    imagery.InteriorDash,
		accessories: map[string]struct{}{},
	}
}

// Kind enumerates the transitions Apply understands.
type Kind int

const (
	KindReset Kind = iota
	KindSelectColor
	KindSelectWheel
	KindSelectSeat
	KindToggleAccessory
	KindRotate
	KindSetTab
	KindSetInterior
)

// Action is one requested transition.  ID is the color name or the
// wheel/seat/accessory id depending on Kind; an empty seat ID selects the
// standard seat.
type Action struct {
	Kind     Kind
	ID       string
	Dir      imagery.Direction
	Tab      imagery.Tab
	Interior imagery.InteriorView
}

func Reset() Action { return Action{Kind: KindReset} }
func SelectColor(name string) Action { return Action{Kind: KindSelectColor, ID: name} }
func SelectWheel(id string) Action { return Action{Kind: KindSelectWheel, ID: id} }
func SelectSeat(id string) Action { return Action{Kind: KindSelectSeat, ID: id} }
func StandardSeat() Action { return Action{Kind: KindSelectSeat} }
func ToggleAccessory(id string) Action { return Action{Kind: KindToggleAccessory, ID: id} }
func RotateView(d imagery.Direction) Action { return Action{Kind: KindRotate, Dir: d} }
func SetTab(t imagery.Tab) Action { return Action{Kind: KindSetTab, Tab: t} }
func SetInterior(v imagery.InteriorView) Action {
	return Action{Kind: KindSetInterior, Interior: v}
}

// Apply performs a against the selection for variant v.  Every side effect
// of every selection change lives here.  On error the state is unchanged.
func (s *State) Apply(v *model.VehicleVariant, a Action) error {
	switch a.Kind {
	case KindReset:
		s.resetFor(v)

	case KindSelectColor:
		c := findColor(v, a.ID)
		if c == nil {
			return ErrUnknownOption
		}
		s.Color = c
		// a new color always starts from the front view
		s.Rotation = 0

	case KindSelectWheel:
		w := findWheel(v, a.ID)
		if w == nil {
			return ErrUnknownOption
		}
		s.Wheel = w

	case KindSelectSeat:
		if a.ID == "" {
			s.Seat = nil
			return nil
		}
		st := findSeat(v, a.ID)
		if st == nil {
			return ErrUnknownOption
		}
		s.Seat = st
		s.Interior = imagery.InteriorSeats

	case KindToggleAccessory:
		if v == nil {
			return ErrUnknownOption
		}
		if _, ok := v.Accessory(a.ID); !ok {
			return ErrUnknownOption
		}
		if _, on := s.accessories[a.ID]; on {
			delete(s.accessories, a.ID)
		} else {
			s.accessories[a.ID] = struct{}{}
		}

	case KindRotate:
		s.Rotation = imagery.Rotate(s.Rotation, a.Dir)

	case KindSetTab:
		s.Tab = a.Tab

	case KindSetInterior:
		if a.Interior != imagery.InteriorDash && a.Interior != imagery.InteriorSeats {
			return ErrUnknownOption
		}
		s.Interior = a.Interior

	default:
		return ErrUnknownOption
	}
	return nil
}

// resetFor reseeds every choice from v's own lists so nothing carries over
// from a previous variant.
func (s *State) resetFor(v *model.VehicleVariant) {
	s.Color, s.Wheel, s.Seat = nil, nil, nil
	if v != nil {
		if len(v.Colors) > 0 {
			s.Color = &v.Colors[0]
		}
		if len(v.Wheels) > 0 {
			s.Wheel = &v.Wheels[0]
		}
		if len(v.Seats) > 0 {
			s.Seat = &v.Seats[0]
		}
	}
	s.accessories = map[string]struct{}{}
	s.Tab = imagery.TabModel
	s.Rotation = 0
	s.Interior = imagery.InteriorDash
}

// HasAccessory reports whether the accessory id is toggled on.
func (s *State) HasAccessory(id string) bool {
	_, ok := s.accessories[id]
	return ok
}

// AccessoryIDs returns the toggled accessory ids in sorted order.
func (s *State) AccessoryIDs() []string {
	out := make([]string, 0, len(s.accessories))
	for id := range s.accessories {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ImageRequest builds the image resolution input for the current state.
func (s *State) ImageRequest(v *model.VehicleVariant) imagery.Request {
	return imagery.Request{
		Tab:      s.Tab,
		Rotation: s.Rotation,
		Interior: s.Interior,
		Color:    s.Color,
		Seat:     s.Seat,
		Variant:  v,
	}
}

func findColor(v *model.VehicleVariant, name string) *model.ColorOption {
	if v == nil {
		return nil
	}
	for i := range v.Colors {
		if v.Colors[i].Name == name {
			return &v.Colors[i]
		}
	}
	return nil
}

func findWheel(v *model.VehicleVariant, id string) *model.WheelOption {
	if v == nil {
		return nil
	}
	for i := range v.Wheels {
		if string(v.Wheels[i].ID) == id {
			return &v.Wheels[i]
		}
	}
	return nil
}

func findSeat(v *model.VehicleVariant, id string) *model.SeatOption {
	if v == nil {
		return nil
	}
	for i := range v.Seats {
		if string(v.Seats[i].ID) == id {
			return &v.Seats[i]
		}
	}
	return nil
}
