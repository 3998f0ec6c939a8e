package imagery

import "github.com/iliyamo/vehicle-configurator/internal/model"

// Request carries everything Resolve needs.  Color and Seat point into
// Variant's own option lists; nil Seat is the standard seat.
type Request struct {
	Tab      Tab
	Rotation int
	Interior InteriorView
	Color    *model.ColorOption
	Seat     *model.SeatOption
	Variant  *model.VehicleVariant
}

// Resolve returns the URL of the photo to display, or "" when nothing is
// resolvable and the caller should render a placeholder.
//
// Exterior precedence for the current view, in order:
//  1. the selected color's photo for that view
//  2. the variant's default photo for that view
//  3. the selected color's generic photo
//  4. the variant's cover photo
func Resolve(r Request) string {
	v := r.Variant
	if v == nil {
		return ""
	}
	if r.Tab == TabInterior {
		if r.Interior == InteriorSeats {
			if r.Seat != nil && r.Seat.Image != "" {
				return r.Seat.Image
			}
			return v.Interior.SeatsURL
		}
		return v.Interior.DashboardURL
	}

	view := ViewAt(r.Rotation)
	if r.Color != nil {
		if u := r.Color.Images[view]; u != "" {
			return u
		}
	}
	if u := v.Images[view]; u != "" {
		return u
	}
	if r.Color != nil && r.Color.Image != "" {
		return r.Color.Image
	}
	return v.CoverImage
}
