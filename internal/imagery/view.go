// Package imagery decides which photo the configurator shows and gates the
// swap from the old photo to the new one behind a preload.
package imagery

import "github.com/iliyamo/vehicle-configurator/internal/model"

// Tab is the configurator section the user is looking at.
type Tab string

const (
	TabModel    Tab = "model"
	TabExterior Tab = "exterior"
	TabInterior Tab = "interior"
	TabSummary  Tab = "summary"
)

// ParseTab maps a client-supplied tab name; ok is false for unknown names.
func ParseTab(s string) (Tab, bool) {
	switch t := Tab(s); t {
	case TabModel, TabExterior, TabInterior, TabSummary:
		return t, true
	}
	return "", false
}

// InteriorView selects which interior shot is shown on the Interior tab.
type InteriorView string

const (
	InteriorDash  InteriorView = "dash"
	InteriorSeats InteriorView = "seats"
)

// Direction of a rotation step.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ViewOrder is the fixed cyclic order of exterior camera angles.
var ViewOrder = []model.View{
	model.ViewFront,
	model.ViewSide,
	model.ViewRearAngle,
	model.ViewFrontDetail,
	model.ViewRear,
}

// Rotate moves index one step in dir, wrapping at both ends.
func Rotate(index int, dir Direction) int {
	n := len(ViewOrder)
	return ((index+int(dir))%n + n) % n
}

// ViewAt returns the camera angle for a rotation index.  Out-of-range
// indexes wrap the same way Rotate does.
func ViewAt(index int) model.View {
	n := len(ViewOrder)
	return ViewOrder[(index%n+n)%n]
}
