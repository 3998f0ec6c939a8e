// Package configurator runs one interactive vehicle configuration: the
// active variant, the user's selection, the tab workflow, the live price
// and the gated product photo.
package configurator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/vehicle-configurator/internal/catalog"
	"github.com/iliyamo/vehicle-configurator/internal/imagery"
	"github.com/iliyamo/vehicle-configurator/internal/logger"
	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/pricing"
	"github.com/iliyamo/vehicle-configurator/internal/selection"
)

var (
	// ErrUnavailable means the requested vehicle does not exist.  The
	// session stays in the unavailable state until another vehicle is
	// requested; nothing is retried.
	ErrUnavailable = errors.New("vehicle unavailable")
	// ErrInvalidTransition rejects a tab move the workflow does not allow.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotReady rejects selection changes while no variant is loaded.
	ErrNotReady = errors.New("no vehicle loaded")
	// ErrUnknownOption rejects a selection naming an option the variant
	// does not offer.
	ErrUnknownOption = selection.ErrUnknownOption
	// ErrConcurrentEdit is returned by Finish when the selection changed
	// while the lead was being recorded.
	ErrConcurrentEdit = errors.New("configuration changed during finish")
)

// VariantLoader fetches a variant and its siblings.  *catalog.Loader
// satisfies it.
type VariantLoader interface {
	Load(ctx context.Context, id string) (*catalog.Result, error)
}

// LeadSink records a finished configuration and returns the lead id.
type LeadSink interface {
	Submit(ctx context.Context, h Handoff) (string, error)
}

// Options configures a Controller.  Every field is optional.
type Options struct {
	Preloader      imagery.Preloader
	PreloadTimeout time.Duration
	Sink           LeadSink
	Log            *logger.Logger
}

// Controller is the per-session state machine.  All methods are safe for
// concurrent use; none of them waits on an image preload.
type Controller struct {
	id     string
	loader VariantLoader
	sink   LeadSink
	log    *logger.Logger
	fade   *imagery.Crossfade

	mu        sync.Mutex
	status    Status
	variant   *model.VehicleVariant
	siblings  []*model.VehicleVariant
	sel       *selection.State
	filter    model.Transmission
	switching bool
	pending   *string
	resolved  string
	summary   *Handoff
	edits     uint64
	version   uint64
	subs      map[int]chan View
	nextSub   int
	closed    bool
}

// New builds an idle controller for session id.  Call SwitchVehicle to
// load the first variant.
func New(id string, loader VariantLoader, opts Options) *Controller {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	c := &Controller{
		id:     id,
		loader: loader,
		sink:   opts.Sink,
		log:    log.With("session_id", id),
		status: StatusLoading,
		sel:    selection.New(),
		subs:   map[int]chan View{},
	}
	c.fade = imagery.NewCrossfade(opts.Preloader, opts.PreloadTimeout, c.log, c.imageCommitted)
	return c
}

// ID returns the session id.
func (c *Controller) ID() string { return c.id }

// SwitchVehicle loads the variant with the given id (the default variant
// when id is empty) and resets the selection for it.  While a load is in
// flight further calls only queue their id; the latest queued id wins and
// is loaded when the current one returns, so results never interleave.
// Queued calls return nil at once and report through the published view.
func (c *Controller) SwitchVehicle(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.switching {
		c.pending = &id
		c.mu.Unlock()
		c.log.Debug("vehicle switch queued", "vehicle_id", id)
		return nil
	}
	c.switching = true
	c.publishLocked()
	c.mu.Unlock()

	for {
		res, err := c.loader.Load(ctx, id)

		c.mu.Lock()
		if c.pending != nil {
			// a newer request arrived; this result is stale
			id = *c.pending
			c.pending = nil
			c.mu.Unlock()
			continue
		}
		err = c.applyLoadLocked(id, res, err)
		c.switching = false
		c.publishLocked()
		c.mu.Unlock()
		return err
	}
}

func (c *Controller) applyLoadLocked(id string, res *catalog.Result, err error) error {
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNotFound):
		c.log.Info("vehicle not available", "vehicle_id", id)
		c.status = StatusUnavailable
		c.variant = nil
		c.siblings = nil
		c.summary = nil
		c.filter = ""
		c.sel = selection.New()
		c.refreshImageLocked()
		return ErrUnavailable
	default:
		c.log.Error("vehicle load failed", "vehicle_id", id, "error", err)
		if c.variant == nil {
			c.status = StatusError
		}
		return err
	}

	c.variant = res.Variant
	c.siblings = res.Siblings
	c.summary = nil
	c.status = StatusReady
	c.filter = initialFilter(res.Variant.Transmission)
	c.sel = selection.New()
	// Reset cannot fail
	_ = c.sel.Apply(c.variant, selection.Reset())
	c.edits++
	c.refreshImageLocked()
	c.log.Info("vehicle loaded", "vehicle_id", c.variant.ID, "siblings", len(c.siblings))
	return nil
}

func initialFilter(t model.Transmission) model.Transmission {
	if t == model.TransmissionManual {
		return model.TransmissionManual
	}
	return model.TransmissionAutomatic
}

// Apply runs a selection action against the active variant.  Tab actions
// are rejected here; use Next, JumpTo, Finish and Edit.
func (c *Controller) Apply(a selection.Action) error {
	if a.Kind == selection.KindSetTab || a.Kind == selection.KindReset {
		return ErrInvalidTransition
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.variant == nil || c.status != StatusReady {
		return ErrNotReady
	}
	if c.sel.Tab == imagery.TabSummary {
		return ErrInvalidTransition
	}
	if err := c.sel.Apply(c.variant, a); err != nil {
		return err
	}
	c.edits++
	c.refreshImageLocked()
	c.publishLocked()
	return nil
}

func (c *Controller) SelectColor(name string) error { return c.Apply(selection.SelectColor(name)) }
func (c *Controller) SelectWheel(id string) error { return c.Apply(selection.SelectWheel(id)) }
func (c *Controller) ToggleAccessory(id string) error {
	return c.Apply(selection.ToggleAccessory(id))
}
func (c *Controller) Rotate(d imagery.Direction) error { return c.Apply(selection.RotateView(d)) }

// SelectSeat picks a seat by id; an empty id means the standard seat.
func (c *Controller) SelectSeat(id string) error {
	if id == "" {
		return c.Apply(selection.StandardSeat())
	}
	return c.Apply(selection.SelectSeat(id))
}

func (c *Controller) SetInterior(v imagery.InteriorView) error {
	return c.Apply(selection.SetInterior(v))
}

// Next advances Model -> Exterior -> Interior.  From Interior it finishes.
func (c *Controller) Next(ctx context.Context, userID *uint64) error {
	c.mu.Lock()
	if c.variant == nil || c.status != StatusReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	var to imagery.Tab
	switch c.sel.Tab {
	case imagery.TabModel:
		to = imagery.TabExterior
	case imagery.TabExterior:
		to = imagery.TabInterior
	case imagery.TabInterior:
		c.mu.Unlock()
		_, err := c.Finish(ctx, userID)
		return err
	default:
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.setTabLocked(to)
	c.mu.Unlock()
	return nil
}

// JumpTo moves directly to one of the editing tabs.  Summary is reachable
// only through Finish, and Summary is left only through Edit.
func (c *Controller) JumpTo(t imagery.Tab) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.variant == nil || c.status != StatusReady {
		return ErrNotReady
	}
	if t == imagery.TabSummary || c.sel.Tab == imagery.TabSummary {
		return ErrInvalidTransition
	}
	c.setTabLocked(t)
	return nil
}

// Finish moves from Interior to Summary and hands the configuration to
// the lead sink.  The sink runs without the controller lock held; if the
// selection changed meanwhile the transition is abandoned.
func (c *Controller) Finish(ctx context.Context, userID *uint64) (*Handoff, error) {
	c.mu.Lock()
	if c.variant == nil || c.status != StatusReady {
		c.mu.Unlock()
		return nil, ErrNotReady
	}
	if c.sel.Tab != imagery.TabInterior {
		c.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	h := c.handoffLocked()
	h.UserID = userID
	edits := c.edits
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		leadID, err := sink.Submit(ctx, h)
		if err != nil {
			c.log.Error("lead submit failed", "variant_id", h.VariantID, "error", err)
			return nil, fmt.Errorf("submit lead: %w", err)
		}
		h.LeadID = leadID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edits != edits || c.sel.Tab != imagery.TabInterior {
		return nil, ErrConcurrentEdit
	}
	c.summary = &h
	c.setTabLocked(imagery.TabSummary)
	c.log.Info("configuration finished", "variant_id", h.VariantID, "lead_id", h.LeadID,
		"total", h.TotalPrice.String())
	out := h
	return &out, nil
}

// Edit leaves Summary and returns to Interior.
func (c *Controller) Edit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sel.Tab != imagery.TabSummary {
		return ErrInvalidTransition
	}
	c.summary = nil
	c.setTabLocked(imagery.TabInterior)
	return nil
}

func (c *Controller) setTabLocked(t imagery.Tab) {
	_ = c.sel.Apply(c.variant, selection.SetTab(t))
	c.edits++
	c.refreshImageLocked()
	c.publishLocked()
}

// SetTransmissionFilter restricts which siblings are listed.  Only
// automatic and manual are valid filters.
func (c *Controller) SetTransmissionFilter(t model.Transmission) error {
	if t != model.TransmissionAutomatic && t != model.TransmissionManual {
		return ErrUnknownOption
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.variant == nil {
		return ErrNotReady
	}
	c.filter = t
	c.publishLocked()
	return nil
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Subscribe returns a channel that always holds the most recent view not
// yet received, starting with the current one.  cancel releases it.
func (c *Controller) Subscribe() (<-chan View, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan View, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.viewLocked()
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if s, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(s)
		}
	}
}

// Close stops in-flight preloads and closes every subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()
	c.fade.Close()
}

// WaitImages blocks until every pending preload has settled.
func (c *Controller) WaitImages() { c.fade.Wait() }

func (c *Controller) imageCommitted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishLocked()
}

func (c *Controller) refreshImageLocked() {
	if c.variant == nil {
		c.resolved = ""
	} else {
		c.resolved = imagery.Resolve(c.sel.ImageRequest(c.variant))
	}
	c.fade.Request(c.resolved)
}

func (c *Controller) publishLocked() {
	if c.closed {
		return
	}
	c.version++
	if len(c.subs) == 0 {
		return
	}
	v := c.viewLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

func (c *Controller) viewLocked() View {
	v := View{
		SessionID:          c.id,
		Version:            c.version,
		Status:             c.status,
		ActiveTab:          c.sel.Tab,
		RotationIndex:      c.sel.Rotation,
		CurrentView:        imagery.ViewAt(c.sel.Rotation),
		InteriorSubView:    c.sel.Interior,
		ResolvedImageURL:   c.resolved,
		DisplayedImageURL:  c.fade.Displayed(),
		IsTransitioning:    c.fade.Transitioning(),
		IsSwitchingVariant: c.switching,
		Variant:            c.variant,
		SiblingVariants:    []SiblingView{},
		TransmissionFilter: c.filter,
		Summary:            c.summary,
	}
	v.Selection = c.selectionViewLocked()
	v.Quote = pricing.Itemize(c.variant, c.sel)
	v.TotalPrice = v.Quote.Total
	for _, s := range c.siblings {
		if c.filter == "" || s.Transmission.Accepts(c.filter) {
			v.SiblingVariants = append(v.SiblingVariants, siblingView(s))
		}
	}
	return v
}

func (c *Controller) selectionViewLocked() SelectionView {
	sv := SelectionView{AccessoryIDs: c.sel.AccessoryIDs()}
	if c.sel.Color != nil {
		sv.Color = c.sel.Color.Name
	}
	if c.sel.Wheel != nil {
		sv.Wheel = string(c.sel.Wheel.ID)
	}
	if c.sel.Seat != nil {
		id := string(c.sel.Seat.ID)
		sv.Seat = &id
	}
	return sv
}

func (c *Controller) handoffLocked() Handoff {
	q := pricing.Itemize(c.variant, c.sel)
	sv := c.selectionViewLocked()
	h := Handoff{
		SessionID:            c.id,
		VariantID:            c.variant.ID,
		VariantName:          c.variant.Name,
		SelectedColor:        sv.Color,
		SelectedWheel:        sv.Wheel,
		SelectedAccessoryIDs: sv.AccessoryIDs,
		TotalPrice:           q.Total,
		Quote:                q,
	}
	if sv.Seat != nil {
		h.SelectedSeat = *sv.Seat
	}
	return h
}
