package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-configurator/internal/configurator"
	"github.com/iliyamo/vehicle-configurator/internal/logger"
	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/queue"
)

// LeadStore persists leads.  *repository.LeadRepo satisfies it.
type LeadStore interface {
	Create(ctx context.Context, l *model.Lead) error
}

// EventPublisher announces finished configurations.
type EventPublisher interface {
	PublishConfigurationFinished(ctx context.Context, ev queue.ConfigurationFinishedEvent) error
}

// LeadService records finished configurations: a leads row first, then a
// broker event.  It implements configurator.LeadSink.
type LeadService struct {
	store LeadStore
	pub   EventPublisher
	log   *logger.Logger
	now   func() time.Time
}

// NewLeadService builds the sink.  pub may be nil to skip events.
func NewLeadService(store LeadStore, pub EventPublisher, log *logger.Logger) *LeadService {
	if log == nil {
		log = logger.Nop()
	}
	return &LeadService{store: store, pub: pub, log: log.With("component", "service.LeadService"), now: time.Now}
}

// Submit saves h as a lead and returns its id.  A failed publish is
// logged only; the lead row is the record of truth.
func (s *LeadService) Submit(ctx context.Context, h configurator.Handoff) (string, error) {
	lead := &model.Lead{
		ID:           uuid.NewString(),
		SessionID:    h.SessionID,
		UserID:       h.UserID,
		VariantID:    h.VariantID,
		VariantName:  h.VariantName,
		ColorName:    h.SelectedColor,
		WheelID:      h.SelectedWheel,
		SeatID:       h.SelectedSeat,
		AccessoryIDs: h.SelectedAccessoryIDs,
		TotalPrice:   h.TotalPrice,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Create(ctx, lead); err != nil {
		return "", fmt.Errorf("save lead: %w", err)
	}

	if s.pub != nil {
		ev := queue.ConfigurationFinishedEvent{
			LeadID:       lead.ID,
			SessionID:    lead.SessionID,
			UserID:       lead.UserID,
			VariantID:    lead.VariantID,
			VariantName:  lead.VariantName,
			Color:        lead.ColorName,
			WheelID:      lead.WheelID,
			SeatID:       lead.SeatID,
			AccessoryIDs: lead.AccessoryIDs,
			TotalPrice:   lead.TotalPrice.StringFixed(2),
			FinishedAt:   lead.CreatedAt.Format(time.RFC3339),
		}
		if ev.AccessoryIDs == nil {
			ev.AccessoryIDs = []string{}
		}
		if err := s.pub.PublishConfigurationFinished(ctx, ev); err != nil {
			s.log.Warn("lead event not published", "lead_id", lead.ID, "error", err)
		}
	}
	s.log.Info("lead recorded", "lead_id", lead.ID, "variant_id", lead.VariantID)
	return lead.ID, nil
}
