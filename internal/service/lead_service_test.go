package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/vehicle-configurator/internal/configurator"
	"github.com/iliyamo/vehicle-configurator/internal/model"
	"github.com/iliyamo/vehicle-configurator/internal/queue"
)

type memLeads struct {
	saved []*model.Lead
	err   error
}

func (m *memLeads) Create(_ context.Context, l *model.Lead) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, l)
	return nil
}

type memPublisher struct {
	events []queue.ConfigurationFinishedEvent
	err    error
}

func (p *memPublisher) PublishConfigurationFinished(_ context.Context, ev queue.ConfigurationFinishedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func handoff() configurator.Handoff {
	uid := uint64(3)
	return configurator.Handoff{
		SessionID:     "sess-1",
		UserID:        &uid,
		VariantID:     "V1",
		VariantName:   "Hatch",
		SelectedColor: "Red",
		SelectedWheel: "std",
		TotalPrice:    decimal.RequireFromString("101500"),
	}
}

func TestSubmitSavesAndPublishes(t *testing.T) {
	store, pub := &memLeads{}, &memPublisher{}
	svc := NewLeadService(store, pub, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	id, err := svc.Submit(context.Background(), handoff())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].ID != id {
		t.Fatalf("saved: %+v", store.saved)
	}
	if len(pub.events) != 1 {
		t.Fatalf("events: want=1 got=%d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.LeadID != id || ev.TotalPrice != "101500.00" || ev.FinishedAt != "2024-05-01T10:00:00Z" {
		t.Fatalf("event: %+v", ev)
	}
	if ev.AccessoryIDs == nil || ev.UserID == nil || *ev.UserID != 3 {
		t.Fatalf("event fields: %+v", ev)
	}
}

func TestSubmitPublishFailureIsNotFatal(t *testing.T) {
	store := &memLeads{}
	svc := NewLeadService(store, &memPublisher{err: errors.New("broker down")}, nil)
	if _, err := svc.Submit(context.Background(), handoff()); err != nil {
		t.Fatalf("publish failure surfaced: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("lead not saved")
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	boom := errors.New("db down")
	pub := &memPublisher{}
	svc := NewLeadService(&memLeads{err: boom}, pub, nil)
	if _, err := svc.Submit(context.Background(), handoff()); !errors.Is(err, boom) {
		t.Fatalf("want wrapped store error, got=%v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("event published for unsaved lead")
	}
}

func TestSubmitWithoutPublisher(t *testing.T) {
	svc := NewLeadService(&memLeads{}, nil, nil)
	if _, err := svc.Submit(context.Background(), handoff()); err != nil {
		t.Fatalf("submit: %v", err)
	}
}
