package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/vehicle-configurator/internal/catalog"
	"github.com/iliyamo/vehicle-configurator/internal/configurator"
	"github.com/iliyamo/vehicle-configurator/internal/model"
)

func newTestRegistry(ttl time.Duration) *Registry {
	store := catalog.NewMemoryStore(&model.VehicleRecord{
		ID: "v1", CategoryID: "c", Name: "V1", BasePrice: model.PriceOf(1000),
	})
	loader := catalog.NewLoader(store, nil)
	return NewRegistry(func(id string) *configurator.Controller {
		return configurator.New(id, loader, configurator.Options{})
	}, ttl, nil)
}

func TestCreateGetDelete(t *testing.T) {
	r := newTestRegistry(time.Minute)
	ctrl, err := r.Create(context.Background(), "v1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ctrl.ID() == "" {
		t.Fatalf("empty session id")
	}
	got, ok := r.Get(ctrl.ID())
	if !ok || got != ctrl {
		t.Fatalf("get: ok=%v same=%v", ok, got == ctrl)
	}
	if r.Len() != 1 {
		t.Fatalf("len: want=1 got=%d", r.Len())
	}
	if !r.Delete(ctrl.ID()) {
		t.Fatalf("delete reported missing session")
	}
	if r.Delete(ctrl.ID()) {
		t.Fatalf("second delete reported existing session")
	}
	if _, ok := r.Get(ctrl.ID()); ok {
		t.Fatalf("session still present after delete")
	}
}

func TestCreateKeepsUnavailableSession(t *testing.T) {
	r := newTestRegistry(time.Minute)
	ctrl, err := r.Create(context.Background(), "missing")
	if !errors.Is(err, configurator.ErrUnavailable) {
		t.Fatalf("create missing: want ErrUnavailable got=%v", err)
	}
	if _, ok := r.Get(ctrl.ID()); !ok {
		t.Fatalf("unavailable session was not registered")
	}
	if err := ctrl.SwitchVehicle(context.Background(), "v1"); err != nil {
		t.Fatalf("switch after unavailable: %v", err)
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	r := newTestRegistry(10 * time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	idle, _ := r.Create(context.Background(), "v1")
	now = now.Add(8 * time.Minute)
	active, _ := r.Create(context.Background(), "v1")

	now = now.Add(5 * time.Minute)
	if n := r.Sweep(); n != 1 {
		t.Fatalf("sweep: want=1 got=%d", n)
	}
	if _, ok := r.Get(idle.ID()); ok {
		t.Fatalf("idle session survived sweep")
	}
	if _, ok := r.Get(active.ID()); !ok {
		t.Fatalf("active session was swept")
	}

	views, _ := idle.Subscribe()
	if _, open := <-views; open {
		t.Fatalf("swept controller was not closed")
	}
}

func TestSweepDisabled(t *testing.T) {
	r := newTestRegistry(0)
	now := time.Now()
	r.now = func() time.Time { return now }
	_, _ = r.Create(context.Background(), "v1")
	now = now.Add(24 * time.Hour)
	if n := r.Sweep(); n != 0 {
		t.Fatalf("sweep with ttl 0: want=0 got=%d", n)
	}
}

func TestRunClosesAllOnCancel(t *testing.T) {
	r := newTestRegistry(time.Minute)
	_, _ = r.Create(context.Background(), "v1")
	_, _ = r.Create(context.Background(), "v1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return")
	}
	if r.Len() != 0 {
		t.Fatalf("len after run: want=0 got=%d", r.Len())
	}
}
