package component

import (
	"context"
	"errors"
	"testing"
)

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.events != nil {
		*f.events = append(*f.events, "start:"+f.name)
	}
	return f.startErr
}

func (f *fakeComponent) Stop(context.Context) error {
	if f.events != nil {
		*f.events = append(*f.events, "stop:"+f.name)
	}
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) Health { return f.health }

type describedComponent struct {
	fakeComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "http-client", Details: "2 clients"}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	c := &fakeComponent{name: "client_factory"}
	if err := r.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&fakeComponent{name: "client_factory"}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if r.Get("client_factory") != c {
		t.Error("Get returned the wrong component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}
}

func TestStartStopOrder(t *testing.T) {
	r := NewRegistry()
	var events []string
	for _, name := range []string{"tracer", "client_factory", "worker"} {
		_ = r.Register(&fakeComponent{name: name, events: &events})
	}
	_ = r.Register(&describedComponent{fakeComponent{name: "described", events: &events}})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{
		"start:tracer", "start:client_factory", "start:worker", "start:described",
		"stop:described", "stop:worker", "stop:client_factory", "stop:tracer",
	}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestStartAll_StopsAtFirstFailure(t *testing.T) {
	r := NewRegistry()
	var events []string
	boom := errors.New("connection refused")
	_ = r.Register(&fakeComponent{name: "a", events: &events})
	_ = r.Register(&fakeComponent{name: "b", startErr: boom, events: &events})
	_ = r.Register(&fakeComponent{name: "c", events: &events})

	if err := r.StartAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	want := []string{"start:a", "start:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestStopAll_ContinuesAfterError(t *testing.T) {
	r := NewRegistry()
	var events []string
	boom := errors.New("stop failed")
	_ = r.Register(&fakeComponent{name: "a", events: &events})
	_ = r.Register(&fakeComponent{name: "b", stopErr: boom, events: &events})
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if events[len(events)-1] != "stop:a" {
		t.Errorf("expected a to be stopped after b failed, got %v", events)
	}
}

func TestStopAll_SkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	var events []string
	_ = r.Register(&fakeComponent{name: "a", events: &events})
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no stops, got %v", events)
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	_ = r.Register(&fakeComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded, Message: "1 client failing"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy || results[1].Status != StatusDegraded {
		t.Errorf("unexpected health %v", results)
	}
}
