package component

import (
	"context"
	"fmt"
	"strings"
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
	*f.events = append(*f.events, "start "+f.name)
	return f.startErr
}
func (f *fakeComponent) Stop(context.Context) error {
	*f.events = append(*f.events, "stop "+f.name)
	return f.stopErr
}
func (f *fakeComponent) Health(context.Context) Health { return f.health }

func newFakes(events *[]string, names ...string) []*fakeComponent {
	out := make([]*fakeComponent, 0, len(names))
	for _, n := range names {
		out = append(out, &fakeComponent{name: n, events: events, health: Health{Status: StatusHealthy}})
	}
	return out
}

func TestRegisterDuplicate(t *testing.T) {
	var events []string
	r := NewRegistry()
	if err := r.Register(newFakes(&events, "storage")[0]); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(newFakes(&events, "storage")[0]); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if r.Get("storage") == nil || r.Get("missing") != nil {
		t.Error("unexpected Get results")
	}
}

func TestStartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry()
	for _, c := range newFakes(&events, "telemetry", "storage", "server") {
		_ = r.Register(c)
	}
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	want := "start telemetry,start storage,start server,stop server,stop storage,stop telemetry"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events = %s\nwant     %s", got, want)
	}
}

func TestStartFailureStopsOnlyStarted(t *testing.T) {
	var events []string
	r := NewRegistry()
	fakes := newFakes(&events, "storage", "server", "late")
	fakes[1].startErr = fmt.Errorf("bind: address in use")
	for _, c := range fakes {
		_ = r.Register(c)
	}

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to start server") {
		t.Fatalf("expected server start failure, got %v", err)
	}
	events = events[:0]
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if got := strings.Join(events, ","); got != "stop storage" {
		t.Errorf("expected only storage stopped, got %s", got)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	var events []string
	r := NewRegistry()
	fakes := newFakes(&events, "a", "b")
	fakes[0].stopErr = fmt.Errorf("flush failed")
	fakes[1].stopErr = fmt.Errorf("close failed")
	for _, c := range fakes {
		_ = r.Register(c)
	}
	_ = r.StartAll(context.Background())
	err := r.StopAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "flush failed") || !strings.Contains(err.Error(), "close failed") {
		t.Fatalf("expected both stop errors, got %v", err)
	}
}

func TestHealthAllFillsNames(t *testing.T) {
	var events []string
	r := NewRegistry()
	fakes := newFakes(&events, "storage", "transcription")
	fakes[1].health = Health{Status: StatusDegraded, Message: "circuit open"}
	for _, c := range fakes {
		_ = r.Register(c)
	}
	healths := r.HealthAll(context.Background())
	if len(healths) != 2 || healths[0].Name != "storage" || healths[1].Name != "transcription" {
		t.Fatalf("unexpected health list %+v", healths)
	}
	if Overall(healths) != StatusDegraded {
		t.Errorf("Overall = %s", Overall(healths))
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name string
		in   []HealthStatus
		want HealthStatus
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []HealthStatus{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"degraded", []HealthStatus{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []HealthStatus{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var hs []Health
			for _, s := range tc.in {
				hs = append(hs, Health{Status: s})
			}
			if got := Overall(hs); got != tc.want {
				t.Errorf("Overall = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAllKeepsRegistrationOrder(t *testing.T) {
	var events []string
	r := NewRegistry()
	for _, c := range newFakes(&events, "x", "y", "z") {
		_ = r.Register(c)
	}
	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	if strings.Join(names, "") != "xyz" {
		t.Errorf("All() order = %v", names)
	}
}
