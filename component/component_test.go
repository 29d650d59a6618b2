package component

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/kbukum/locus/logger"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	calls    *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.calls != nil {
		*m.calls = append(*m.calls, "start:"+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.calls != nil {
		*m.calls = append(*m.calls, "stop:"+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "cache", Details: "memory"}
}

func newTestRegistry() *Registry {
	return NewRegistry(logger.NewNop())
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRegistry()
	if err := r.Register(&mockComponent{name: "cache"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "cache"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGetAndAll(t *testing.T) {
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "cache"})
	_ = r.Register(&mockComponent{name: "discovery"})

	if got := r.Get("cache"); got == nil || got.Name() != "cache" {
		t.Fatalf("Get(cache) = %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}

	all := r.All()
	if len(all) != 2 || all[0].Name() != "cache" || all[1].Name() != "discovery" {
		t.Errorf("unexpected order %v", all)
	}
}

func TestStartStopOrder(t *testing.T) {
	var calls []string
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "cache", calls: &calls})
	_ = r.Register(&describedComponent{mockComponent{name: "discovery", calls: &calls}})
	_ = r.Register(&mockComponent{name: "server", calls: &calls})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{"start:cache", "start:discovery", "start:server", "stop:server", "stop:discovery", "stop:cache"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestStartFailureStopsStarted(t *testing.T) {
	var calls []string
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "cache", calls: &calls})
	_ = r.Register(&mockComponent{name: "discovery", calls: &calls, startErr: stderrors.New("no consul")})
	_ = r.Register(&mockComponent{name: "server", calls: &calls})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Fatal("expected start error")
	}

	want := []string{"start:cache", "start:discovery", "stop:cache"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}

	// Nothing left running, so a later StopAll is a no-op.
	calls = nil
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("expected no stop calls, got %v", calls)
	}
}

func TestStopAllCollectsErrors(t *testing.T) {
	stopErr := stderrors.New("close failed")
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "cache", stopErr: stopErr})
	_ = r.Register(&mockComponent{name: "server"})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	err := r.StopAll(context.Background())
	if !stderrors.Is(err, stopErr) {
		t.Errorf("expected joined stop error, got %v", err)
	}
}

func TestHealthAllAndOverall(t *testing.T) {
	r := newTestRegistry()
	_ = r.Register(&mockComponent{name: "cache", health: Health{Name: "cache", Status: StatusHealthy}})
	_ = r.Register(&mockComponent{name: "discovery", health: Health{Name: "discovery", Status: StatusDegraded}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if got := Overall(results); got != StatusDegraded {
		t.Errorf("Overall = %s, want degraded", got)
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
			hs := make([]Health, len(tc.in))
			for i, s := range tc.in {
				hs[i] = Health{Status: s}
			}
			if got := Overall(hs); got != tc.want {
				t.Errorf("Overall = %s, want %s", got, tc.want)
			}
		})
	}
}
