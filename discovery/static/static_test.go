package static

import (
	"context"
	"testing"

	"github.com/kbukum/locus/discovery"
	"github.com/kbukum/locus/logger"
)

func TestProvider_Lookup(t *testing.T) {
	p := NewProvider([]discovery.StaticEndpoint{
		{Namespace: "dimi", Service: "back", URLs: []string{"http://a"}},
		{Namespace: "dimi", Service: "back", URLs: []string{"http://b"}},
		{Namespace: "other", Service: "back", URLs: []string{"http://c"}},
	})
	ctx := context.Background()

	got, err := p.LookupHealthyAddresses(ctx, "dimi", "back")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("unexpected addresses %v", got)
	}

	got, _ = p.LookupHealthyAddresses(ctx, "other", "back")
	if len(got) != 1 || got[0] != "http://c" {
		t.Fatalf("unexpected addresses %v", got)
	}
}

func TestProvider_UnknownServiceIsEmpty(t *testing.T) {
	p := NewProvider(nil)
	got, err := p.LookupHealthyAddresses(context.Background(), "dimi", "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestProvider_ReturnsCopies(t *testing.T) {
	p := NewProvider(nil)
	urls := []string{"http://a"}
	p.Set("dimi", "back", urls)
	urls[0] = "http://mutated"

	got, _ := p.LookupHealthyAddresses(context.Background(), "dimi", "back")
	got[0] = "http://also-mutated"

	again, _ := p.LookupHealthyAddresses(context.Background(), "dimi", "back")
	if again[0] != "http://a" {
		t.Fatalf("provider state leaked: %v", again)
	}

	p.Remove("dimi", "back")
	if got, _ := p.LookupHealthyAddresses(context.Background(), "dimi", "back"); len(got) != 0 {
		t.Fatalf("expected removal, got %v", got)
	}
}

func TestRegisteredFactory(t *testing.T) {
	comp := discovery.NewComponent(discovery.Config{
		StaticEndpoints: []discovery.StaticEndpoint{{Namespace: "dimi", Service: "back", URLs: []string{"http://a"}}},
	}, nil, logger.NewNop())
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer comp.Stop(context.Background())

	got, err := comp.Discovery().LookupHealthyAddresses(context.Background(), "dimi", "back")
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected lookup result %v, %v", got, err)
	}
}
