package resolver

import (
	"context"
	"sync"
)

// countingStore wraps MemoryStore, counting calls and optionally failing.
type countingStore struct {
	*MemoryStore
	mu      sync.Mutex
	gets    int
	sets    int
	deletes int
	getErr  error
	setErr  error
	delErr  error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore()}
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	s.gets++
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return nil, false, err
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.sets++
	err := s.setErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deletes++
	err := s.delErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Delete(ctx, key)
}

func (s *countingStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets + s.sets + s.deletes
}

// fakeDiscovery answers from a fixed map keyed by "namespace/service".
type fakeDiscovery struct {
	mu      sync.Mutex
	answers map[string][]string
	err     error
	lookups int
}

func newFakeDiscovery(answers map[string][]string) *fakeDiscovery {
	if answers == nil {
		answers = map[string][]string{}
	}
	return &fakeDiscovery{answers: answers}
}

func (d *fakeDiscovery) LookupHealthyAddresses(_ context.Context, namespace, service string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups++
	if d.err != nil {
		return nil, d.err
	}
	return append([]string(nil), d.answers[namespace+"/"+service]...), nil
}

func (d *fakeDiscovery) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookups
}
