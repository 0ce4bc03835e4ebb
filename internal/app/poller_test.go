package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/five82/songrater/internal/resource"
	"github.com/five82/songrater/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 80; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type stubRemote struct {
	mu    sync.Mutex
	items map[string][]resource.Entity
	fail  map[string]error
	calls map[string]int
}

func (s *stubRemote) List(_ context.Context, schema resource.Schema) ([]resource.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[schema.Name]++
	if err := s.fail[schema.Name]; err != nil {
		return nil, err
	}
	return s.items[schema.Name], nil
}

func (s *stubRemote) Create(context.Context, resource.Schema, resource.Entity) (resource.Entity, error) {
	return resource.Entity{}, errors.New("not implemented")
}

func (s *stubRemote) Update(context.Context, resource.Schema, resource.Entity) (resource.Entity, error) {
	return resource.Entity{}, errors.New("not implemented")
}

func (s *stubRemote) Delete(context.Context, resource.Schema, resource.Entity) error {
	return errors.New("not implemented")
}

func (s *stubRemote) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func TestRefreshRecordsEveryCollection(t *testing.T) {
	boom := errors.New("boom")
	remote := &stubRemote{
		items: map[string][]resource.Entity{
			"users": {resource.NewEntity(map[string]any{"username": "ann"}).WithID(1)},
		},
		fail: map[string]error{"artists": boom},
	}
	store := &state.Store{}

	err := refresh(context.Background(), store, remote, resource.Builtin(), slog.New(slog.DiscardHandler))
	if !errors.Is(err, boom) {
		t.Fatalf("refresh error = %v, want boom", err)
	}

	users := store.Snapshot("users")
	if !users.Loaded || len(users.Items) != 1 {
		t.Fatalf("users snapshot = %+v, want one loaded item", users)
	}
	artists := store.Snapshot("artists")
	if artists.Loaded || artists.LastError == nil {
		t.Fatalf("artists snapshot = %+v, want recorded error", artists)
	}
}

// hangingRemote blocks every List until the caller gives up.
type hangingRemote struct{ stubRemote }

func (h *hangingRemote) List(ctx context.Context, _ resource.Schema) ([]resource.Entity, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPreloadGivesUpOnHungAPI(t *testing.T) {
	store := &state.Store{}

	start := time.Now()
	preload(context.Background(), store, &hangingRemote{}, resource.Builtin(), slog.New(slog.DiscardHandler))
	elapsed := time.Since(start)

	if elapsed > preloadTimeout+time.Second {
		t.Fatalf("preload took %v, want about %v", elapsed, preloadTimeout)
	}
	for _, s := range resource.Builtin() {
		snap := store.Snapshot(s.Name)
		if snap.Loaded || snap.LastError != nil {
			t.Fatalf("%s snapshot = %+v, want untouched so the view loads on mount", s.Name, snap)
		}
	}
}

func TestPreloadFillsStore(t *testing.T) {
	remote := &stubRemote{
		items: map[string][]resource.Entity{
			"artists": {resource.NewEntity(map[string]any{"artist": "Nina"}).WithID(2)},
		},
	}
	store := &state.Store{}

	preload(context.Background(), store, remote, resource.Builtin(), slog.New(slog.DiscardHandler))

	if snap := store.Snapshot("artists"); !snap.Loaded || len(snap.Items) != 1 {
		t.Fatalf("artists snapshot = %+v, want one loaded item", snap)
	}
}

func TestStartPollerRefreshesUntilCancelled(t *testing.T) {
	remote := &stubRemote{}
	store := &state.Store{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, store, remote, resource.Builtin(), 5*time.Millisecond, slog.New(slog.DiscardHandler))

	deadline := time.Now().Add(2 * time.Second)
	for remote.callCount("users") < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 2", remote.callCount("users"))
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if !store.Snapshot("artists").Loaded {
		t.Fatal("artists were not refreshed")
	}
}

func TestStartPollerDisabled(t *testing.T) {
	remote := &stubRemote{}
	StartPoller(context.Background(), &state.Store{}, remote, resource.Builtin(), 0, slog.New(slog.DiscardHandler))
	time.Sleep(20 * time.Millisecond)
	if n := remote.callCount("users"); n != 0 {
		t.Fatalf("disabled poller made %d calls", n)
	}
}
