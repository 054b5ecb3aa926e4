package memstore

import (
	"context"
	"sync"

	"github.com/baker339/DOGR/internal/models"
	"github.com/baker339/DOGR/internal/repositories"
)

var _ repositories.TallyRepository = (*Tallies)(nil)

// Tallies is an in-memory TallyRepository keyed by bucket then user.
type Tallies struct {
	mu      sync.Mutex
	buckets map[string]map[string]int64
	Err     error
}

// NewTallies returns an empty aggregate.
func NewTallies() *Tallies {
	return &Tallies{buckets: map[string]map[string]int64{}}
}

func (t *Tallies) Apply(ctx context.Context, userID string, buckets []string, delta int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	for _, b := range buckets {
		if t.buckets[b] == nil {
			t.buckets[b] = map[string]int64{}
		}
		t.buckets[b][userID] += delta
	}
	return nil
}

func (t *Tallies) Totals(ctx context.Context, bucket string) (map[string]int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	out := map[string]int64{}
	for u, n := range t.buckets[bucket] {
		out[u] = n
	}
	return out, nil
}

func (t *Tallies) Replace(ctx context.Context, tallies []models.ConsumptionTally) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	t.buckets = map[string]map[string]int64{}
	for _, row := range tallies {
		if t.buckets[row.Bucket] == nil {
			t.buckets[row.Bucket] = map[string]int64{}
		}
		t.buckets[row.Bucket][row.UserID] += row.Total
	}
	return nil
}

// SeenSet is an in-memory feed session store.
type SeenSet struct {
	mu   sync.Mutex
	sets map[string][]string
}

// NewSeenSet returns an empty session store.
func NewSeenSet() *SeenSet {
	return &SeenSet{sets: map[string][]string{}}
}

func (s *SeenSet) Seen(ctx context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.sets[key]...), nil
}

func (s *SeenSet) Remember(ctx context.Context, key string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.sets[key] = addTo(s.sets[key], id)
	}
	return nil
}
