package marker

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var _ Sink = (*MemorySink)(nil)

// MemorySink keeps markers in memory.
type MemorySink struct {
	mu      sync.Mutex
	markers map[string][]Marker
}

// NewMemorySink returns an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{markers: make(map[string][]Marker)}
}

// Create implements Sink.
func (s *MemorySink) Create(ctx context.Context, m Marker) (Marker, error) {
	if err := ctx.Err(); err != nil {
		return Marker{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = uuid.NewString()
	s.markers[m.Resource] = append(s.markers[m.Resource], m)
	return m, nil
}

// Retract implements Sink.
func (s *MemorySink) Retract(ctx context.Context, resource string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.retract(resource), nil
}

// RetractTree implements Sink.
func (s *MemorySink) RetractTree(ctx context.Context, resource string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key := range s.markers {
		if under(key, resource) {
			n += s.retract(key)
		}
	}
	return n, nil
}

func (s *MemorySink) retract(resource string) int {
	kept := s.markers[resource][:0]
	removed := 0
	for _, m := range s.markers[resource] {
		if m.Type == TypeTag {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		delete(s.markers, resource)
	} else {
		s.markers[resource] = kept
	}
	return removed
}

// List implements Sink.
func (s *MemorySink) List(ctx context.Context, resource string) ([]Marker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Marker
	if resource != "" {
		out = append(out, s.markers[resource]...)
	} else {
		keys := make([]string, 0, len(s.markers))
		for key := range s.markers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			out = append(out, s.markers[key]...)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}
		return out[i].Line < out[j].Line
	})
	return out, nil
}
