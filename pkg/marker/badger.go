package marker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/yaklabco/gojshint/internal/kv"
)

const (
	keyPrefix         = "marker/"
	sequenceKey       = "seq/marker"
	sequenceBandwidth = 128
)

var _ Sink = (*BadgerSink)(nil)

// BadgerSink persists markers in a badger database, keyed by resource and a
// creation sequence. The database is owned by the caller.
type BadgerSink struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerSink prepares a sink on db.
func NewBadgerSink(db *badger.DB) (*BadgerSink, error) {
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("marker sequence: %w", err)
	}
	return &BadgerSink{db: db, seq: seq}, nil
}

// Close releases the key sequence. It does not close the database.
func (s *BadgerSink) Close() error {
	if err := s.seq.Release(); err != nil {
		return fmt.Errorf("release marker sequence: %w", err)
	}
	return nil
}

func resourcePrefix(resource string) []byte {
	return []byte(keyPrefix + resource + "\x00")
}

// resourceOf extracts the resource from a marker key.
func resourceOf(key []byte) string {
	rest := bytes.TrimPrefix(key, []byte(keyPrefix))
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		return string(rest[:i])
	}
	return string(rest)
}

// Create implements Sink.
func (s *BadgerSink) Create(ctx context.Context, m Marker) (Marker, error) {
	if err := ctx.Err(); err != nil {
		return Marker{}, err
	}

	n, err := s.seq.Next()
	if err != nil {
		return Marker{}, fmt.Errorf("next marker key: %w", err)
	}

	m.ID = uuid.NewString()
	value, err := json.Marshal(m)
	if err != nil {
		return Marker{}, fmt.Errorf("encode marker: %w", err)
	}

	key := append(resourcePrefix(m.Resource), []byte(fmt.Sprintf("%016x", n))...)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return Marker{}, fmt.Errorf("store marker on %s: %w", m.Resource, err)
	}
	return m, nil
}

// Retract implements Sink.
func (s *BadgerSink) Retract(ctx context.Context, resource string) (int, error) {
	return s.retract(ctx, resourcePrefix(resource), func(string) bool { return true })
}

// RetractTree implements Sink.
func (s *BadgerSink) RetractTree(ctx context.Context, resource string) (int, error) {
	return s.retract(ctx, []byte(keyPrefix+resource), func(key string) bool {
		return under(key, resource)
	})
}

func (s *BadgerSink) retract(ctx context.Context, prefix []byte, match func(string) bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	removed := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		var doomed [][]byte
		err := kv.Scan(txn, prefix, func(key, value []byte) error {
			if !match(resourceOf(key)) {
				return nil
			}
			var m Marker
			if err := json.Unmarshal(value, &m); err != nil {
				return fmt.Errorf("decode marker %s: %w", key, err)
			}
			if m.Type == TypeTag {
				doomed = append(doomed, key)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, key := range doomed {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		removed = len(doomed)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("retract markers: %w", err)
	}
	return removed, nil
}

// List implements Sink.
func (s *BadgerSink) List(ctx context.Context, resource string) ([]Marker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(keyPrefix)
	if resource != "" {
		prefix = resourcePrefix(resource)
	}

	var out []Marker
	err := s.db.View(func(txn *badger.Txn) error {
		return kv.Scan(txn, prefix, func(key, value []byte) error {
			var m Marker
			if err := json.Unmarshal(value, &m); err != nil {
				return fmt.Errorf("decode marker %s: %w", key, err)
			}
			out = append(out, m)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}
		return out[i].Line < out[j].Line
	})
	return out, nil
}
