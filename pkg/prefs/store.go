package prefs

import (
	"context"
	"fmt"

	"github.com/yaklabco/gojshint/pkg/workspace"
)

// Store is the persisted key/value backend, partitioned by project and
// namespace.
type Store interface {
	// Read returns every key of namespace for project. A namespace with no
	// keys yields an empty map and no error.
	Read(ctx context.Context, project *workspace.Project, namespace string) (map[string]string, error)

	// Update runs fn and commits its writes atomically: either all of them
	// persist or none do.
	Update(ctx context.Context, project *workspace.Project, fn func(Txn) error) error
}

// Txn collects the writes of one Store.Update.
type Txn interface {
	Set(namespace, key, value string)
	Delete(namespace, key string)
}

// PersistenceError reports an unavailable or unreadable store.
type PersistenceError struct {
	Project string
	Op      string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("preferences of %s: %s: %v", e.Project, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// MigrationError reports a failed legacy-to-current migration. The legacy
// data is left in place and the migration is retried on the next load.
type MigrationError struct {
	Project string
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migrate legacy preferences of %s: %v", e.Project, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}
