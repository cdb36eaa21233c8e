package prefs

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/yaklabco/gojshint/internal/kv"
	"github.com/yaklabco/gojshint/pkg/workspace"
)

var _ Store = (*BadgerStore)(nil)

// BadgerStore keeps preferences of any number of projects in one badger
// database, keyed by project root, namespace and key.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore uses db, which stays owned by the caller.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func namespacePrefix(project *workspace.Project, namespace string) []byte {
	return []byte("prefs/" + project.Root() + "\x00" + namespace + "\x00")
}

// Read implements Store.
func (s *BadgerStore) Read(ctx context.Context, project *workspace.Project, namespace string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := namespacePrefix(project, namespace)
	values := make(map[string]string)
	err := s.db.View(func(txn *badger.Txn) error {
		return kv.Scan(txn, prefix, func(key, value []byte) error {
			values[string(key[len(prefix):])] = string(value)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", namespace, err)
	}
	return values, nil
}

// Update implements Store.
func (s *BadgerStore) Update(ctx context.Context, project *workspace.Project, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		tx := &badgerTxn{txn: txn, project: project}
		if err := fn(tx); err != nil {
			return err
		}
		return tx.err
	})
}

type badgerTxn struct {
	txn     *badger.Txn
	project *workspace.Project
	err     error
}

func (t *badgerTxn) key(namespace, key string) []byte {
	return append(namespacePrefix(t.project, namespace), key...)
}

func (t *badgerTxn) Set(namespace, key, value string) {
	if t.err != nil {
		return
	}
	if err := t.txn.Set(t.key(namespace, key), []byte(value)); err != nil {
		t.err = fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
}

func (t *badgerTxn) Delete(namespace, key string) {
	if t.err != nil {
		return
	}
	if err := t.txn.Delete(t.key(namespace, key)); err != nil {
		t.err = fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
}
