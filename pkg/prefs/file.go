package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gojshint/pkg/fsutil"
	"github.com/yaklabco/gojshint/pkg/workspace"
)

const (
	// SettingsDir is the per-project settings directory of FileStore.
	SettingsDir = ".settings"

	// LegacyFileName is the deprecated settings file holding LegacyNamespace.
	LegacyFileName = "gojshint.prefs"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps each namespace in a file under the project's SettingsDir:
// YAML for current namespaces, the line-based key=value format for the
// legacy one.
type FileStore struct{}

// NewFileStore returns a FileStore.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// NamespaceFile is the path FileStore uses for namespace in project.
func NamespaceFile(project *workspace.Project, namespace string) string {
	name := namespace + ".yaml"
	if namespace == LegacyNamespace {
		name = LegacyFileName
	}
	return filepath.Join(project.Root(), SettingsDir, name)
}

func decodeNamespace(namespace string, data []byte) (map[string]string, error) {
	if namespace == LegacyNamespace {
		return parseProperties(data)
	}

	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", namespace, err)
	}
	return values, nil
}

func encodeNamespace(namespace string, values map[string]string) ([]byte, error) {
	if namespace == LegacyNamespace {
		return formatProperties(values)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", namespace, err)
	}
	return data, nil
}

// Read implements Store.
func (s *FileStore) Read(ctx context.Context, project *workspace.Project, namespace string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(NamespaceFile(project, namespace))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", namespace, err)
	}
	return decodeNamespace(namespace, data)
}

// Update implements Store. Changed files are replaced one by one; when any
// write fails the files already written are restored to their prior content.
func (s *FileStore) Update(ctx context.Context, project *workspace.Project, fn func(Txn) error) error {
	tx := &fileTxn{ops: make(map[string]map[string]*string)}
	if err := fn(tx); err != nil {
		return err
	}

	namespaces := make([]string, 0, len(tx.ops))
	for namespace := range tx.ops {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)

	type original struct {
		path    string
		data    []byte
		existed bool
	}
	var written []original

	rollback := func() {
		for i := len(written) - 1; i >= 0; i-- {
			o := written[i]
			if o.existed {
				_ = fsutil.WriteAtomic(context.WithoutCancel(ctx), o.path, o.data, 0)
			} else {
				_ = fsutil.RemoveIfExists(o.path)
			}
		}
	}

	for _, namespace := range namespaces {
		path := NamespaceFile(project, namespace)

		data, err := os.ReadFile(path)
		existed := err == nil
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			rollback()
			return fmt.Errorf("read %s: %w", namespace, err)
		}

		values := map[string]string{}
		if existed {
			if values, err = decodeNamespace(namespace, data); err != nil {
				rollback()
				return err
			}
		}
		for key, value := range tx.ops[namespace] {
			if value == nil {
				delete(values, key)
			} else {
				values[key] = *value
			}
		}

		written = append(written, original{path: path, data: data, existed: existed})

		if len(values) == 0 {
			err = fsutil.RemoveIfExists(path)
		} else {
			var encoded []byte
			if encoded, err = encodeNamespace(namespace, values); err == nil {
				err = fsutil.WriteAtomic(ctx, path, encoded, 0)
			}
		}
		if err != nil {
			rollback()
			return fmt.Errorf("write %s: %w", namespace, err)
		}
	}

	return nil
}

type fileTxn struct {
	ops map[string]map[string]*string
}

func (t *fileTxn) namespace(namespace string) map[string]*string {
	ops, ok := t.ops[namespace]
	if !ok {
		ops = make(map[string]*string)
		t.ops[namespace] = ops
	}
	return ops
}

func (t *fileTxn) Set(namespace, key, value string) {
	t.namespace(namespace)[key] = &value
}

func (t *fileTxn) Delete(namespace, key string) {
	t.namespace(namespace)[key] = nil
}
