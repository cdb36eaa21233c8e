package prefs

import (
	"context"
	"fmt"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/pkg/workspace"
)

// Resolver loads project preferences from a Store. It holds no per-project
// state; callers cache the returned snapshot for as long as it must stay
// fixed.
type Resolver struct {
	store Store
}

// NewResolver returns a resolver over store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Load resolves the preferences of project.
//
// Current-schema data wins. Legacy data is used when no current data
// exists, and is migrated to the current namespace in one store transaction.
// Store and migration failures are logged and never returned: the caller
// gets defaults or the in-memory legacy values instead. Only a cancelled ctx
// produces an error.
func (r *Resolver) Load(ctx context.Context, project *workspace.Project) (*ProjectPreferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	logger := logging.FromContext(ctx).With(logging.FieldProject, project.Name())

	current, err := r.store.Read(ctx, project, Namespace)
	if err != nil {
		logger.Warn("preferences unavailable, using defaults",
			logging.FieldError, &PersistenceError{Project: project.Name(), Op: "read " + Namespace, Err: err})
		return Defaults(), nil
	}
	if len(current) > 0 {
		prefs, err := decodeCurrent(current)
		if err != nil {
			logger.Warn("ignoring invalid preference values",
				logging.FieldNamespace, Namespace, logging.FieldError, err)
		}
		return prefs, nil
	}

	legacy, err := r.store.Read(ctx, project, LegacyNamespace)
	if err != nil {
		logger.Warn("legacy preferences unavailable, using defaults",
			logging.FieldError, &PersistenceError{Project: project.Name(), Op: "read " + LegacyNamespace, Err: err})
		return Defaults(), nil
	}
	if len(legacy) == 0 {
		return Defaults(), nil
	}

	prefs, warnings := decodeLegacy(legacy)
	for _, warning := range warnings {
		logger.Warn("legacy preference entry", logging.FieldNamespace, LegacyNamespace, logging.FieldError, warning)
	}

	if err := r.migrate(ctx, project, prefs, legacy); err != nil {
		logger.Error("preference migration failed, using legacy values for this session",
			logging.FieldError, err)
		return prefs, nil
	}

	logger.Info("migrated legacy preferences",
		logging.FieldNamespace, Namespace, logging.FieldSchema, SchemaVersion)

	migrated := prefs.clone()
	migrated.SchemaVersion = SchemaVersion
	return migrated, nil
}

// migrate writes prefs in the current schema and deletes every legacy key in
// one transaction. Legacy keys the current schema does not know are copied
// verbatim.
func (r *Resolver) migrate(ctx context.Context, project *workspace.Project, prefs *ProjectPreferences, legacy map[string]string) error {
	values, err := encodeCurrent(prefs)
	if err != nil {
		return &MigrationError{Project: project.Name(), Err: err}
	}

	err = r.store.Update(ctx, project, func(tx Txn) error {
		replaceLegacy(tx, legacy, values)
		return nil
	})
	if err != nil {
		return &MigrationError{Project: project.Name(), Err: err}
	}
	return nil
}

// replaceLegacy writes values to the current namespace and deletes every
// legacy key. Legacy keys the current schema does not know are copied first.
func replaceLegacy(tx Txn, legacy, values map[string]string) {
	for key, value := range legacy {
		if !isLegacySchemaKey(key) {
			tx.Set(Namespace, key, value)
		}
	}
	for key, value := range values {
		tx.Set(Namespace, key, value)
	}
	for key := range legacy {
		tx.Delete(LegacyNamespace, key)
	}
}

func isLegacySchemaKey(key string) bool {
	switch key {
	case KeyEnabled, KeyExcludes, KeyOptions, LegacyKeyPredefined:
		return true
	default:
		return false
	}
}

// Save stores prefs in the current schema, replacing earlier values. Legacy
// keys still stored are removed in the same transaction.
func (r *Resolver) Save(ctx context.Context, project *workspace.Project, prefs *ProjectPreferences) error {
	values, err := encodeCurrent(prefs)
	if err != nil {
		return err
	}

	legacy, err := r.store.Read(ctx, project, LegacyNamespace)
	if err != nil {
		return &PersistenceError{Project: project.Name(), Op: "read " + LegacyNamespace, Err: err}
	}

	err = r.store.Update(ctx, project, func(tx Txn) error {
		replaceLegacy(tx, legacy, values)
		return nil
	})
	if err != nil {
		return &PersistenceError{Project: project.Name(), Op: "save", Err: err}
	}
	return nil
}

// Raw returns the stored key/values of both namespaces, for inspection.
func (r *Resolver) Raw(ctx context.Context, project *workspace.Project) (current, legacy map[string]string, err error) {
	current, err = r.store.Read(ctx, project, Namespace)
	if err != nil {
		return nil, nil, &PersistenceError{Project: project.Name(), Op: "read " + Namespace, Err: err}
	}
	legacy, err = r.store.Read(ctx, project, LegacyNamespace)
	if err != nil {
		return nil, nil, &PersistenceError{Project: project.Name(), Op: "read " + LegacyNamespace, Err: err}
	}
	return current, legacy, nil
}
