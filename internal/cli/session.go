package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gojshint/internal/kv"
	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/pkg/fsutil"
	"github.com/yaklabco/gojshint/pkg/marker"
	"github.com/yaklabco/gojshint/pkg/prefs"
	"github.com/yaklabco/gojshint/pkg/workspace"
)

// Preference store names accepted by --prefs-store.
const (
	StoreFile   = "file"
	StoreBadger = "badger"
)

// ErrStore reports an unknown --prefs-store value.
var ErrStore = errors.New("unknown preference store")

// projectFlags are shared by every command that opens projects.
type projectFlags struct {
	db         string
	prefsStore string
}

func addProjectFlags(cmd *cobra.Command, flags *projectFlags) {
	cmd.Flags().StringVar(&flags.db, "db", "",
		"marker database directory (default: per project, under the user cache directory)")
	cmd.Flags().StringVar(&flags.prefsStore, "prefs-store", StoreFile,
		"where project preferences live: file (.settings in the project) or badger (marker database)")
}

func (f *projectFlags) validate(projects int) error {
	if f.prefsStore != StoreFile && f.prefsStore != StoreBadger {
		return usageError(fmt.Errorf("%w: %q (expected %s or %s)", ErrStore, f.prefsStore, StoreFile, StoreBadger))
	}
	if f.db != "" && projects > 1 {
		return usageErrorf("--db can only be used with a single project")
	}
	return nil
}

// session holds the persistent state of one project for one command.
type session struct {
	project  *workspace.Project
	db       *badger.DB
	sink     *marker.BadgerSink
	resolver *prefs.Resolver
}

// DefaultDatabasePath returns the marker database directory of the project
// rooted at root, keyed by a fingerprint of the root path so that distinct
// checkouts never share markers.
func DefaultDatabasePath(root string) (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache directory: %w", err)
	}
	name := fmt.Sprintf("%s-%016x", filepath.Base(root), fsutil.Fingerprint([]byte(root)))
	return filepath.Join(cache, "gojshint", name), nil
}

// openProjects resolves the project arguments, defaulting to the working
// directory. Every argument is validated before any is used.
func openProjects(args []string) ([]*workspace.Project, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	projects := make([]*workspace.Project, 0, len(args))
	for _, arg := range args {
		project, err := workspace.OpenProject(arg)
		if err != nil {
			return nil, usageError(err)
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func openSession(ctx context.Context, project *workspace.Project, flags *projectFlags) (*session, error) {
	logger := logging.FromContext(ctx)

	path := flags.db
	if path == "" {
		var err error
		if path, err = DefaultDatabasePath(project.Root()); err != nil {
			return nil, err
		}
	}

	db, err := kv.OpenPath(path, logger.WithPrefix("badger"))
	if err != nil {
		return nil, fmt.Errorf("open marker database of %s: %w", project.Name(), err)
	}

	sink, err := marker.NewBadgerSink(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var store prefs.Store = prefs.NewFileStore()
	if flags.prefsStore == StoreBadger {
		store = prefs.NewBadgerStore(db)
	}

	logger.Debug("session opened",
		logging.FieldProject, project.Name(),
		logging.FieldDatabase, path)

	return &session{
		project:  project,
		db:       db,
		sink:     sink,
		resolver: prefs.NewResolver(store),
	}, nil
}

func (s *session) Close() error {
	return errors.Join(s.sink.Close(), s.db.Close())
}
