package build

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gojshint/pkg/marker"
	"github.com/yaklabco/gojshint/pkg/prefs"
	"github.com/yaklabco/gojshint/pkg/workspace"
)

// Target is one project of a multi-project build, with its own sink.
type Target struct {
	Project *workspace.Project
	Sink    marker.Sink

	// Resolver overrides Options.Resolver for this project when set.
	Resolver *prefs.Resolver
}

// RunProjects runs a full build of every target concurrently, each with its
// own Visitor and engine. opts.Sink is replaced by the target's sink. The
// results are in target order; per-project failures are joined into the
// returned error.
func RunProjects(ctx context.Context, targets []Target, opts Options, jobs int) ([]*Result, error) {
	results := make([]*Result, len(targets))
	errs := make([]error, len(targets))

	group, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		group.SetLimit(jobs)
	}

	for i, target := range targets {
		group.Go(func() error {
			projectOpts := opts
			projectOpts.Sink = target.Sink
			projectOpts.Engine = nil
			if target.Resolver != nil {
				projectOpts.Resolver = target.Resolver
			}

			visitor, err := NewVisitor(ctx, target.Project, projectOpts)
			if err != nil {
				// A visitor that cannot be built stops the whole run.
				return fmt.Errorf("prepare %s: %w", target.Project.Name(), err)
			}

			results[i], errs[i] = visitor.Run(ctx, Full())
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}

// Total merges results into one summary.
func Total(results []*Result) *Result {
	total := newResult("", "")
	for _, r := range results {
		if r != nil {
			total.merge(r)
		}
	}
	return total
}

// RetractRemoved deletes the markers of every resource the delta records as
// removed, including everything below removed directories. The visitor
// itself never touches resources that no longer exist.
func RetractRemoved(ctx context.Context, sink marker.Sink, delta *workspace.Delta) (int, error) {
	if delta == nil {
		return 0, nil
	}

	total := 0
	for _, rel := range delta.Removed() {
		n, err := sink.RetractTree(ctx, rel)
		if err != nil {
			return total, fmt.Errorf("retract markers under %s: %w", rel, err)
		}
		total += n
	}
	return total, nil
}
