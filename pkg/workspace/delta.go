package workspace

import (
	"path"
	"sort"
	"strings"
)

// ChangeKind is the change recorded for one resource in a Delta.
type ChangeKind int

const (
	// Unchanged marks a container that only holds changed descendants.
	Unchanged ChangeKind = iota
	// Added marks a new resource.
	Added
	// Removed marks a deleted resource.
	Removed
	// Modified marks changed file content.
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one flat entry used to build a Delta.
type Change struct {
	// Path is slash-separated and relative to the project root.
	Path string
	Kind ChangeKind
}

// Delta is a tree of changes rooted at the project directory. Only nodes on
// the path to a change are present.
type Delta struct {
	Resource Resource
	Kind     ChangeKind
	Children []*Delta
}

// NewDelta builds the delta tree for changes in project. Intermediate
// containers are Unchanged. A later change to the same path replaces an
// earlier one.
func NewDelta(project *Project, changes []Change) *Delta {
	root := &Delta{Resource: project.RootResource()}

	for _, change := range changes {
		rel := project.Resource(change.Path).Rel()
		if rel == "" {
			root.Kind = change.Kind
			continue
		}

		node := root
		parts := strings.Split(rel, "/")
		for i := range parts {
			node = node.child(project, path.Join(parts[:i+1]...))
		}
		node.Kind = change.Kind
	}

	root.sort()
	return root
}

func (d *Delta) child(project *Project, rel string) *Delta {
	for _, existing := range d.Children {
		if existing.Resource.Rel() == rel {
			return existing
		}
	}
	node := &Delta{Resource: project.Resource(rel)}
	d.Children = append(d.Children, node)
	return node
}

func (d *Delta) sort() {
	sort.Slice(d.Children, func(i, j int) bool {
		return d.Children[i].Resource.Rel() < d.Children[j].Resource.Rel()
	})
	for _, child := range d.Children {
		child.sort()
	}
}

// Changes flattens the tree into its recorded changes, in path order.
func (d *Delta) Changes() []Change {
	var out []Change
	d.walk(func(node *Delta) {
		if node.Kind != Unchanged {
			out = append(out, Change{Path: node.Resource.Rel(), Kind: node.Kind})
		}
	})
	return out
}

// Len counts the recorded changes.
func (d *Delta) Len() int {
	n := 0
	d.walk(func(node *Delta) {
		if node.Kind != Unchanged {
			n++
		}
	})
	return n
}

// Removed lists the paths recorded as removed.
func (d *Delta) Removed() []string {
	var out []string
	for _, change := range d.Changes() {
		if change.Kind == Removed {
			out = append(out, change.Path)
		}
	}
	return out
}

func (d *Delta) walk(fn func(*Delta)) {
	fn(d)
	for _, child := range d.Children {
		child.walk(fn)
	}
}
