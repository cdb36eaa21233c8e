package build

import "github.com/yaklabco/gojshint/pkg/workspace"

// Mode names the two kinds of traversal.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

// Input selects what a build visits: the whole project, or only the
// resources of one change delta.
type Input struct {
	delta *workspace.Delta
}

// Full visits every resource of the project.
func Full() Input {
	return Input{}
}

// Incremental visits only the resources recorded in delta. A nil delta
// visits nothing.
func Incremental(delta *workspace.Delta) Input {
	if delta == nil {
		delta = &workspace.Delta{}
	}
	return Input{delta: delta}
}

// Mode reports the traversal kind.
func (in Input) Mode() Mode {
	if in.delta == nil {
		return ModeFull
	}
	return ModeIncremental
}

// Delta returns the change tree of an incremental input, nil for Full.
func (in Input) Delta() *workspace.Delta {
	return in.delta
}
