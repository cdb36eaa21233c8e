// Package workspace models the project tree the build visits: projects,
// resources inside them, change deltas and a file system watcher producing
// those deltas.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/gojshint/pkg/fsutil"
)

// ErrNotDirectory is returned when a project root is not a directory.
var ErrNotDirectory = errors.New("project root is not a directory")

// Project is a directory tree checked as one unit.
type Project struct {
	root    string
	name    string
	charset string
}

// OpenProject resolves root to an absolute directory.
func OpenProject(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %s: %w", root, err)
	}

	stat, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", abs, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	return &Project{root: abs, name: filepath.Base(abs), charset: DefaultCharset}, nil
}

// Name is the base name of the project directory.
func (p *Project) Name() string { return p.name }

// Root is the absolute project directory.
func (p *Project) Root() string { return p.root }

// Charset is the encoding file contents are decoded with.
func (p *Project) Charset() string { return p.charset }

// SetCharset changes the content encoding after validating the name.
func (p *Project) SetCharset(name string) error {
	if _, err := LookupCharset(name); err != nil {
		return err
	}
	p.charset = name
	return nil
}

// RootResource returns the project directory itself.
func (p *Project) RootResource() Resource {
	return Resource{project: p}
}

// Resource returns the resource at rel, a slash-separated path relative to
// the project root. The resource need not exist.
func (p *Project) Resource(rel string) Resource {
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." || rel == "/" {
		rel = ""
	}
	return Resource{project: p, rel: strings.TrimPrefix(rel, "/")}
}

// ResourceFor maps an absolute path inside the project to its resource.
func (p *Project) ResourceFor(abs string) (Resource, bool) {
	rel, err := filepath.Rel(p.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Resource{}, false
	}
	return p.Resource(rel), true
}

// Resource is a file or directory in a project, identified by its path.
// It never caches file system state.
type Resource struct {
	project *Project
	rel     string
}

// Project returns the owning project.
func (r Resource) Project() *Project { return r.project }

// Rel is the slash-separated path relative to the project root, "" for the root.
func (r Resource) Rel() string { return r.rel }

// Path is the absolute file system path.
func (r Resource) Path() string {
	return filepath.Join(r.project.root, filepath.FromSlash(r.rel))
}

// Name is the last path element.
func (r Resource) Name() string {
	if r.rel == "" {
		return r.project.name
	}
	return path.Base(r.rel)
}

// Extension is the file extension without the dot.
func (r Resource) Extension() string {
	return strings.TrimPrefix(path.Ext(r.rel), ".")
}

// IsRoot reports whether r is the project directory.
func (r Resource) IsRoot() bool { return r.rel == "" }

// Parent returns the containing directory resource.
func (r Resource) Parent() (Resource, bool) {
	if r.rel == "" {
		return Resource{}, false
	}
	return r.project.Resource(path.Dir(r.rel)), true
}

// Depth is the number of path elements below the root.
func (r Resource) Depth() int {
	if r.rel == "" {
		return 0
	}
	return strings.Count(r.rel, "/") + 1
}

// String implements fmt.Stringer.
func (r Resource) String() string {
	if r.rel == "" {
		return r.project.name + "/"
	}
	return r.project.name + "/" + r.rel
}

// Exists reports whether the resource is on disk.
func (r Resource) Exists() bool {
	_, err := os.Stat(r.Path())
	return err == nil
}

// IsContainer reports whether the resource is an existing directory.
func (r Resource) IsContainer() bool {
	stat, err := os.Stat(r.Path())
	return err == nil && stat.IsDir()
}

// Children lists the members of a container sorted by name.
func (r Resource) Children() ([]Resource, error) {
	entries, err := os.ReadDir(r.Path())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	children := make([]Resource, 0, len(entries))
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		children = append(children, r.project.Resource(path.Join(r.rel, entry.Name())))
	}
	return children, nil
}

// Contents reads the file and decodes it with the project charset.
func (r Resource) Contents(ctx context.Context) (string, *fsutil.FileInfo, error) {
	raw, info, err := fsutil.ReadFile(ctx, r.Path())
	if err != nil {
		return "", nil, err
	}

	text, err := Decode(raw, r.project.charset)
	if err != nil {
		return "", nil, fmt.Errorf("decode %s: %w", r, err)
	}
	return text, info, nil
}
