// Package fsutil provides the file system primitives shared by the build and
// preference layers: content fingerprints, change detection and atomic writes.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/minio/highwayhash"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// fingerprintKey is fixed so fingerprints are comparable across processes.
var fingerprintKey = []byte("gojshint-content-fingerprint-v1!") //nolint:gochecknoglobals // constant key

// Fingerprint returns the 64-bit HighwayHash of content.
func Fingerprint(content []byte) uint64 {
	return highwayhash.Sum64(content, fingerprintKey)
}

// FileInfo captures what was read from a file so later reads can tell
// whether its content changed.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Fingerprint is the content hash, see Fingerprint.
	Fingerprint uint64
}

// ReadFile reads a file and returns its content along with metadata.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &FileInfo{
		Path:        path,
		Mode:        stat.Mode(),
		ModTime:     stat.ModTime(),
		Size:        stat.Size(),
		Fingerprint: Fingerprint(content),
	}, nil
}

// Changed reports whether the file behind info has different content now.
// A deleted file counts as changed. Size or mtime differences alone are not
// enough: editors that rewrite identical bytes produce no change.
func Changed(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check changed: %w", err)
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}
	if stat.Size() != info.Size {
		return true, nil
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, classify(info.Path, err)
	}

	return Fingerprint(content) != info.Fingerprint, nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
