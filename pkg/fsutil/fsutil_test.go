package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gojshint/pkg/fsutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := fsutil.Fingerprint([]byte("var a = 1;"))
	b := fsutil.Fingerprint([]byte("var a = 1;"))
	c := fsutil.Fingerprint([]byte("var a = 2;"))

	if a != b {
		t.Errorf("same content gave %x and %x", a, b)
	}
	if a == c {
		t.Errorf("different content gave equal fingerprint %x", a)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "app.js")
		writeFile(t, path, "var a = 1;\n")

		got, info, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "var a = 1;\n" {
			t.Errorf("content = %q", got)
		}
		if info.Path != path {
			t.Errorf("Path = %q, want %q", info.Path, path)
		}
		if info.Size != int64(len(got)) {
			t.Errorf("Size = %d, want %d", info.Size, len(got))
		}
		if info.Fingerprint != fsutil.Fingerprint(got) {
			t.Errorf("Fingerprint = %x, want %x", info.Fingerprint, fsutil.Fingerprint(got))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "absent.js"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("error = %v, want ErrIsDirectory", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.ReadFile(ctx, filepath.Join(t.TempDir(), "app.js"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestChanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(t *testing.T, path string)
		want   bool
	}{
		{
			name:   "untouched",
			mutate: func(*testing.T, string) {},
			want:   false,
		},
		{
			name:   "same bytes rewritten",
			mutate: func(t *testing.T, path string) { writeFile(t, path, "var a = 1;\n") },
			want:   false,
		},
		{
			name:   "same size different content",
			mutate: func(t *testing.T, path string) { writeFile(t, path, "var b = 1;\n") },
			want:   true,
		},
		{
			name:   "grown",
			mutate: func(t *testing.T, path string) { writeFile(t, path, "var a = 1;\nvar b;\n") },
			want:   true,
		},
		{
			name: "deleted",
			mutate: func(t *testing.T, path string) {
				if err := os.Remove(path); err != nil {
					t.Fatal(err)
				}
			},
			want: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "app.js")
			writeFile(t, path, "var a = 1;\n")

			_, info, err := fsutil.ReadFile(context.Background(), path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}

			testCase.mutate(t, path)

			got, err := fsutil.Changed(context.Background(), info)
			if err != nil {
				t.Fatalf("Changed() error = %v", err)
			}
			if got != testCase.want {
				t.Errorf("Changed() = %v, want %v", got, testCase.want)
			}
		})
	}

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.Changed(context.Background(), nil); !errors.Is(err, fsutil.ErrNilFileInfo) {
			t.Errorf("error = %v, want ErrNilFileInfo", err)
		}
	})
}
