package engine

import (
	"bytes"
	_ "embed"
	"io"
)

//go:embed assets/jshint.js
var bundledScript []byte

// BundledName identifies the embedded engine in errors and logs.
const BundledName = "bundled"

// Bundled returns a reader over the embedded engine script.
func Bundled() io.Reader {
	return bytes.NewReader(bundledScript)
}
