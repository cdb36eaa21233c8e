package workspace

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCharset is used when no charset is configured.
const DefaultCharset = "UTF-8"

// ErrCharset reports an unknown or unsupported charset name.
var ErrCharset = errors.New("unsupported charset")

// LookupCharset resolves an IANA charset name or alias. Names the IANA
// registry does not know, such as utf8 or latin1, are tried against the
// WHATWG labels.
func LookupCharset(name string) (encoding.Encoding, error) {
	enc, ianaErr := ianaindex.IANA.Encoding(name)
	if ianaErr == nil && enc != nil {
		return enc, nil
	}

	enc, err := htmlindex.Get(name)
	if err == nil && enc != nil {
		return enc, nil
	}
	if ianaErr != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrCharset, name, ianaErr)
	}
	return nil, fmt.Errorf("%w: %q", ErrCharset, name)
}

// Decode converts raw file bytes in the named charset to a string.
func Decode(raw []byte, charset string) (string, error) {
	enc, err := LookupCharset(charset)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		return string(raw), nil
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", charset, err)
	}
	return string(decoded), nil
}
