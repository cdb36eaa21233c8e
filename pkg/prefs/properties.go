package prefs

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/magiconair/properties"
)

// versionKey is the header line of the legacy settings file. It is file
// metadata, not a preference.
const versionKey = "eclipse.preferences.version"

// parseProperties reads a Java properties document: any of '=', ':' or
// whitespace separates key and value, and \uXXXX escapes are decoded.
// ${...} in values is kept literally.
func parseProperties(data []byte) (map[string]string, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", LegacyFileName, err)
	}

	values := make(map[string]string, p.Len())
	for _, key := range p.Keys() {
		if key == "" || key == versionKey {
			continue
		}
		value, _ := p.Get(key)
		values[key] = value
	}
	return values, nil
}

func formatProperties(values map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	p.DisableExpansion = true
	if _, _, err := p.Set(versionKey, "1"); err != nil {
		return nil, err
	}
	for _, key := range keys {
		if _, _, err := p.Set(key, values[key]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
	}

	var b bytes.Buffer
	if _, err := p.Write(&b, properties.UTF8); err != nil {
		return nil, fmt.Errorf("encode %s: %w", LegacyFileName, err)
	}
	return b.Bytes(), nil
}
