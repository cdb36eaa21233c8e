package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojshint/pkg/config"
)

func TestDecodeLegacy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		values       map[string]string
		wantEnabled  bool
		wantExcludes []string
		wantOptions  []config.Entry
		wantGlobals  []config.Entry
		wantWarnings int
	}{
		{
			name:        "empty",
			values:      map[string]string{},
			wantEnabled: true,
		},
		{
			name: "full",
			values: map[string]string{
				KeyEnabled:          "false",
				KeyExcludes:         "lib/**, vendor/*.js,,",
				KeyOptions:          "undef: true, browser: false",
				LegacyKeyPredefined: "org: true,  jQuery: false",
			},
			wantEnabled:  false,
			wantExcludes: []string{"lib/**", "vendor/*.js"},
			wantOptions:  []config.Entry{{Name: "undef", Value: true}, {Name: "browser", Value: false}},
			wantGlobals:  []config.Entry{{Name: "org", Value: true}, {Name: "jQuery", Value: false}},
		},
		{
			name: "duplicates keep first",
			values: map[string]string{
				KeyExcludes:         "a,b,a",
				KeyOptions:          "undef: true, undef: false",
				LegacyKeyPredefined: "org: false, org: true",
			},
			wantEnabled:  true,
			wantExcludes: []string{"a", "b"},
			wantOptions:  []config.Entry{{Name: "undef", Value: true}},
			wantGlobals:  []config.Entry{{Name: "org", Value: false}},
			wantWarnings: 2,
		},
		{
			name: "malformed pairs skipped",
			values: map[string]string{
				KeyEnabled: "maybe",
				KeyOptions: "undef, eqeqeq: yes, : true, bitwise: true",
			},
			wantEnabled:  true,
			wantOptions:  []config.Entry{{Name: "bitwise", Value: true}},
			wantWarnings: 4,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			prefs, warnings := decodeLegacy(testCase.values)

			assert.Equal(t, LegacySchemaVersion, prefs.SchemaVersion)
			assert.Equal(t, testCase.wantEnabled, prefs.Enabled)
			assert.Equal(t, testCase.wantExcludes, nilIfEmpty(prefs.Excludes))
			assert.Equal(t, testCase.wantOptions, prefs.Configuration.Options())
			assert.Equal(t, testCase.wantGlobals, prefs.Configuration.Globals())
			assert.Len(t, warnings, testCase.wantWarnings)
		})
	}
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

func TestCurrentRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	require.NoError(t, cfg.AddGlobal("org", true))
	require.NoError(t, cfg.AddOption("undef", true))
	require.NoError(t, cfg.AddOption("bitwise", false))

	prefs := Defaults().WithEnabled(false).WithExcludes([]string{"bin/**", "gen"}).WithConfiguration(cfg)

	values, err := encodeCurrent(prefs)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, values[KeySchema])
	assert.Equal(t, `["bin/**","gen"]`, values[KeyExcludes])
	assert.Equal(t, `[{"name":"org","value":true}]`, values[KeyGlobals])

	decoded, err := decodeCurrent(values)
	require.NoError(t, err)
	assert.True(t, prefs.Equal(decoded))
	assert.Equal(t, SchemaVersion, decoded.SchemaVersion)
}

func TestDecodeCurrent_InvalidFieldsKeepDefaults(t *testing.T) {
	t.Parallel()

	prefs, err := decodeCurrent(map[string]string{
		KeyEnabled:  "nope",
		KeyExcludes: "not json",
		KeyOptions:  `[{"name":"undef","value":true},{"name":"undef","value":false}]`,
		KeySchema:   SchemaVersion,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrDuplicateKey)
	assert.True(t, prefs.Enabled)
	assert.Empty(t, prefs.Excludes)
	assert.True(t, prefs.Configuration.IsEmpty())
}

func TestEncodeCurrent_EmptyListsAreArrays(t *testing.T) {
	t.Parallel()

	values, err := encodeCurrent(Defaults())
	require.NoError(t, err)
	assert.Equal(t, "[]", values[KeyExcludes])
	assert.Equal(t, "[]", values[KeyOptions])
	assert.Equal(t, "[]", values[KeyGlobals])
	assert.Equal(t, "true", values[KeyEnabled])
}
