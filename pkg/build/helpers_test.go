package build_test

import (
	"testing"

	"github.com/yaklabco/gojshint/pkg/build"
	"github.com/yaklabco/gojshint/pkg/lint"
)

func lintProblem() lint.Diagnostic {
	return lint.Diagnostic{Line: 1, Character: 1, Offset: 0, Message: "problem", Code: "W000"}
}

func findOutcome(t *testing.T, result *build.Result, resource string) build.FileOutcome {
	t.Helper()

	for _, outcome := range result.Files {
		if outcome.Resource == resource {
			return outcome
		}
	}
	t.Fatalf("no outcome for %s", resource)
	return build.FileOutcome{}
}
