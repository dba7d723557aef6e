package weave

import (
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

// Script is a list of processing steps, separated by semicolons or whitespace:
//
//	subdivide 2; simplify 500; remesh 5 0.5; validate
type Script struct {
	Steps []*Step `(@@ ";"?)*`
}

// Step is a single stage of a Script. Exactly one field is set.
type Step struct {
	Subdivide *int        `  "subdivide" @Int`
	Simplify  *int        `| "simplify" @Int`
	Remesh    *RemeshStep `| @@`
	Validate  bool        `| @"validate"`
}

// RemeshStep runs isotropic remeshing. Damping defaults to DEFAULT_DAMPING.
type RemeshStep struct {
	Iterations int      `"remesh" @Int`
	Damping    *float64 `@(Float | Int)?`
}

var parseScript = participle.MustBuild[Script]()

// ParseScript parses a processing script.
func ParseScript(script string) (*Script, error) {
	parsed, err := parseScript.ParseString("", script)
	if err != nil {
		return nil, errors.Wrap(ErrScript, err.Error())
	}
	return parsed, nil
}
