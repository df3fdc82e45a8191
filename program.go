package gawk

import (
	"bytes"
	"io"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/interp"
	"github.com/corvidae-lang/gawk/internal/semantic"
)

// Program represents a parsed AWK program ready for execution. It is safe
// for concurrent use; each call to Run builds an independent interpreter
// (component F drives a fresh record/variable state per call, so nothing
// is shared between concurrent runs of the same Program).
type Program struct {
	ast      *ast.Program
	resolved *semantic.ResolveResult
	source   string
}

// Run executes the program against input using config. Returns the
// program's output as a string, or an error if execution fails.
//
// If config is nil, default configuration is used. If config.Output is
// set, output is written there and the returned string is empty.
func (p *Program) Run(input io.Reader, config *Config) (string, error) {
	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	var outputBuf *bytes.Buffer
	output := config.Output
	if output == nil {
		outputBuf = &bytes.Buffer{}
		output = outputBuf
	}

	it := interp.New(p.ast, p.resolved, interp.Options{
		FS:        config.FS,
		RS:        config.RS,
		OFS:       config.OFS,
		ORS:       config.ORS,
		Variables: config.Variables,
		Args:      config.Args,
		Output:    output,
		Stderr:    config.Stderr,
		Environ:   config.Environ,
	})

	err := it.Run(input)
	if err != nil {
		if outputBuf != nil {
			return outputBuf.String(), &RuntimeError{Message: err.Error()}
		}
		return "", &RuntimeError{Message: err.Error()}
	}

	if it.Exited() && it.ExitCode() != 0 {
		if outputBuf != nil {
			return outputBuf.String(), &ExitError{Code: it.ExitCode()}
		}
		return "", &ExitError{Code: it.ExitCode()}
	}

	if outputBuf != nil {
		return outputBuf.String(), nil
	}
	return "", nil
}

// Source returns the original AWK source code.
func (p *Program) Source() string {
	return p.source
}
