package gawk

import "io"

// Config holds configuration options for AWK execution.
type Config struct {
	// FS is the input field separator (default: " ").
	// When set to a single space, runs of whitespace are treated as separators.
	// Any other single character is a literal separator; a longer FS is a
	// regular expression pattern.
	FS string

	// RS is the input record separator (default: "\n").
	// An empty RS here selects the default; blank-line (paragraph) records
	// are selected by assigning RS = "" inside the program.
	RS string

	// OFS is the output field separator (default: " ").
	// Used when printing multiple values with the print statement.
	OFS string

	// ORS is the output record separator (default: "\n").
	// Appended after each print statement.
	ORS string

	// Variables contains pre-defined variables.
	// These are set before BEGIN block execution.
	// Example: map[string]string{"threshold": "100", "prefix": "LOG:"}
	Variables map[string]string

	// Output is the writer for print/printf statements.
	// If nil, output is captured and returned from Run.
	Output io.Writer

	// Stderr is the writer system() forwards the child process's error
	// output to. If nil, it is discarded.
	Stderr io.Writer

	// Args contains the program's positional file/var=value operands.
	// They populate ARGV[1:]; ARGV[0] is always "gawk".
	Args []string

	// Environ contains "KEY=VALUE" pairs used to seed ENVIRON.
	// If nil, ENVIRON is left empty.
	Environ []string
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.FS == "" {
		c.FS = " "
	}
	if c.RS == "" {
		c.RS = "\n"
	}
	if c.OFS == "" {
		c.OFS = " "
	}
	if c.ORS == "" {
		c.ORS = "\n"
	}
}
