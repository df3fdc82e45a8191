// Package gawk provides a tree-walking AWK interpreter.
//
// gawk is an AWK implementation written in Go, featuring:
//   - Pattern/action rules with range patterns and BEGIN/END blocks
//   - A coregex-backed regex engine for ~, split, sub/gsub and FS/RS
//   - True nested (multidimensional) arrays
//   - Embeddable library for Go applications
//
// # Quick Start
//
// For simple one-off execution:
//
//	output, err := gawk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//
// With configuration:
//
//	output, err := gawk.Run(program, input, &gawk.Config{
//	    FS: ":",
//	    Variables: map[string]string{"threshold": "100"},
//	})
//
// # Compiled Programs
//
// For repeated execution of the same program:
//
//	prog, err := gawk.Compile(`$1 > threshold { print $2 }`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, file := range files {
//	    output, err := prog.Run(file, &gawk.Config{
//	        Variables: map[string]string{"threshold": "100"},
//	    })
//	    // ...
//	}
//
// # Configuration
//
// The [Config] type allows customization of AWK execution:
//   - Field and record separators (FS, RS, OFS, ORS)
//   - Pre-defined variables and ENVIRON contents
//   - Custom I/O writers
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: syntax errors in AWK source
//   - [CompileError]: semantic errors during resolution/checking
//   - [RuntimeError]: errors during execution
//   - [ExitError]: a non-zero exit from an AWK exit statement
//
// # Concurrency
//
// A compiled [Program] is an immutable AST plus resolver output, so it is
// safe to call [Program.Run] concurrently from multiple goroutines: each
// call builds its own interpreter with its own record, field, and variable
// state.
package gawk
