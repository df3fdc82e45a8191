package interp

import (
	"bufio"
	"io"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/token"
	"github.com/corvidae-lang/gawk/internal/types"
)

// execPrint implements print and printf, including the three output
// redirection forms (> file, >> file, | cmd), cached per destination the
// way the IO manager caches open files and pipes.
func (it *Interp) execPrint(fr *frame, n *ast.PrintStmt) error {
	w := it.out
	if n.Redirect != token.ILLEGAL {
		dest, err := it.eval(fr, n.Dest)
		if err != nil {
			return err
		}
		name := dest.AsStr(it.convfmt)
		var bw *bufio.Writer
		var ioErr error
		switch n.Redirect {
		case token.GREATER:
			bw, ioErr = it.io.GetOutputFile(name, false)
		case token.APPEND:
			bw, ioErr = it.io.GetOutputFile(name, true)
		case token.PIPE:
			bw, ioErr = it.io.GetOutputPipe(name)
		}
		if ioErr != nil {
			return it.argErr(n, "cannot open %q for output: %v", name, ioErr)
		}
		w = bw
	}

	if n.Printf {
		if len(n.Args) == 0 {
			return it.argErr(n, "printf: missing format argument")
		}
		formatVal, err := it.eval(fr, n.Args[0])
		if err != nil {
			return err
		}
		rest := make([]types.Value, 0, len(n.Args)-1)
		for _, a := range n.Args[1:] {
			v, err := it.eval(fr, a)
			if err != nil {
				return err
			}
			rest = append(rest, v)
		}
		out, err := it.sprintf(n, formatVal.AsStr(it.convfmt), rest)
		if err != nil {
			return err
		}
		_, ioErr := io.WriteString(w, out)
		return ioErr
	}

	if len(n.Args) == 0 {
		_, err := io.WriteString(w, it.rec.field0()+it.rec.ors)
		return err
	}
	for i, a := range n.Args {
		v, err := it.eval(fr, a)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(w, it.rec.ofs); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, v.AsStr(it.ofmt)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, it.rec.ors)
	return err
}

// Flush writes any buffered output to the configured writer. The top-level
// Run entrypoint calls this once at the end of execution.
func (it *Interp) Flush() error {
	if err := it.out.Flush(); err != nil {
		return err
	}
	it.io.Flush("")
	return nil
}
