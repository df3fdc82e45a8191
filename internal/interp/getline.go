package interp

import (
	"bufio"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/types"
)

// evalGetline implements all four forms of getline, returning 1 on a
// record read, 0 at end of input, and -1 if the source couldn't be
// opened/read, per the POSIX getline return-value contract.
func (it *Interp) evalGetline(fr *frame, n *ast.GetlineExpr) (types.Value, error) {
	var line string
	var ok bool
	var err error
	updatesNR := true
	updatesNF := n.Target == nil

	switch {
	case n.Command != nil:
		cv, evalErr := it.eval(fr, n.Command)
		if evalErr != nil {
			return types.Value{}, evalErr
		}
		sc, ioErr := it.io.GetInputPipe(cv.AsStr(it.convfmt))
		if ioErr != nil {
			return types.Num(-1), nil
		}
		line, ok, err = readOneLine(sc)

	case n.File != nil:
		fv, evalErr := it.eval(fr, n.File)
		if evalErr != nil {
			return types.Value{}, evalErr
		}
		sc, ioErr := it.io.GetInputFile(fv.AsStr(it.convfmt))
		if ioErr != nil {
			return types.Num(-1), nil
		}
		line, ok, err = readOneLine(sc)
		updatesNR = false

	default:
		// NR and FNR are advanced inside inputState.next itself.
		line, ok, err = it.input.next()
		updatesNR = false
	}

	if err != nil {
		return types.Num(-1), nil
	}
	if !ok {
		return types.Num(0), nil
	}

	if n.Target != nil {
		lv, lerr := it.lvalueOf(fr, n.Target)
		if lerr != nil {
			return types.Value{}, lerr
		}
		lv.set(types.NumStr(line))
	} else {
		it.rec.setLine(line)
	}
	if updatesNF && n.Target == nil {
		it.rec.ensureSplit()
	}
	if updatesNR {
		it.rec.nr++
	}
	return types.Num(1), nil
}

// readOneLine pulls a single line from a bufio.Scanner shared by repeated
// getline calls against the same file or pipe.
func readOneLine(sc *bufio.Scanner) (string, bool, error) {
	if sc.Scan() {
		return sc.Text(), true, nil
	}
	return "", false, sc.Err()
}
