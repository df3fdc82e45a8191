package interp

import "github.com/corvidae-lang/gawk/internal/types"

// frame holds one user-function call's local bindings. A nil frame means
// "no active call" and every lookup falls straight through to globals.
type frame struct {
	vars map[string]*cell
}

func newFrame() *frame {
	return &frame{vars: make(map[string]*cell)}
}

// specialNames lists the variables the record manager and the interpreter's
// own bookkeeping own directly, rather than storing them as ordinary global
// cells. Reading or writing one of these by name is routed through
// getSpecial/setSpecial instead of the plain scope chain.
var specialNames = map[string]bool{
	"NF": true, "NR": true, "FNR": true, "FS": true, "OFS": true,
	"ORS": true, "RS": true, "FILENAME": true, "SUBSEP": true,
	"CONVFMT": true, "OFMT": true, "RSTART": true, "RLENGTH": true,
}

// lookup finds the cell bound to name, preferring the active call frame
// over the globals, and creates an unbound (Null scalar) cell on first use
// when create is true. Special variables never reach here.
func (it *Interp) lookup(fr *frame, name string, create bool) *cell {
	if fr != nil {
		if c, ok := fr.vars[name]; ok {
			return c
		}
	}
	if c, ok := it.globals[name]; ok {
		return c
	}
	if !create {
		return nil
	}
	c := newScalarCell(types.Null())
	if fr != nil {
		fr.vars[name] = c
	} else {
		it.globals[name] = c
	}
	return c
}

// bindLocal installs c directly as name's binding within fr, used when
// calling a user function: scalar arguments get a fresh copy, array
// arguments share the caller's underlying cell so mutations are visible on
// both sides.
func (fr *frame) bindLocal(name string, c *cell) {
	fr.vars[name] = c
}
