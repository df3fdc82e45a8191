package interp

import (
	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/semantic"
	"github.com/corvidae-lang/gawk/internal/types"
)

// callUser implements component G: positional binding into a fresh local
// scope, array arguments aliased by sharing the underlying cell so writes
// inside the callee are visible to the caller, scalar arguments copied by
// value. Surplus actual arguments beyond the declared parameter count are
// collected into a local array named after the callee, per this
// language's (non-POSIX) convention.
func (it *Interp) callUser(fr *frame, n *ast.CallExpr) (types.Value, error) {
	fn, ok := it.funcs[n.Name]
	if !ok {
		return types.Value{}, it.argErr(n, "call to undefined function %q", n.Name)
	}
	if len(n.Args) < len(fn.Params) {
		return types.Value{}, it.argErr(n, "too few arguments in call to %q: want at least %d, got %d",
			n.Name, len(fn.Params), len(n.Args))
	}
	callee := newFrame()
	fi := it.resolved.Functions[n.Name]

	for i, param := range fn.Params {
		arg := n.Args[i]
		if isArrayParam(fi, param) {
			arrCell, err := it.arrayCellOf(fr, arg, true)
			if err != nil {
				return types.Value{}, err
			}
			callee.bindLocal(param, arrCell)
			continue
		}
		v, err := it.eval(fr, arg)
		if err != nil {
			return types.Value{}, err
		}
		callee.bindLocal(param, newScalarCell(v))
	}

	// This language departs from POSIX AWK here: every declared parameter
	// binds positionally (there is no separate "extra params as locals"
	// convention), and any actual arguments beyond the full parameter
	// list are collected into a local array named after the callee.
	if len(n.Args) > len(fn.Params) {
		surplus := newArrayCell()
		for i := len(fn.Params); i < len(n.Args); i++ {
			v, err := it.eval(fr, n.Args[i])
			if err != nil {
				return types.Value{}, err
			}
			surplus.array[arrayKey(types.Num(float64(i-len(fn.Params)+1)))] = newScalarCell(v)
		}
		callee.bindLocal(n.Name, surplus)
	}

	err := it.execute(callee, fn.Body)
	if err == nil {
		return types.Null(), nil
	}
	if ret, ok := err.(*returnSignal); ok {
		return ret.value, nil
	}
	return types.Value{}, err
}

// isArrayParam reports whether the resolver inferred param (a parameter of
// fi) to be array-typed, used to decide by-reference vs by-value binding
// at the call site.
func isArrayParam(fi *semantic.FuncInfo, param string) bool {
	if fi == nil || fi.Symbols == nil {
		return false
	}
	sym, ok := fi.Symbols.LookupLocal(param)
	if !ok {
		return false
	}
	return sym.Type == semantic.TypeArray
}
