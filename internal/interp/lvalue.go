package interp

import (
	"math"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/token"
	"github.com/corvidae-lang/gawk/internal/types"
)

// lvalue is a settable location: an identifier, a field, or an array
// element reached through (possibly nested) index chains.
type lvalue struct {
	get func() types.Value
	set func(types.Value)
}

// lvalueOf resolves e to a gettable/settable location. It rejects anything
// that isn't an Ident, FieldExpr, or IndexExpr, matching ast.IsLValue.
func (it *Interp) lvalueOf(fr *frame, e ast.Expr) (lvalue, error) {
	switch n := e.(type) {
	case *ast.Ident:
		if specialNames[n.Name] {
			return lvalue{
				get: func() types.Value { v, _ := it.getSpecial(n.Name); return v },
				set: func(v types.Value) { it.setSpecial(n.Name, v) },
			}, nil
		}
		c := it.lookup(fr, n.Name, true)
		if c.isArray {
			return lvalue{}, it.typeErr(n, "%s is an array, not a scalar", n.Name)
		}
		return lvalue{
			get: func() types.Value { return c.scalar },
			set: func(v types.Value) { c.scalar = v },
		}, nil

	case *ast.FieldExpr:
		i, err := it.fieldIndex(fr, n)
		if err != nil {
			return lvalue{}, err
		}
		return lvalue{
			get: func() types.Value { return types.NumStr(it.rec.field(i)) },
			set: func(v types.Value) { it.rec.setField(i, v.AsStr(it.convfmt)) },
		}, nil

	case *ast.IndexExpr:
		leaf, err := it.arrayChain(fr, n.Array, n.Index, true)
		if err != nil {
			return lvalue{}, err
		}
		return lvalue{
			get: func() types.Value { return leaf.scalar },
			set: func(v types.Value) { leaf.scalar = v },
		}, nil
	}
	return lvalue{}, it.progErr(e, "not an assignable expression")
}

// arrayChain resolves arrExpr[indices...] to the leaf cell holding the
// scalar value, descending through (and, if create is true, creating)
// intermediate array levels for a multi-key index list.
func (it *Interp) arrayChain(fr *frame, arrExpr ast.Expr, indices []ast.Expr, create bool) (*cell, error) {
	base, err := it.arrayCellOf(fr, arrExpr, create)
	if err != nil {
		return nil, err
	}
	cur := base
	for i, idxExpr := range indices {
		kv, err := it.eval(fr, idxExpr)
		if err != nil {
			return nil, err
		}
		key := arrayKey(kv)
		m, ok := cur.asArray()
		if !ok {
			return nil, it.typeErr(arrExpr, "scalar value used as an array")
		}
		leaf, exists := m[key]
		last := i == len(indices)-1
		if !exists {
			if !create {
				return nil, errMissingKey
			}
			if last {
				leaf = newScalarCell(types.Null())
			} else {
				leaf = newArrayCell()
			}
			m[key] = leaf
		}
		cur = leaf
	}
	return cur, nil
}

// errMissingKey signals "no such key" to arrayChain's non-creating callers
// (membership tests); it never escapes to user-visible error reporting.
var errMissingKey = &missingKeyError{}

type missingKeyError struct{}

func (e *missingKeyError) Error() string { return "missing array key" }

// arrayCellOf returns the cell bound to the name that arrExpr refers to
// (an array variable is always referenced by a bare identifier in this
// grammar), turning an unused variable into an array on first use.
func (it *Interp) arrayCellOf(fr *frame, arrExpr ast.Expr, create bool) (*cell, error) {
	id, ok := arrExpr.(*ast.Ident)
	if !ok {
		return nil, it.progErr(arrExpr, "array expression must be a name")
	}
	c := it.lookup(fr, id.Name, true)
	if !c.isArray {
		if _, ok := c.asArray(); !ok {
			return nil, it.typeErr(id, "%s is a scalar, not an array", id.Name)
		}
	}
	return c, nil
}

// evalIn implements `key in arr` / `(k1,k2,...) in arr`: it walks the
// nested-array chain without creating anything, yielding false as soon as
// any level is missing.
func (it *Interp) evalIn(fr *frame, n *ast.InExpr) (bool, error) {
	cell, err := it.arrayChain(fr, n.Array, n.Index, false)
	if err != nil {
		if err == errMissingKey {
			return false, nil
		}
		return false, err
	}
	return cell != nil, nil
}

// evalAssign implements component D's Assignment rule: plain `=` stores
// the evaluated right-hand side; compound operators read-modify-write
// through the same lvalue.
func (it *Interp) evalAssign(fr *frame, n *ast.AssignExpr) (types.Value, error) {
	lv, err := it.lvalueOf(fr, n.Left)
	if err != nil {
		return types.Value{}, err
	}
	rhs, err := it.eval(fr, n.Right)
	if err != nil {
		return types.Value{}, err
	}
	var result types.Value
	if n.Op == token.ASSIGN {
		result = rhs
	} else {
		cur := lv.get()
		result = types.Num(applyCompoundOp(n.Op, cur.AsNum(), rhs.AsNum()))
	}
	lv.set(result)
	return result, nil
}

// applyCompoundOp implements the arithmetic behind +=, -=, *=, /=, %=, ^=.
func applyCompoundOp(op token.Token, cur, rhs float64) float64 {
	switch op {
	case token.ADD_ASSIGN:
		return cur + rhs
	case token.SUB_ASSIGN:
		return cur - rhs
	case token.MUL_ASSIGN:
		return cur * rhs
	case token.DIV_ASSIGN:
		return cur / rhs
	case token.MOD_ASSIGN:
		return math.Mod(cur, rhs)
	case token.POW_ASSIGN:
		return math.Pow(cur, rhs)
	}
	return rhs
}
