package interp

import (
	"fmt"
	"math"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/token"
	"github.com/corvidae-lang/gawk/internal/types"
)

// eval is component D: the expression evaluator. It dispatches on the
// concrete AST node kind with a type switch, the way a tree-walker reads
// the program directly instead of compiling it first.
func (it *Interp) eval(fr *frame, e ast.Expr) (types.Value, error) {
	switch n := e.(type) {
	case *ast.NumLit:
		return types.Num(n.Value), nil

	case *ast.StrLit:
		return types.Str(n.Value), nil

	case *ast.RegexLit:
		// A bare regex outside a match/split context means "$0 ~ /re/".
		re, err := it.regexes.Get(n.Pattern)
		if err != nil {
			return types.Value{}, it.typeErr(n, "invalid regex /%s/: %v", n.Pattern, err)
		}
		return types.Bool(re.MatchString(it.rec.field0())), nil

	case *ast.Ident:
		return it.readIdent(fr, n)

	case *ast.FieldExpr:
		i, err := it.fieldIndex(fr, n)
		if err != nil {
			return types.Value{}, err
		}
		if i > it.rec.getNF() {
			return types.Value{}, it.idxErr(n, "field index %d greater than NF (%d)", i, it.rec.getNF())
		}
		return types.NumStr(it.rec.field(i)), nil

	case *ast.IndexExpr:
		leaf, err := it.arrayChain(fr, n.Array, n.Index, true)
		if err != nil {
			return types.Value{}, err
		}
		return leaf.scalar, nil

	case *ast.GroupExpr:
		return it.eval(fr, n.Expr)

	case *ast.ConcatExpr:
		var sb []byte
		for _, sub := range n.Exprs {
			v, err := it.eval(fr, sub)
			if err != nil {
				return types.Value{}, err
			}
			sb = append(sb, v.AsStr(it.convfmt)...)
		}
		return types.Str(string(sb)), nil

	case *ast.UnaryExpr:
		return it.evalUnary(fr, n)

	case *ast.BinaryExpr:
		return it.evalBinary(fr, n)

	case *ast.TernaryExpr:
		c, err := it.eval(fr, n.Cond)
		if err != nil {
			return types.Value{}, err
		}
		if c.AsBool() {
			return it.eval(fr, n.Then)
		}
		return it.eval(fr, n.Else)

	case *ast.AssignExpr:
		return it.evalAssign(fr, n)

	case *ast.MatchExpr:
		return it.evalMatch(fr, n)

	case *ast.InExpr:
		ok, err := it.evalIn(fr, n)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(ok), nil

	case *ast.CallExpr:
		return it.callUser(fr, n)

	case *ast.BuiltinExpr:
		return it.callBuiltin(fr, n)

	case *ast.GetlineExpr:
		return it.evalGetline(fr, n)

	case *ast.CommaExpr:
		// Only meaningful as a range-pattern marker; evaluated directly it
		// degrades to its right operand.
		return it.eval(fr, n.Right)
	}
	return types.Value{}, it.progErr(e, "unsupported expression %T", e)
}

func (it *Interp) readIdent(fr *frame, n *ast.Ident) (types.Value, error) {
	if specialNames[n.Name] {
		v, _ := it.getSpecial(n.Name)
		return v, nil
	}
	if n.Name == "ARGC" {
		return it.lookup(fr, n.Name, true).scalar, nil
	}
	c := it.lookup(fr, n.Name, true)
	if c.isArray {
		return types.Value{}, it.typeErr(n, "%s is an array, not a scalar", n.Name)
	}
	return c.scalar, nil
}

// fieldIndex evaluates a field reference's subscript. A negative index is
// always an error, for both reads and writes; an index beyond NF is left to
// the caller to judge, since a read must reject it while a write zero-fills
// up to it (POSIX field growth).
func (it *Interp) fieldIndex(fr *frame, n *ast.FieldExpr) (int, error) {
	if n.Index == nil {
		return 0, nil
	}
	v, err := it.eval(fr, n.Index)
	if err != nil {
		return 0, err
	}
	i := int(v.AsNum())
	if i < 0 {
		return 0, it.idxErr(n, "field index %d is negative", i)
	}
	return i, nil
}

func (it *Interp) evalUnary(fr *frame, n *ast.UnaryExpr) (types.Value, error) {
	switch n.Op {
	case token.NOT:
		v, err := it.eval(fr, n.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(!v.AsBool()), nil
	case token.SUB:
		v, err := it.eval(fr, n.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(-v.AsNum()), nil
	case token.ADD:
		v, err := it.eval(fr, n.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(+v.AsNum()), nil
	case token.INCR, token.DECR:
		return it.evalIncDec(fr, n.Expr, n.Op == token.INCR, n.Post)
	}
	return types.Value{}, it.progErr(n, "unsupported unary operator")
}

func (it *Interp) evalIncDec(fr *frame, target ast.Expr, inc, post bool) (types.Value, error) {
	lv, err := it.lvalueOf(fr, target)
	if err != nil {
		return types.Value{}, err
	}
	old := lv.get()
	delta := 1.0
	if !inc {
		delta = -1.0
	}
	next := types.Num(old.AsNum() + delta)
	lv.set(next)
	if post {
		return types.Num(old.AsNum()), nil
	}
	return next, nil
}

// compareValues implements AWK's dual numeric/string relational semantics:
// comparisons are numeric unless either side is a genuine (non-numeric)
// string.
func compareValues(a, b types.Value) int {
	return types.Compare(a, b)
}

func (it *Interp) evalBinary(fr *frame, n *ast.BinaryExpr) (types.Value, error) {
	if n.Op == token.AND {
		l, err := it.eval(fr, n.Left)
		if err != nil {
			return types.Value{}, err
		}
		if !l.AsBool() {
			return types.Bool(false), nil
		}
		r, err := it.eval(fr, n.Right)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(r.AsBool()), nil
	}
	if n.Op == token.OR {
		l, err := it.eval(fr, n.Left)
		if err != nil {
			return types.Value{}, err
		}
		if l.AsBool() {
			return types.Bool(true), nil
		}
		r, err := it.eval(fr, n.Right)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(r.AsBool()), nil
	}

	l, err := it.eval(fr, n.Left)
	if err != nil {
		return types.Value{}, err
	}
	r, err := it.eval(fr, n.Right)
	if err != nil {
		return types.Value{}, err
	}

	switch n.Op {
	case token.ADD:
		return types.Num(l.AsNum() + r.AsNum()), nil
	case token.SUB:
		return types.Num(l.AsNum() - r.AsNum()), nil
	case token.MUL:
		return types.Num(l.AsNum() * r.AsNum()), nil
	case token.DIV:
		rv := r.AsNum()
		if rv == 0 {
			return types.Value{}, it.typeErr(n, "division by zero")
		}
		return types.Num(l.AsNum() / rv), nil
	case token.MOD:
		rv := r.AsNum()
		if rv == 0 {
			return types.Value{}, it.typeErr(n, "division by zero in %%")
		}
		return types.Num(math.Mod(l.AsNum(), rv)), nil
	case token.POW:
		return types.Num(math.Pow(l.AsNum(), r.AsNum())), nil
	case token.EQUALS:
		return types.Bool(compareValues(l, r) == 0), nil
	case token.NOT_EQUALS:
		return types.Bool(compareValues(l, r) != 0), nil
	case token.LESS:
		return types.Bool(compareValues(l, r) < 0), nil
	case token.LTE:
		return types.Bool(compareValues(l, r) <= 0), nil
	case token.GREATER:
		return types.Bool(compareValues(l, r) > 0), nil
	case token.GTE:
		return types.Bool(compareValues(l, r) >= 0), nil
	}
	return types.Value{}, it.progErr(n, "unsupported binary operator %v", n.Op)
}

// evalMatch implements `~`/`!~` as substring (regex search) match, the AWK
// tradition this implementation follows rather than full-string match.
func (it *Interp) evalMatch(fr *frame, n *ast.MatchExpr) (types.Value, error) {
	l, err := it.eval(fr, n.Expr)
	if err != nil {
		return types.Value{}, err
	}
	pattern, err := it.patternString(fr, n.Pattern)
	if err != nil {
		return types.Value{}, err
	}
	re, err := it.regexes.Get(pattern)
	if err != nil {
		return types.Value{}, it.typeErr(n, "invalid regex /%s/: %v", pattern, err)
	}
	matched := re.MatchString(l.AsStr(it.convfmt))
	if n.Op == token.NOT_MATCH {
		matched = !matched
	}
	return types.Bool(matched), nil
}

// patternString evaluates a regex-position expression to its pattern text,
// accepting either a literal regex or a dynamic (computed) string.
func (it *Interp) patternString(fr *frame, e ast.Expr) (string, error) {
	if re, ok := e.(*ast.RegexLit); ok {
		return re.Pattern, nil
	}
	v, err := it.eval(fr, e)
	if err != nil {
		return "", err
	}
	return v.AsStr(it.convfmt), nil
}

func (it *Interp) progErr(n ast.Node, format string, args ...any) error {
	return &ProgramError{Pos: n.Pos(), Message: fmt.Sprintf(format, args...)}
}

func (it *Interp) typeErr(n ast.Node, format string, args ...any) error {
	return &TypeError{Pos: n.Pos(), Message: fmt.Sprintf(format, args...)}
}

func (it *Interp) argErr(n ast.Node, format string, args ...any) error {
	return &ArgumentError{Pos: n.Pos(), Message: fmt.Sprintf(format, args...)}
}

func (it *Interp) idxErr(n ast.Node, format string, args ...any) error {
	return &IndexError{Pos: n.Pos(), Message: fmt.Sprintf(format, args...)}
}
