package interp

import (
	"math"
	"os/exec"
	"strings"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/token"
	"github.com/corvidae-lang/gawk/internal/types"
)

// callBuiltin is component H: the built-in function library. Argument
// evaluation happens directly against each call's actual expressions
// (rather than through a shared operand stack), since there is no
// bytecode layer underneath.
func (it *Interp) callBuiltin(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	switch n.Func {
	case token.F_LENGTH:
		return it.builtinLength(fr, n)
	case token.F_SUBSTR:
		return it.builtinSubstr(fr, n)
	case token.F_INDEX:
		return it.builtinIndex(fr, n)
	case token.F_SPLIT:
		return it.builtinSplit(fr, n)
	case token.F_SUB:
		return it.builtinSubGsub(fr, n, false)
	case token.F_GSUB:
		return it.builtinSubGsub(fr, n, true)
	case token.F_MATCH:
		return it.builtinMatch(fr, n)
	case token.F_SPRINTF:
		return it.builtinSprintf(fr, n)
	case token.F_TOLOWER:
		return it.builtinCase(fr, n, strings.ToLower)
	case token.F_TOUPPER:
		return it.builtinCase(fr, n, strings.ToUpper)
	case token.F_SIN:
		return it.builtinMath1(fr, n, math.Sin)
	case token.F_COS:
		return it.builtinMath1(fr, n, math.Cos)
	case token.F_EXP:
		return it.builtinMath1(fr, n, math.Exp)
	case token.F_LOG:
		return it.builtinMath1(fr, n, math.Log)
	case token.F_SQRT:
		return it.builtinMath1(fr, n, math.Sqrt)
	case token.F_INT:
		return it.builtinMath1(fr, n, math.Trunc)
	case token.F_ATAN2:
		return it.builtinAtan2(fr, n)
	case token.F_RAND:
		return types.Num(it.rng.Float64()), nil
	case token.F_SRAND:
		return it.builtinSrand(fr, n)
	case token.F_SYSTEM:
		return it.builtinSystem(fr, n)
	case token.F_CLOSE:
		return it.builtinClose(fr, n)
	case token.F_FFLUSH:
		return it.builtinFflush(fr, n)
	}
	return types.Value{}, it.progErr(n, "unsupported builtin")
}

func (it *Interp) builtinLength(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) == 0 {
		return types.Num(float64(len(it.rec.field0()))), nil
	}
	if id, ok := n.Args[0].(*ast.Ident); ok {
		c := it.lookup(fr, id.Name, true)
		if c.isArray {
			return types.Num(float64(len(c.array))), nil
		}
	}
	v, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	return types.Num(float64(len(v.AsStr(it.convfmt)))), nil
}

func (it *Interp) builtinSubstr(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) < 2 {
		return types.Value{}, it.argErr(n, "substr: expected 2 or 3 arguments")
	}
	sv, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	startV, err := it.eval(fr, n.Args[1])
	if err != nil {
		return types.Value{}, err
	}
	s := sv.AsStr(it.convfmt)
	start := int(math.Round(startV.AsNum()))
	length := len(s) - start + 1
	haveLen := false
	if len(n.Args) >= 3 {
		lv, err := it.eval(fr, n.Args[2])
		if err != nil {
			return types.Value{}, err
		}
		length = int(math.Round(lv.AsNum()))
		haveLen = true
	}
	return types.Str(substrPOSIX(s, start, length, haveLen)), nil
}

// substrPOSIX implements the POSIX clamp-and-slice semantics: a start
// before 1 is clamped to 1 (shortening the effective length by however far
// it undershot), and the end is clamped to the string's length.
func substrPOSIX(s string, start, length int, haveLen bool) string {
	if !haveLen {
		length = len(s) - start + 1
		if start < 1 {
			length += start - 1
		}
	}
	end := start + length
	if start < 1 {
		start = 1
	}
	if end > len(s)+1 {
		end = len(s) + 1
	}
	if end <= start {
		return ""
	}
	return s[start-1 : end-1]
}

func (it *Interp) builtinIndex(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) != 2 {
		return types.Value{}, it.argErr(n, "index: expected 2 arguments")
	}
	sv, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	tv, err := it.eval(fr, n.Args[1])
	if err != nil {
		return types.Value{}, err
	}
	idx := strings.Index(sv.AsStr(it.convfmt), tv.AsStr(it.convfmt))
	return types.Num(float64(idx + 1)), nil
}

func (it *Interp) builtinCase(fr *frame, n *ast.BuiltinExpr, f func(string) string) (types.Value, error) {
	if len(n.Args) != 1 {
		return types.Value{}, it.argErr(n, "expected exactly 1 argument")
	}
	v, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	return types.Str(f(v.AsStr(it.convfmt))), nil
}

func (it *Interp) builtinMath1(fr *frame, n *ast.BuiltinExpr, f func(float64) float64) (types.Value, error) {
	if len(n.Args) != 1 {
		return types.Value{}, it.argErr(n, "expected exactly 1 argument")
	}
	v, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	return types.Num(f(v.AsNum())), nil
}

func (it *Interp) builtinAtan2(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) != 2 {
		return types.Value{}, it.argErr(n, "atan2: expected 2 arguments")
	}
	y, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	x, err := it.eval(fr, n.Args[1])
	if err != nil {
		return types.Value{}, err
	}
	return types.Num(math.Atan2(y.AsNum(), x.AsNum())), nil
}

func (it *Interp) builtinSrand(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	prev := it.rngSeed
	seed := float64(0)
	if len(n.Args) > 0 {
		v, err := it.eval(fr, n.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		seed = v.AsNum()
	}
	it.rngSeed = seed
	it.rng.Seed(int64(seed))
	return types.Num(prev), nil
}

func (it *Interp) builtinSystem(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) != 1 {
		return types.Value{}, it.argErr(n, "system: expected 1 argument")
	}
	v, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	it.out.Flush()
	cmd := exec.Command("sh", "-c", v.AsStr(it.convfmt))
	cmd.Stdout = it.rawOut
	cmd.Stderr = it.errw
	if runErr := cmd.Run(); runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return types.Num(float64(exitErr.ExitCode())), nil
		}
		return types.Num(-1), nil
	}
	return types.Num(0), nil
}

func (it *Interp) builtinClose(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) != 1 {
		return types.Value{}, it.argErr(n, "close: expected 1 argument")
	}
	v, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	return types.Num(float64(it.io.Close(v.AsStr(it.convfmt)))), nil
}

func (it *Interp) builtinFflush(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	it.out.Flush()
	name := ""
	if len(n.Args) > 0 {
		v, err := it.eval(fr, n.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		name = v.AsStr(it.convfmt)
	}
	return types.Num(float64(it.io.Flush(name))), nil
}
