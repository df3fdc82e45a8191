package interp

import (
	"strings"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/runtime"
	"github.com/corvidae-lang/gawk/internal/types"
)

// builtinSplit implements split(s, arr [, fs]): arr is cleared and refilled
// with s's fields, using fs if given (an AWK-regex-or-literal-per-FS-rules
// expression, matching FS's own interpretation) or the current FS.
func (it *Interp) builtinSplit(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) < 2 || len(n.Args) > 3 {
		return types.Value{}, it.argErr(n, "split: expected 2 or 3 arguments")
	}
	sv, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	arrCell, err := it.arrayCellOf(fr, n.Args[1], true)
	if err != nil {
		return types.Value{}, err
	}
	m, _ := arrCell.asArray()
	for k := range m {
		delete(m, k)
	}

	fs := it.rec.fs
	if len(n.Args) == 3 {
		fs, err = it.patternString(fr, n.Args[2])
		if err != nil {
			return types.Value{}, err
		}
	}
	parts := splitByFS(sv.AsStr(it.convfmt), fs, it.regexes)
	for i, p := range parts {
		m[arrayKey(types.Num(float64(i+1)))] = newScalarCell(types.NumStr(p))
	}
	return types.Num(float64(len(parts))), nil
}

// builtinMatch implements match(s, re): sets RSTART/RLENGTH as a side
// effect and returns RSTART.
func (it *Interp) builtinMatch(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) != 2 {
		return types.Value{}, it.argErr(n, "match: expected 2 arguments")
	}
	sv, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	pattern, err := it.patternString(fr, n.Args[1])
	if err != nil {
		return types.Value{}, err
	}
	re, err := it.regexes.Get(pattern)
	if err != nil {
		return types.Value{}, it.typeErr(n, "invalid regex /%s/: %v", pattern, err)
	}
	s := sv.AsStr(it.convfmt)
	loc := re.FindStringIndex(s)
	if loc == nil {
		it.rstart = 0
		it.rlength = -1
		return types.Num(0), nil
	}
	it.rstart = loc[0] + 1
	it.rlength = loc[1] - loc[0]
	return types.Num(float64(it.rstart)), nil
}

// builtinSubGsub implements sub/gsub(re, repl, [target]); target defaults
// to $0. Both return the number of substitutions made, the choice this
// implementation follows for §9's open question on their return value.
func (it *Interp) builtinSubGsub(fr *frame, n *ast.BuiltinExpr, global bool) (types.Value, error) {
	if len(n.Args) < 2 || len(n.Args) > 3 {
		return types.Value{}, it.argErr(n, "expected 2 or 3 arguments")
	}
	pattern, err := it.patternString(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	replV, err := it.eval(fr, n.Args[1])
	if err != nil {
		return types.Value{}, err
	}
	repl := replV.AsStr(it.convfmt)

	var lv lvalue
	if len(n.Args) == 3 {
		lv, err = it.lvalueOf(fr, n.Args[2])
	} else {
		lv, err = it.lvalueOf(fr, &ast.FieldExpr{})
	}
	if err != nil {
		return types.Value{}, err
	}

	re, err := it.regexes.Get(pattern)
	if err != nil {
		return types.Value{}, it.typeErr(n, "invalid regex /%s/: %v", pattern, err)
	}
	target := lv.get().AsStr(it.convfmt)
	result, count := substitute(re, target, repl, global)
	if count > 0 {
		lv.set(types.Str(result))
	}
	return types.Num(float64(count)), nil
}

// substitute implements the & / \& / \\ replacement-text conventions AWK
// gives sub/gsub, applying the replacement once (sub) or at every
// non-overlapping match (gsub).
func substitute(re *runtime.Regex, s, repl string, global bool) (string, int) {
	count := 0
	var out strings.Builder
	pos := 0
	for pos <= len(s) {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		out.WriteString(s[pos:start])
		out.WriteString(expandReplacement(repl, s[start:end]))
		count++
		if end == start {
			if end < len(s) {
				out.WriteByte(s[end])
			}
			pos = end + 1
		} else {
			pos = end
		}
		if !global {
			break
		}
	}
	if count == 0 {
		return s, 0
	}
	if pos <= len(s) {
		out.WriteString(s[pos:])
	}
	return out.String(), count
}

// expandReplacement handles the AWK-specific replacement-text escapes:
// & stands for the matched text, \& is a literal ampersand, \\ a literal
// backslash.
func expandReplacement(repl, matched string) string {
	var out strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c == '\\' && i+1 < len(repl) {
			switch repl[i+1] {
			case '&':
				out.WriteByte('&')
				i++
				continue
			case '\\':
				out.WriteByte('\\')
				i++
				continue
			}
		}
		if c == '&' {
			out.WriteString(matched)
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}
