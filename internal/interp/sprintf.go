package interp

import (
	"strconv"
	"strings"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/types"
)

// builtinSprintf implements the sprintf() built-in as a thin wrapper over
// the same formatter printf uses.
func (it *Interp) builtinSprintf(fr *frame, n *ast.BuiltinExpr) (types.Value, error) {
	if len(n.Args) == 0 {
		return types.Value{}, it.argErr(n, "sprintf: missing format argument")
	}
	fv, err := it.eval(fr, n.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	rest := make([]types.Value, 0, len(n.Args)-1)
	for _, a := range n.Args[1:] {
		v, err := it.eval(fr, a)
		if err != nil {
			return types.Value{}, err
		}
		rest = append(rest, v)
	}
	out, err := it.sprintf(n, fv.AsStr(it.convfmt), rest)
	if err != nil {
		return types.Value{}, err
	}
	return types.Str(out), nil
}

// sprintf implements AWK's printf/sprintf conversion set: d i o x X u c s
// f F e E g G and %%, with -+ #0 flags and width/precision (including the
// * form that consumes an extra argument).
func (it *Interp) sprintf(n ast.Node, format string, args []types.Value) (string, error) {
	var out strings.Builder
	argi := 0
	next := func() types.Value {
		if argi < len(args) {
			v := args[argi]
			argi++
			return v
		}
		return types.Str("")
	}

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			out.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			out.WriteByte('%')
			i += 2
			continue
		}

		spec, width, haveWidth, prec, havePrec, conv, consumed := parseFormatSpec(format[i:], next)
		if consumed == 0 {
			return "", it.argErr(n, "invalid format specification in %q", format[i:])
		}
		i += consumed

		var piece string
		switch conv {
		case 'd', 'i':
			piece = formatInteger(int64(next().AsNum()), 10, false, spec, width, haveWidth, prec, havePrec)
		case 'o':
			piece = formatInteger(int64(next().AsNum()), 8, false, spec, width, haveWidth, prec, havePrec)
		case 'x':
			piece = formatInteger(int64(next().AsNum()), 16, false, spec, width, haveWidth, prec, havePrec)
		case 'X':
			piece = formatInteger(int64(next().AsNum()), 16, true, spec, width, haveWidth, prec, havePrec)
		case 'u':
			piece = formatInteger(int64(uint32(next().AsNum())), 10, false, spec, width, haveWidth, prec, havePrec)
		case 'c':
			piece = formatChar(next())
		case 's':
			piece = formatString(next().AsStr(it.convfmt), spec, width, haveWidth, prec, havePrec)
		case 'e', 'E', 'f', 'F', 'g', 'G':
			piece = formatFloat(next().AsNum(), conv, spec, width, haveWidth, prec, havePrec)
		default:
			return "", it.argErr(n, "unsupported format conversion %%%c", conv)
		}
		out.WriteString(piece)
	}
	return out.String(), nil
}

type formatSpec struct {
	minus, plus, space, hash, zero bool
}

// parseFormatSpec parses one %-directive starting at s[0]=='%', returning
// the parsed flags/width/precision, the conversion letter, and how many
// bytes of s were consumed. next is called once per '*' to pull a width or
// precision argument.
func parseFormatSpec(s string, next func() types.Value) (spec formatSpec, width int, haveWidth bool, prec int, havePrec bool, conv byte, consumed int) {
	i := 1 // skip '%'
	for i < len(s) {
		switch s[i] {
		case '-':
			spec.minus = true
		case '+':
			spec.plus = true
		case ' ':
			spec.space = true
		case '#':
			spec.hash = true
		case '0':
			spec.zero = true
		default:
			goto flagsDone
		}
		i++
	}
flagsDone:
	if i < len(s) && s[i] == '*' {
		width = int(next().AsNum())
		haveWidth = true
		i++
	} else {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i > start {
			width, _ = strconv.Atoi(s[start:i])
			haveWidth = true
		}
	}
	if i < len(s) && s[i] == '.' {
		i++
		havePrec = true
		if i < len(s) && s[i] == '*' {
			prec = int(next().AsNum())
			i++
		} else {
			start := i
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}
			if i > start {
				prec, _ = strconv.Atoi(s[start:i])
			}
		}
	}
	if i >= len(s) {
		return spec, width, haveWidth, prec, havePrec, 0, 0
	}
	conv = s[i]
	i++
	return spec, width, haveWidth, prec, havePrec, conv, i
}

func pad(s string, width int, leftAlign, zeroFill bool) string {
	if len(s) >= width {
		return s
	}
	fill := byte(' ')
	if zeroFill && !leftAlign {
		fill = '0'
	}
	padding := strings.Repeat(string(fill), width-len(s))
	if leftAlign {
		return s + padding
	}
	if fill == '0' && len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		return s[:1] + padding + s[1:]
	}
	return padding + s
}

func formatInteger(v int64, base int, upper bool, spec formatSpec, width int, haveWidth bool, prec int, havePrec bool) string {
	neg := v < 0 && base == 10
	u := v
	if neg {
		u = -v
	}
	digits := strconv.FormatInt(u, base)
	if upper {
		digits = strings.ToUpper(digits)
	}
	if havePrec {
		if prec == 0 && u == 0 {
			digits = ""
		}
		for len(digits) < prec {
			digits = "0" + digits
		}
	}
	if spec.hash && base == 8 && (len(digits) == 0 || digits[0] != '0') {
		digits = "0" + digits
	}
	if spec.hash && base == 16 && u != 0 {
		if upper {
			digits = "0X" + digits
		} else {
			digits = "0x" + digits
		}
	}
	sign := ""
	if neg {
		sign = "-"
	} else if base == 10 {
		if spec.plus {
			sign = "+"
		} else if spec.space {
			sign = " "
		}
	}
	s := sign + digits
	if haveWidth {
		s = pad(s, width, spec.minus, spec.zero && !havePrec)
	}
	return s
}

func formatChar(v types.Value) string {
	if v.IsNum() {
		return string(rune(int(v.AsNum())))
	}
	s := v.AsStr("%.6g")
	if len(s) == 0 {
		return ""
	}
	r := []rune(s)
	return string(r[0])
}

func formatString(s string, spec formatSpec, width int, haveWidth bool, prec int, havePrec bool) string {
	if havePrec && prec < len(s) {
		s = s[:prec]
	}
	if haveWidth {
		s = pad(s, width, spec.minus, false)
	}
	return s
}

func formatFloat(v float64, conv byte, spec formatSpec, width int, haveWidth bool, prec int, havePrec bool) string {
	if !havePrec {
		prec = 6
	}
	goVerb := byte('f')
	switch conv {
	case 'e', 'E':
		goVerb = 'e'
	case 'g', 'G':
		goVerb = 'g'
	}
	s := strconv.FormatFloat(v, goVerb, prec, 64)
	if conv == 'E' || conv == 'G' {
		s = strings.ToUpper(s)
	}
	if v >= 0 {
		if spec.plus {
			s = "+" + s
		} else if spec.space {
			s = " " + s
		}
	}
	if haveWidth {
		s = pad(s, width, spec.minus, spec.zero)
	}
	return s
}
