package interp

import (
	"strings"

	"github.com/corvidae-lang/gawk/internal/runtime"
	"github.com/corvidae-lang/gawk/internal/types"
)

// record is component C: the current input record, its fields, and the
// bookkeeping variables (NR, FNR, NF, FILENAME) that travel with it. $0 and
// the field slice are kept lazily in sync: splitting $0 into fields is
// deferred until a field is actually read, and rebuilding $0 from the
// fields is deferred until $0 is actually read after a field write.
type record struct {
	line      string
	fields    []string // fields[0] is $1
	haveSplit bool
	dirty     bool // fields were written since the last $0 rebuild

	nr, fnr int
	nf      int
	filename string

	fs, ofs, ors, rs string

	regexes *runtime.RegexCache
}

func newRecord(regexes *runtime.RegexCache) *record {
	return &record{
		fs: " ", ofs: " ", ors: "\n", rs: "\n",
		regexes: regexes,
	}
}

// setLine installs a new $0, invalidating any previously split fields.
func (r *record) setLine(s string) {
	r.line = s
	r.haveSplit = false
	r.dirty = false
	r.nf = 0
}

// ensureSplit splits $0 into fields on first access after setLine.
func (r *record) ensureSplit() {
	if r.haveSplit {
		return
	}
	r.fields = splitByFS(r.line, r.fs, r.regexes)
	r.nf = len(r.fields)
	r.haveSplit = true
}

// splitByFS implements FS semantics: a single space means "runs of
// whitespace, trimmed at both ends"; a single non-space byte splits
// literally on that byte; the empty string splits into individual
// characters (a gawk extension kept since the record manager already
// generalizes to it); anything else is a regular expression. split()'s
// optional third argument is interpreted the same way.
func splitByFS(line, fs string, regexes *runtime.RegexCache) []string {
	switch {
	case fs == " ":
		return strings.Fields(line)
	case fs == "":
		out := make([]string, 0, len(line))
		for _, ch := range line {
			out = append(out, string(ch))
		}
		return out
	case len(fs) == 1:
		if line == "" {
			return nil
		}
		return strings.Split(line, fs)
	default:
		if line == "" {
			return nil
		}
		re, err := regexes.Get(fs)
		if err != nil {
			return strings.Split(line, fs)
		}
		return re.Split(line, -1)
	}
}

// rebuild joins the current fields with OFS into a new $0, clearing dirty.
func (r *record) rebuild() {
	r.line = strings.Join(r.fields, r.ofs)
	r.dirty = false
}

// field0 returns $0, rebuilding it first if fields were edited since.
func (r *record) field0() string {
	if r.dirty {
		r.rebuild()
	}
	return r.line
}

// field returns $i (i==0 means $0). Callers are expected to have already
// rejected i<0 (fieldIndex does this); a bare read past NF is likewise
// rejected by the caller before reaching here, so the i>len(r.fields) guard
// below only ever fires from a read-modify-write lvalue (compound
// assignment, ++/--, sub/gsub's target), where returning "" for the
// not-yet-written tail is correct.
func (r *record) field(i int) string {
	if i == 0 {
		return r.field0()
	}
	r.ensureSplit()
	if i < 1 || i > len(r.fields) {
		return ""
	}
	return r.fields[i-1]
}

// setField assigns $i = s, growing the field list with empty strings when i
// exceeds NF (POSIX field-growth), and rebuilding $0 lazily on next read.
func (r *record) setField(i int, s string) {
	if i == 0 {
		r.setLine(s)
		return
	}
	r.ensureSplit()
	if i > len(r.fields) {
		grown := make([]string, i)
		copy(grown, r.fields)
		r.fields = grown
	}
	r.fields[i-1] = s
	if i > r.nf {
		r.nf = i
	}
	r.dirty = true
}

// getNF returns NF, splitting $0 first if that has not happened yet.
func (r *record) getNF() int {
	r.ensureSplit()
	return r.nf
}

// setNF truncates or zero-pads the field list to n fields and marks $0 for
// rebuild, matching real AWK's "assigning NF edits the record" behavior.
func (r *record) setNF(n int) {
	r.ensureSplit()
	if n < 0 {
		n = 0
	}
	if n == len(r.fields) {
		r.nf = n
		r.dirty = true
		return
	}
	grown := make([]string, n)
	copy(grown, r.fields)
	r.fields = grown
	r.nf = n
	r.dirty = true
}

// getSpecial reads one of the record-owned special variables by name.
// ok is false if name isn't one of them.
func (it *Interp) getSpecial(name string) (types.Value, bool) {
	r := it.rec
	switch name {
	case "NF":
		return types.Num(float64(r.getNF())), true
	case "NR":
		return types.Num(float64(r.nr)), true
	case "FNR":
		return types.Num(float64(r.fnr)), true
	case "FS":
		return types.Str(r.fs), true
	case "OFS":
		return types.Str(r.ofs), true
	case "ORS":
		return types.Str(r.ors), true
	case "RS":
		return types.Str(r.rs), true
	case "FILENAME":
		return types.Str(r.filename), true
	case "SUBSEP":
		return types.Str(it.subsep), true
	case "CONVFMT":
		return types.Str(it.convfmt), true
	case "OFMT":
		return types.Str(it.ofmt), true
	case "RSTART":
		return types.Num(float64(it.rstart)), true
	case "RLENGTH":
		return types.Num(float64(it.rlength)), true
	}
	return types.Value{}, false
}

// setSpecial writes one of the record-owned special variables, applying
// the side effects real AWK gives them (NF edits the record, FS/RS change
// how the next split/read behaves). ok is false if name isn't one of them.
func (it *Interp) setSpecial(name string, v types.Value) bool {
	r := it.rec
	switch name {
	case "NF":
		r.setNF(int(v.AsNum()))
	case "NR":
		r.nr = int(v.AsNum())
	case "FNR":
		r.fnr = int(v.AsNum())
	case "FS":
		r.fs = v.AsStr(it.convfmt)
	case "OFS":
		r.ofs = v.AsStr(it.convfmt)
	case "ORS":
		r.ors = v.AsStr(it.convfmt)
	case "RS":
		r.rs = v.AsStr(it.convfmt)
	case "FILENAME":
		r.filename = v.AsStr(it.convfmt)
	case "SUBSEP":
		it.subsep = v.AsStr(it.convfmt)
	case "CONVFMT":
		it.convfmt = v.AsStr(it.convfmt)
	case "OFMT":
		it.ofmt = v.AsStr(it.convfmt)
	case "RSTART":
		it.rstart = int(v.AsNum())
	case "RLENGTH":
		it.rlength = int(v.AsNum())
	default:
		return false
	}
	return true
}
