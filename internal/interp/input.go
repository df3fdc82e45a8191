package interp

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/corvidae-lang/gawk/internal/runtime"
)

// inputState is the main input stream the pattern/action driver and the
// unredirected forms of getline both read from: the records of ARGV[1],
// then ARGV[2], and so on, falling back to stdin when no file operands
// (or only var=value assignments) are given.
type inputState struct {
	it       *Interp
	stdin    io.Reader
	argIndex int // next ARGV slot to try
	records  []string
	pos      int
	opened   bool
}

func newInputState(it *Interp, stdin io.Reader) *inputState {
	return &inputState{it: it, stdin: stdin, argIndex: 1}
}

// next returns the next record from the main input, advancing across file
// operands and resetting FNR/FILENAME as each new file is opened. ok is
// false at true end of input.
func (in *inputState) next() (string, bool, error) {
	for {
		if in.pos < len(in.records) {
			rec := in.records[in.pos]
			in.pos++
			in.it.rec.fnr++
			in.it.rec.nr++
			return rec, true, nil
		}
		if !in.openNext() {
			return "", false, nil
		}
	}
}

// skipFile discards the remainder of the current file, implementing
// nextfile.
func (in *inputState) skipFile() {
	in.pos = len(in.records)
}

// openNext advances to the next ARGV file operand (or stdin, once, if none
// apply), reads it whole, and splits it into records by RS. Returns false
// once every operand has been consumed.
func (in *inputState) openNext() bool {
	argv, argc := in.it.argv()
	for in.argIndex < argc {
		name := argvString(argv, in.argIndex)
		in.argIndex++
		if name == "" {
			continue
		}
		if eq := strings.IndexByte(name, '='); eq > 0 && isValidVarName(name[:eq]) {
			in.it.globals[name[:eq]] = newScalarCell(stringValue(name[eq+1:]))
			continue
		}
		data, err := readAll(name)
		if err != nil {
			continue
		}
		in.it.rec.filename = name
		in.it.rec.fnr = 0
		in.records = splitRecords(data, in.it.rec.rs, in.it.regexes)
		in.pos = 0
		in.opened = true
		return true
	}
	if !in.opened && in.stdin != nil {
		in.opened = true
		data, _ := io.ReadAll(in.stdin)
		in.it.rec.filename = ""
		in.it.rec.fnr = 0
		in.records = splitRecords(string(data), in.it.rec.rs, in.it.regexes)
		in.pos = 0
		in.stdin = nil
		return len(in.records) > 0
	}
	return false
}

func readAll(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	return string(data), err
}

func isValidVarName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// splitRecords implements RS semantics: "\n" is the common line-based
// case, "" is paragraph mode (records separated by one or more blank
// lines; with the default FS the newline inside a record separates fields
// like any other whitespace), a single character splits literally, and anything longer is a
// regular expression, mirroring how FS is interpreted.
func splitRecords(data, rs string, regexes *runtime.RegexCache) []string {
	switch {
	case rs == "\n":
		if data == "" {
			return nil
		}
		lines := strings.Split(data, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		return lines
	case rs == "":
		paras := []string{}
		for _, p := range strings.Split(data, "\n\n") {
			p = strings.Trim(p, "\n")
			if p != "" {
				paras = append(paras, p)
			}
		}
		return paras
	case len(rs) == 1:
		if data == "" {
			return nil
		}
		parts := strings.Split(data, rs)
		if len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		return parts
	default:
		re, err := regexes.Get(rs)
		if err != nil {
			return []string{data}
		}
		parts := re.Split(data, -1)
		if len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		return parts
	}
}

// argv returns the ARGV array cell and the current ARGC as an int.
func (it *Interp) argv() (map[string]*cell, int) {
	c := it.globals["ARGV"]
	argc := int(it.globals["ARGC"].scalar.AsNum())
	if c == nil {
		return nil, argc
	}
	m, _ := c.asArray()
	return m, argc
}

func argvString(argv map[string]*cell, i int) string {
	c, ok := argv[arrayKeyInt(i)]
	if !ok {
		return ""
	}
	return c.scalar.AsStr("%.6g")
}

func arrayKeyInt(i int) string {
	return strconv.Itoa(i)
}
