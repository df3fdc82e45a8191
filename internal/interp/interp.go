package interp

import (
	"bufio"
	"io"
	"math/rand"
	"strings"

	"github.com/corvidae-lang/gawk/internal/ast"
	"github.com/corvidae-lang/gawk/internal/runtime"
	"github.com/corvidae-lang/gawk/internal/semantic"
	"github.com/corvidae-lang/gawk/internal/types"
)

// Options configures one Run of an interpreter: separators, preset
// variables, and the writers output and diagnostics go to.
type Options struct {
	FS, RS, OFS, ORS string
	Variables        map[string]string
	Args             []string // ARGV[1:]; ARGV[0] is always "gawk"
	Output           io.Writer
	Stderr           io.Writer
	Environ          []string // "KEY=VALUE" pairs, seeds ENVIRON
}

// Interp holds everything one execution of a parsed program needs: the
// two-tier variable environment (component B), the current record
// (component C), the regex/IO runtime, and the function table used by
// component G.
type Interp struct {
	prog     *ast.Program
	resolved *semantic.ResolveResult
	funcs    map[string]*ast.FuncDecl

	globals map[string]*cell
	rec     *record

	subsep  string
	convfmt string
	ofmt    string
	rstart  int
	rlength int

	regexes *runtime.RegexCache
	io      *runtime.IOManager

	out    *bufio.Writer
	errw   io.Writer
	rawOut io.Writer

	rng      *rand.Rand
	rngSeed  float64
	input    *inputState
	rangeOn  map[*ast.Rule]bool
	exitCode int
	exited   bool
}

// New builds an interpreter for prog, pre-seeding globals/ARGV/ARGC/ENVIRON
// per the constructor ordering used throughout: seed once, never discard.
func New(prog *ast.Program, resolved *semantic.ResolveResult, opts Options) *Interp {
	if opts.Output == nil {
		panic("interp.New: Options.Output must not be nil")
	}
	it := &Interp{
		prog:     prog,
		resolved: resolved,
		funcs:    make(map[string]*ast.FuncDecl),
		globals:  make(map[string]*cell),
		regexes:  runtime.NewRegexCache(256),
		io:       runtime.NewIOManager(),
		rawOut:   opts.Output,
		errw:     opts.Stderr,
		rng:      rand.New(rand.NewSource(0)),
		rangeOn:  make(map[*ast.Rule]bool),
	}
	it.out = bufio.NewWriter(opts.Output)
	it.rec = newRecord(it.regexes)

	for _, fn := range prog.Functions {
		it.funcs[fn.Name] = fn
	}

	it.subsep = "\x1c"
	it.convfmt = "%.6g"
	it.ofmt = "%.6g"

	if opts.FS != "" {
		it.rec.fs = opts.FS
	}
	if opts.RS != "" {
		it.rec.rs = opts.RS
	}
	if opts.OFS != "" {
		it.rec.ofs = opts.OFS
	}
	if opts.ORS != "" {
		it.rec.ors = opts.ORS
	}

	argv := newArrayCell()
	argv.array["0"] = newScalarCell(types.Str("gawk"))
	for i, a := range opts.Args {
		argv.array[arrayKey(types.Num(float64(i+1)))] = newScalarCell(types.NumStr(a))
	}
	it.globals["ARGV"] = argv
	it.globals["ARGC"] = newScalarCell(types.Num(float64(len(opts.Args) + 1)))

	env := newArrayCell()
	for _, kv := range opts.Environ {
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			env.array[kv[:idx]] = newScalarCell(types.NumStr(kv[idx+1:]))
		}
	}
	it.globals["ENVIRON"] = env

	for name, val := range opts.Variables {
		it.globals[name] = newScalarCell(types.NumStr(val))
	}

	return it
}
