package interp

import (
	"io"

	"github.com/corvidae-lang/gawk/internal/ast"
)

// Run is component F: the pattern/action driver. It runs every BEGIN
// block, then (if the program reads input at all) one pass over records
// evaluating each rule's pattern in source order, then every END block.
func (it *Interp) Run(input io.Reader) error {
	it.input = newInputState(it, input)

	for _, b := range it.prog.Begin {
		if err := it.execute(nil, b); err != nil {
			if es, ok := err.(*exitSignal); ok {
				it.exited = true
				it.exitCode = es.code
				return it.runEnd()
			}
			return err
		}
	}

	if len(it.prog.Rules) > 0 || len(it.prog.EndBlocks) > 0 {
		if err := it.mainLoop(); err != nil {
			if es, ok := err.(*exitSignal); ok {
				it.exited = true
				it.exitCode = es.code
			} else {
				return err
			}
		}
	}

	return it.runEnd()
}

func (it *Interp) mainLoop() error {
recordLoop:
	for {
		line, ok, err := it.input.next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		it.rec.setLine(line)

		for _, rule := range it.prog.Rules {
			matched, err := it.ruleMatches(rule)
			if err != nil {
				return err
			}
			if !matched {
				continue
			}
			if rule.Action == nil {
				if _, err := io.WriteString(it.out, it.rec.field0()+it.rec.ors); err != nil {
					return err
				}
				continue
			}
			if err := it.execute(nil, rule.Action); err != nil {
				switch err {
				case errNext:
					continue recordLoop
				case errNextFile:
					it.input.skipFile()
					continue recordLoop
				default:
					return err
				}
			}
		}
	}
}

func (it *Interp) runEnd() error {
	for _, b := range it.prog.EndBlocks {
		if err := it.execute(nil, b); err != nil {
			if es, ok := err.(*exitSignal); ok {
				it.exitCode = es.code
				break
			}
			return err
		}
	}
	return it.Flush()
}

// ruleMatches evaluates a rule's pattern: nil always matches, a bare regex
// matches against $0 (handled by eval's *ast.RegexLit case), and a range
// pattern (/start/,/end/, modeled as *ast.CommaExpr) tracks per-rule
// whether it is currently "inside" the range across records.
func (it *Interp) ruleMatches(rule *ast.Rule) (bool, error) {
	if rule.Pattern == nil {
		return true, nil
	}
	if comma, ok := rule.Pattern.(*ast.CommaExpr); ok {
		if !it.rangeOn[rule] {
			startV, err := it.eval(nil, comma.Left)
			if err != nil {
				return false, err
			}
			if !startV.AsBool() {
				return false, nil
			}
		}
		endV, err := it.eval(nil, comma.Right)
		if err != nil {
			return false, err
		}
		it.rangeOn[rule] = !endV.AsBool()
		return true, nil
	}
	v, err := it.eval(nil, rule.Pattern)
	if err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

// ExitCode returns the code passed to exit, or 0 if the program never
// called exit.
func (it *Interp) ExitCode() int {
	return it.exitCode
}

// Exited reports whether the program terminated via an exit statement.
func (it *Interp) Exited() bool {
	return it.exited
}
