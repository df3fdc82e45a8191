package interp

import (
	"github.com/corvidae-lang/gawk/internal/ast"
)

// execute is component E: one dispatch per statement kind, using Go errors
// as the vehicle for the non-local jumps (break/continue/return/next/
// nextfile/exit) a block can't otherwise express.
func (it *Interp) execute(fr *frame, s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.ExprStmt:
		_, err := it.eval(fr, n.Expr)
		return err

	case *ast.BlockStmt:
		for _, stmt := range n.Stmts {
			if err := it.execute(fr, stmt); err != nil {
				return err
			}
		}
		return nil

	case *ast.PrintStmt:
		return it.execPrint(fr, n)

	case *ast.IfStmt:
		c, err := it.eval(fr, n.Cond)
		if err != nil {
			return err
		}
		if c.AsBool() {
			return it.execute(fr, n.Then)
		}
		if n.Else != nil {
			return it.execute(fr, n.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			c, err := it.eval(fr, n.Cond)
			if err != nil {
				return err
			}
			if !c.AsBool() {
				return nil
			}
			if err := it.execute(fr, n.Body); err != nil {
				if err == errBreak {
					return nil
				}
				if err == errContinue {
					continue
				}
				return err
			}
		}

	case *ast.DoWhileStmt:
		for {
			if err := it.execute(fr, n.Body); err != nil {
				if err == errBreak {
					return nil
				}
				if err != errContinue {
					return err
				}
			}
			c, err := it.eval(fr, n.Cond)
			if err != nil {
				return err
			}
			if !c.AsBool() {
				return nil
			}
		}

	case *ast.ForStmt:
		if n.Init != nil {
			if err := it.execute(fr, n.Init); err != nil {
				return err
			}
		}
		for {
			if n.Cond != nil {
				c, err := it.eval(fr, n.Cond)
				if err != nil {
					return err
				}
				if !c.AsBool() {
					return nil
				}
			}
			if err := it.execute(fr, n.Body); err != nil {
				if err == errBreak {
					return nil
				}
				if err != errContinue {
					return err
				}
			}
			if n.Post != nil {
				if err := it.execute(fr, n.Post); err != nil {
					return err
				}
			}
		}

	case *ast.ForInStmt:
		arrCell, err := it.arrayCellOf(fr, n.Array, true)
		if err != nil {
			return err
		}
		m, _ := arrCell.asArray()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		lv, err := it.lvalueOf(fr, n.Var)
		if err != nil {
			return err
		}
		for _, k := range keys {
			lv.set(stringValue(k))
			if err := it.execute(fr, n.Body); err != nil {
				if err == errBreak {
					return nil
				}
				if err == errContinue {
					continue
				}
				return err
			}
		}
		return nil

	case *ast.BreakStmt:
		return errBreak

	case *ast.ContinueStmt:
		return errContinue

	case *ast.NextStmt:
		return errNext

	case *ast.NextFileStmt:
		return errNextFile

	case *ast.ReturnStmt:
		if n.Value == nil {
			return &returnSignal{}
		}
		v, err := it.eval(fr, n.Value)
		if err != nil {
			return err
		}
		return &returnSignal{value: v}

	case *ast.ExitStmt:
		code := 0
		if n.Code != nil {
			v, err := it.eval(fr, n.Code)
			if err != nil {
				return err
			}
			code = int(v.AsNum())
		}
		return &exitSignal{code: code}

	case *ast.DeleteStmt:
		return it.execDelete(fr, n)
	}
	return it.progErr(s, "unsupported statement %T", s)
}

func (it *Interp) execDelete(fr *frame, n *ast.DeleteStmt) error {
	arrCell, err := it.arrayCellOf(fr, n.Array, true)
	if err != nil {
		return err
	}
	m, _ := arrCell.asArray()
	if len(n.Index) == 0 {
		for k := range m {
			delete(m, k)
		}
		return nil
	}
	cur := arrCell
	for i, idxExpr := range n.Index {
		kv, err := it.eval(fr, idxExpr)
		if err != nil {
			return err
		}
		key := arrayKey(kv)
		cm, ok := cur.asArray()
		if !ok {
			return it.typeErr(n, "scalar value used as an array")
		}
		last := i == len(n.Index)-1
		if last {
			if _, ok := cm[key]; !ok {
				return it.idxErr(n, "delete: index %q not present in array", key)
			}
			delete(cm, key)
			return nil
		}
		next, ok := cm[key]
		if !ok {
			return it.idxErr(n, "delete: index %q not present in array", key)
		}
		cur = next
	}
	return nil
}
