package resolve

import "la/src/tree"

// alwaysReturns implements the missing-return predicate: a block
// returns on every path iff its last statement does (recursing through
// nested If/Switch structure), treating a trailing If whose every branch
// (including an else) returns, or a Switch with a default where every case
// and the default return, as returning.
func alwaysReturns(body []tree.Statement) bool {
	if len(body) == 0 {
		return false
	}
	return stmtAlwaysReturns(body[len(body)-1])
}

func stmtAlwaysReturns(s tree.Statement) bool {
	switch v := s.(type) {
	case *tree.Return:
		return true
	case *tree.Block:
		return alwaysReturns(v.Body)
	case *tree.If:
		if !v.HasElse {
			return false
		}
		for _, b := range v.Branches {
			if !alwaysReturns(b.Body) {
				return false
			}
		}
		return alwaysReturns(v.Else)
	case *tree.Switch:
		if !v.HasDefault {
			return false
		}
		for _, c := range v.Cases {
			if !alwaysReturns(c.Body) {
				return false
			}
		}
		return alwaysReturns(v.Default)
	case *tree.ForEver:
		// An unconditional loop whose body always returns (and contains no
		// reachable break) is treated conservatively as returning only when
		// no Break statement appears anywhere directly in its body.
		return alwaysReturns(v.Body) && !containsBreak(v.Body)
	default:
		return false
	}
}

func containsBreak(body []tree.Statement) bool {
	for _, s := range body {
		switch v := s.(type) {
		case *tree.Break:
			return true
		case *tree.Block:
			if containsBreak(v.Body) {
				return true
			}
		case *tree.If:
			for _, b := range v.Branches {
				if containsBreak(b.Body) {
					return true
				}
			}
			if containsBreak(v.Else) {
				return true
			}
		}
	}
	return false
}
