package ast

// Dump converts the program to a plain map tree with "kind" discriminators,
// suitable for marshaling to JSON or YAML.
func Dump(p *Program) map[string]any {
	sections := make([]any, 0, len(p.Sections))
	for _, s := range p.Sections {
		sections = append(sections, dumpSection(s))
	}

	m := map[string]any{
		"kind":     "program",
		"block":    p.BlockID,
		"sections": sections,
	}

	if p.Execute != nil {
		outputs := make([]any, 0, len(p.Execute.Outputs))
		for _, out := range p.Execute.Outputs {
			o := map[string]any{"kind": out.Kind.String()}

			if out.Kind == OutputGive {
				o["block"] = out.BlockID
			} else {
				o["target"] = out.Target
			}

			outputs = append(outputs, o)
		}

		m["execute"] = map[string]any{
			"block":   p.Execute.BlockID,
			"outputs": outputs,
		}
	}

	return m
}

func dumpSection(section Section) map[string]any {
	switch s := section.(type) {
	case *Data:
		return map[string]any{
			"kind":       "data",
			"name":       s.Name,
			"id":         s.ID,
			"statements": dumpStmts(s.Statements),
		}

	case *Operation:
		return map[string]any{
			"kind": "operation",
			"name": s.Name,
			"id":   s.ID,
			"body": dumpStmts(s.Body),
		}

	case *Function:
		return map[string]any{
			"kind": "function",
			"name": s.Name,
			"id":   s.ID,
			"body": dumpStmts(s.Body),
		}

	case *SystemCall:
		return map[string]any{
			"kind": "system_call",
			"body": dumpStmts(s.Body),
		}

	default:
		return map[string]any{"kind": "unknown"}
	}
}

func dumpStmts(stmts []Statement) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, dumpStmt(s))
	}

	return out
}

func dumpStmt(stmt Statement) map[string]any {
	switch s := stmt.(type) {
	case *Let:
		return map[string]any{"kind": "let", "name": s.Name, "value": s.Value.Text}
	case *Say:
		return map[string]any{"kind": "say", "message": s.Message.Text}
	case *Run:
		return map[string]any{"kind": "run", "operation": s.OperationID}
	case *If:
		return map[string]any{
			"kind":      "if",
			"condition": s.Condition,
			"then":      dumpStmts(s.Then),
			"else":      dumpStmts(s.Else),
		}
	case *While:
		return map[string]any{
			"kind":      "while",
			"condition": s.Condition,
			"body":      dumpStmts(s.Body),
		}
	case *Open:
		return map[string]any{"kind": "open", "path": s.Path.Text}
	case *Read:
		return map[string]any{"kind": "read", "path": s.Path.Text}
	case *Write:
		return map[string]any{
			"kind":     "write",
			"content":  s.Content.Text,
			"path":     s.Path.Text,
			"location": s.Location.Text,
		}
	case *Now:
		return map[string]any{"kind": "now", "body": dumpStmts(s.Body)}
	case *Do:
		return map[string]any{"kind": "do", "body": dumpStmts(s.Body)}
	case *Until:
		return map[string]any{"kind": "until", "condition": s.Condition}
	case *Assignment:
		return map[string]any{"kind": "assignment", "name": s.Name, "value": s.Value.Text}
	case *Increment:
		op := "++"
		if s.Decrement {
			op = "--"
		}

		return map[string]any{"kind": "increment", "name": s.Name, "op": op}
	default:
		return map[string]any{"kind": "unknown"}
	}
}
