package program

import (
	"fmt"

	"github.com/ianhorswill/ted/internal/engine"
	"github.com/ianhorswill/ted/internal/rule"
	"github.com/ianhorswill/ted/internal/table"
	"github.com/ianhorswill/ted/internal/term"
)

// Build wires a compiled program into a live scheduler: relations
// register in declaration order, indexes are declared, and each
// intensional relation gets its definition assembled from its rules
// in declaration order.
//
// An intensional relation with no rules is legal: it derives nothing,
// every tick.
func Build(prog *Program, opts ...engine.Option) (*engine.Scheduler, error) {
	s := engine.New(opts...)

	for _, decl := range prog.Relations {
		var (
			r   *table.Relation
			err error
		)
		switch decl.Kind {
		case "extensional":
			r, err = table.NewExtensional(s, decl.Name, decl.Arity)
		case "intensional":
			r, err = table.NewIntensional(s, decl.Name, decl.Arity)
		default:
			err = fmt.Errorf("relation %s: invalid kind %q", decl.Name, decl.Kind)
		}
		if err != nil {
			return nil, err
		}
		for _, cols := range decl.Indexes {
			if _, err := r.AddIndex(cols...); err != nil {
				return nil, err
			}
		}
	}

	byHead := make(map[string][]*rule.CompiledRule)
	for _, rd := range prog.Rules {
		parsed, err := parseRule(rd)
		if err != nil {
			return nil, err
		}
		cr, err := rule.Compile(parsed, s)
		if err != nil {
			return nil, err
		}
		name := cr.Head().Name()
		byHead[name] = append(byHead[name], cr)
	}

	for _, decl := range prog.Relations {
		if decl.Kind != "intensional" {
			continue
		}
		r, _ := s.Relation(decl.Name)
		rules := byHead[decl.Name]
		var def table.Definition
		if len(rules) == 0 {
			def = func() ([]term.Tuple, error) { return nil, nil }
		} else {
			def = rule.Definition(rules)
		}
		if err := r.SetDefinition(def); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func parseRule(rd RuleDecl) (rule.Rule, error) {
	head, err := rule.ParseAtom(rd.Head)
	if err != nil {
		return rule.Rule{}, &rule.CompileError{
			Code: rule.ErrCodeParse, Rule: rd.Name, Message: err.Error(),
		}
	}
	body := make([]rule.Literal, len(rd.Body))
	for i, lit := range rd.Body {
		l, err := rule.ParseLiteral(lit)
		if err != nil {
			return rule.Rule{}, &rule.CompileError{
				Code: rule.ErrCodeParse, Rule: rd.Name, Message: err.Error(),
			}
		}
		body[i] = l
	}
	return rule.Rule{Name: rd.Name, Head: head, Body: body}, nil
}
