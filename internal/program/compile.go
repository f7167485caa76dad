// Package program compiles CUE program files into a wired scheduler
// and loads YAML fact files.
//
// A program file declares relations and rules:
//
//	relation: {
//		Edge: {arity: 2, kind: "extensional", indexes: [[0]]}
//		Path: {arity: 2, kind: "intensional"}
//	}
//	rule: {
//		path_direct: {head: "Path(X, Y)", body: ["Edge(X, Y)"]}
//	}
//
// Declaration order is semantic: relations register in order and
// rules for one head evaluate in order.
package program

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// RelationDecl is one declared relation.
type RelationDecl struct {
	Name    string
	Arity   int
	Kind    string // "extensional" or "intensional"
	Indexes [][]int
}

// RuleDecl is one declared rule, still in text form.
type RuleDecl struct {
	Name string
	Head string
	Body []string
}

// Program is a compiled program file set, in declaration order.
type Program struct {
	Relations []RelationDecl
	Rules     []RuleDecl
}

// CompileError is a positioned program compilation error.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile parses a CUE value into a Program. The value is the unified
// content of a program directory's .cue files.
func Compile(v cue.Value) (*Program, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	prog := &Program{}

	relVal := v.LookupPath(cue.ParsePath("relation"))
	if !relVal.Exists() {
		return nil, &CompileError{
			Field:   "relation",
			Message: "program declares no relations",
			Pos:     v.Pos(),
		}
	}
	iter, err := relVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		// The label may be quoted in CUE source; strip the quotes.
		decl, err := compileRelation(strings.Trim(iter.Selector().String(), `"`), iter.Value())
		if err != nil {
			return nil, err
		}
		prog.Relations = append(prog.Relations, decl)
	}

	ruleVal := v.LookupPath(cue.ParsePath("rule"))
	if ruleVal.Exists() {
		iter, err := ruleVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			decl, err := compileRule(strings.Trim(iter.Selector().String(), `"`), iter.Value())
			if err != nil {
				return nil, err
			}
			prog.Rules = append(prog.Rules, decl)
		}
	}

	return prog, nil
}

func compileRelation(name string, v cue.Value) (RelationDecl, error) {
	decl := RelationDecl{Name: name}

	arityVal := v.LookupPath(cue.ParsePath("arity"))
	if !arityVal.Exists() {
		return decl, &CompileError{Field: name + ".arity", Message: "arity is required", Pos: v.Pos()}
	}
	arity, err := arityVal.Int64()
	if err != nil {
		return decl, formatCUEError(err)
	}
	if arity < 0 {
		return decl, &CompileError{Field: name + ".arity", Message: "arity must be non-negative", Pos: arityVal.Pos()}
	}
	decl.Arity = int(arity)

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return decl, &CompileError{Field: name + ".kind", Message: "kind is required", Pos: v.Pos()}
	}
	kind, err := kindVal.String()
	if err != nil {
		return decl, formatCUEError(err)
	}
	if kind != "extensional" && kind != "intensional" {
		return decl, &CompileError{
			Field:   name + ".kind",
			Message: fmt.Sprintf("invalid kind %q: must be extensional or intensional", kind),
			Pos:     kindVal.Pos(),
		}
	}
	decl.Kind = kind

	idxVal := v.LookupPath(cue.ParsePath("indexes"))
	if idxVal.Exists() {
		outer, err := idxVal.List()
		if err != nil {
			return decl, formatCUEError(err)
		}
		for outer.Next() {
			inner, err := outer.Value().List()
			if err != nil {
				return decl, formatCUEError(err)
			}
			var cols []int
			for inner.Next() {
				c, err := inner.Value().Int64()
				if err != nil {
					return decl, formatCUEError(err)
				}
				cols = append(cols, int(c))
			}
			decl.Indexes = append(decl.Indexes, cols)
		}
	}

	return decl, nil
}

func compileRule(name string, v cue.Value) (RuleDecl, error) {
	decl := RuleDecl{Name: name}

	headVal := v.LookupPath(cue.ParsePath("head"))
	if !headVal.Exists() {
		return decl, &CompileError{Field: name + ".head", Message: "head is required", Pos: v.Pos()}
	}
	head, err := headVal.String()
	if err != nil {
		return decl, formatCUEError(err)
	}
	decl.Head = head

	bodyVal := v.LookupPath(cue.ParsePath("body"))
	if !bodyVal.Exists() {
		return decl, &CompileError{Field: name + ".body", Message: "body is required", Pos: v.Pos()}
	}
	iter, err := bodyVal.List()
	if err != nil {
		return decl, formatCUEError(err)
	}
	for iter.Next() {
		lit, err := iter.Value().String()
		if err != nil {
			return decl, formatCUEError(err)
		}
		decl.Body = append(decl.Body, lit)
	}
	if len(decl.Body) == 0 {
		return decl, &CompileError{Field: name + ".body", Message: "body must have at least one literal", Pos: bodyVal.Pos()}
	}

	return decl, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	var cueErr errors.Error
	if errors.As(err, &cueErr) {
		return &CompileError{
			Field:   "cue",
			Message: cueErr.Error(),
			Pos:     cueErr.Position(),
		}
	}
	return err
}
