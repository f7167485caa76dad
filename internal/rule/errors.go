package rule

import (
	"errors"
	"fmt"
)

// CompileErrorCode categorizes rule compilation errors.
type CompileErrorCode string

const (
	// ErrCodeParse indicates malformed rule text.
	ErrCodeParse CompileErrorCode = "PARSE"

	// ErrCodeUnknownPredicate indicates a head or body predicate that
	// resolves to no registered relation.
	ErrCodeUnknownPredicate CompileErrorCode = "UNKNOWN_PREDICATE"

	// ErrCodeArityMismatch indicates an atom whose argument count does
	// not match its relation.
	ErrCodeArityMismatch CompileErrorCode = "ARITY_MISMATCH"

	// ErrCodeExtensionalHead indicates a rule deriving into a stored
	// relation. Only intensional relations have definitions.
	ErrCodeExtensionalHead CompileErrorCode = "EXTENSIONAL_HEAD"

	// ErrCodeEmptyBody indicates a rule with no body literals.
	ErrCodeEmptyBody CompileErrorCode = "EMPTY_BODY"

	// ErrCodeUnsafeHeadVariable indicates a head variable not bound by
	// any positive body literal.
	ErrCodeUnsafeHeadVariable CompileErrorCode = "UNSAFE_HEAD_VARIABLE"

	// ErrCodeUnboundNegation indicates a negated literal with a
	// variable not bound by the positive literals before it.
	ErrCodeUnboundNegation CompileErrorCode = "UNBOUND_NEGATION"
)

// CompileError is a malformed-program error raised while compiling a
// rule, before any evaluation. Fatal to the rule; never retried.
type CompileError struct {
	Code    CompileErrorCode
	Rule    string
	Message string
}

func (e *CompileError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("%s: %s (rule=%s)", e.Code, e.Message, e.Rule)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCompileError reports whether err is a CompileError with the given
// code. Handles wrapped errors.
func IsCompileError(err error, code CompileErrorCode) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
