package extract

import "fmt"

// Kind classifies why extraction failed
type Kind int

const (
	KindNoStructureFound Kind = iota + 1
	KindMalformedSyntax
	KindSchemaMismatch
)

func (k Kind) String() string {
	switch k {
	case KindNoStructureFound:
		return "no_structure_found"
	case KindMalformedSyntax:
		return "malformed_syntax"
	case KindSchemaMismatch:
		return "schema_mismatch"
	default:
		return "unknown"
	}
}

// Error is returned for every extraction failure. Span holds the candidate
// substring that failed to parse or validate, for diagnostics.
type Error struct {
	Kind   Kind
	Shape  Shape
	Span   string
	Detail string
	Err    error
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrNoStructureFound = &Error{Kind: KindNoStructureFound}
	ErrMalformedSyntax  = &Error{Kind: KindMalformedSyntax}
	ErrSchemaMismatch   = &Error{Kind: KindSchemaMismatch}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoStructureFound:
		return fmt.Sprintf("no JSON %s found in response", e.Shape)
	case KindMalformedSyntax:
		return "invalid JSON format: " + e.Detail
	case KindSchemaMismatch:
		return "unexpected JSON shape: " + e.Detail
	default:
		return "extraction failed: " + e.Detail
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can use the package sentinels
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func noStructure(shape Shape) *Error {
	return &Error{Kind: KindNoStructureFound, Shape: shape}
}

func malformed(shape Shape, span string, err error) *Error {
	return &Error{Kind: KindMalformedSyntax, Shape: shape, Span: span, Detail: err.Error(), Err: err}
}

func mismatch(shape Shape, span, format string, args ...any) *Error {
	return &Error{Kind: KindSchemaMismatch, Shape: shape, Span: span, Detail: fmt.Sprintf(format, args...)}
}
