package iso8583

import "fmt"

// Kind tags the category of failure so callers can branch with errors.Is
// instead of parsing error strings.
type Kind string

const (
	KindMTIMissing           Kind = "mti_missing"
	KindMTIInvalid           Kind = "mti_invalid"
	KindBitmapExtraction     Kind = "bitmap_extraction_failed"
	KindInvalidLength        Kind = "invalid_length"
	KindLengthExceeded       Kind = "length_exceeded"
	KindValidationFailed     Kind = "validation_failed"
	KindUnknownField         Kind = "unknown_field"
	KindInvalidCompositeData Kind = "invalid_composite_data"
	KindFormatAmbiguous      Kind = "format_ambiguous"
	KindBufferTooSmall       Kind = "buffer_too_small"
)

// Error is the single structured error type returned by this package.
// Field carries the field identifier the failure relates to, if any
// ("39", "127.25.3", ...). Context holds kind-specific detail for logging
// or programmatic inspection; it is never required for correctness checks,
// only for diagnostics.
type Error struct {
	Kind    Kind
	Field   string
	Context map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("iso8583: %s: field %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("iso8583: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, &iso8583.Error{Kind: iso8583.KindInvalidLength})
// match on kind alone, without requiring Field/Context to line up.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, field string, ctx map[string]any) *Error {
	return &Error{Kind: kind, Field: field, Context: ctx}
}

func wrapErr(kind Kind, field string, cause error) *Error {
	return &Error{Kind: kind, Field: field, Err: cause}
}
