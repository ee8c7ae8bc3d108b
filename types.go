package iso8583

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Message maps field identifiers ("2".."128", "127.N", "127.25.N", "120.N")
// to their logical string value. For content_type=b fields the value is
// upper-case hex text representing the underlying bytes; every other
// content type stores its text content verbatim. Field 1 and field 65 are
// reserved continuation markers and never appear here.
type Message map[string]string

// ContentType is the character-set rule a field's text content must follow.
type ContentType string

const (
	ContentN   ContentType = "n"   // numeric, 0-9
	ContentA   ContentType = "a"   // alphabetic
	ContentAN  ContentType = "an"  // alphanumeric
	ContentANS ContentType = "ans" // alphanumeric + special
	ContentB   ContentType = "b"   // binary, value is hex text of raw bytes
	ContentZ   ContentType = "z"   // track data
	ContentNS  ContentType = "ns"  // numeric, space-padded
	ContentANP ContentType = "anp" // alphanumeric + pad
	ContentXN  ContentType = "x+n" // sign-prefixed numeric
)

// LenType is how a field's length is carried on the wire.
type LenType string

const (
	LenFixed     LenType = "fixed"
	LenLLVAR     LenType = "llvar"     // 2-digit ASCII length prefix
	LenLLLVAR    LenType = "lllvar"    // 3-digit
	LenLLLLVAR   LenType = "llllvar"   // 4-digit
	LenLLLLLLVAR LenType = "llllllvar" // 6-digit
)

// lenDigits returns the number of ASCII digits the length prefix occupies.
func lenDigits(lt LenType) int {
	switch lt {
	case LenLLVAR:
		return 2
	case LenLLLVAR:
		return 3
	case LenLLLLVAR:
		return 4
	case LenLLLLLLVAR:
		return 6
	default:
		return 0
	}
}

// PadDirection is which side of a fixed-length value gets padded.
type PadDirection string

const (
	PadLeft  PadDirection = "left"
	PadRight PadDirection = "right"
)

// Padding configures fixed-length value padding.
type Padding struct {
	Direction PadDirection `json:"direction"`
	Char      byte         `json:"char"`
}

// Validation holds a compiled regex applied to a field's value. Compiled
// once when the FieldFormat is built, never lazily on the hot path.
type Validation struct {
	Pattern string         `json:"pattern"`
	Regex   *regexp.Regexp `json:"-"`
}

// BitmapEncoding selects how bitmap segments are represented on the wire.
type BitmapEncoding int

const (
	// BitmapHex emits the raw packed bytes of each bitmap segment (8 bytes
	// per 64-bit segment).
	BitmapHex BitmapEncoding = iota
	// BitmapASCII emits the upper-case hex text of each segment (16 ASCII
	// bytes per 64-bit segment).
	BitmapASCII
)

// FormatStrategy controls how an overlay FormatRegistry combines with the
// active one in WithFormats.
type FormatStrategy int

const (
	StrategyMerge   FormatStrategy = iota // overlay entries add to / override base entries
	StrategyReplace                       // overlay entries are the only entries
)

// FieldFormat describes how a single field is encoded and decoded.
type FieldFormat struct {
	ContentType ContentType `json:"content_type"`
	LenType     LenType     `json:"len_type"`
	MaxLen      int         `json:"max_len"`
	MinLen      int         `json:"min_len,omitempty"`
	Padding     *Padding    `json:"padding,omitempty"`
	Validation  *Validation `json:"validation,omitempty"`
	Label       string      `json:"label,omitempty"`
}

// fieldFormatWire lets FieldFormat.UnmarshalJSON accept either the
// canonical string tags or legacy numeric codes for content_type/len_type,
// the way the donor codec's FieldConfig.UnmarshalJSON tolerates both.
type fieldFormatWire struct {
	ContentType json.RawMessage `json:"content_type"`
	LenType     json.RawMessage `json:"len_type"`
	MaxLen      int             `json:"max_len"`
	MinLen      int             `json:"min_len,omitempty"`
	Padding     *Padding        `json:"padding,omitempty"`
	Validation  *Validation     `json:"validation,omitempty"`
	Label       string          `json:"label,omitempty"`
}

var legacyContentTypes = map[float64]ContentType{
	0: ContentANS,
	1: ContentAN,
	2: ContentN,
	3: ContentB,
	4: ContentZ,
}

var legacyLenTypes = map[float64]LenType{
	0: LenFixed,
	1: LenLLVAR,
	2: LenLLLVAR,
	3: LenLLLLVAR,
}

func (f *FieldFormat) UnmarshalJSON(data []byte) error {
	var wire fieldFormatWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	f.MaxLen = wire.MaxLen
	f.MinLen = wire.MinLen
	f.Padding = wire.Padding
	f.Validation = wire.Validation
	f.Label = wire.Label

	ct, err := decodeTaggedString(wire.ContentType, legacyContentTypes)
	if err != nil {
		return fmt.Errorf("content_type: %w", err)
	}
	f.ContentType = ContentType(ct)

	lt, err := decodeTaggedString(wire.LenType, legacyLenTypes)
	if err != nil {
		return fmt.Errorf("len_type: %w", err)
	}
	f.LenType = LenType(lt)

	if f.Validation != nil && f.Validation.Pattern != "" {
		re, err := regexp.Compile(f.Validation.Pattern)
		if err != nil {
			return fmt.Errorf("validation pattern: %w", err)
		}
		f.Validation.Regex = re
	}

	return nil
}

// decodeTaggedString accepts raw as either a JSON string or a JSON number
// indexing into legacy. Empty raw yields "".
func decodeTaggedString[T ~string](raw json.RawMessage, legacy map[float64]T) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, ok := legacy[n]; ok {
			return string(v), nil
		}
		return "", fmt.Errorf("unrecognized legacy code %v", n)
	}
	return "", fmt.Errorf("must be a string or legacy numeric code")
}
