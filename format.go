package iso8583

import (
	"encoding/json"
	"fmt"
	"os"
)

// FormatRegistry is a read-only (from the codec's perspective) catalogue of
// FieldFormat by field-id string, grounded on the donor's
// CompiledPackager/PackagerConfig/FieldConfig trio.
type FormatRegistry struct {
	formats map[string]FieldFormat
}

// NewFormatRegistry returns an empty registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{formats: make(map[string]FieldFormat)}
}

// Get returns the format registered for fieldID, if any.
func (r *FormatRegistry) Get(fieldID string) (FieldFormat, bool) {
	if r == nil {
		return FieldFormat{}, false
	}
	f, ok := r.formats[fieldID]
	return f, ok
}

// Set registers or overwrites the format for fieldID.
func (r *FormatRegistry) Set(fieldID string, f FieldFormat) {
	r.formats[fieldID] = f
}

// Len reports how many field formats are registered.
func (r *FormatRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.formats)
}

// MergeFormats layers overlay's entries on top of base's, overlay winning on
// collision. Neither input registry is mutated.
func MergeFormats(base, overlay *FormatRegistry) *FormatRegistry {
	out := NewFormatRegistry()
	if base != nil {
		for k, v := range base.formats {
			out.formats[k] = v
		}
	}
	if overlay != nil {
		for k, v := range overlay.formats {
			out.formats[k] = v
		}
	}
	return out
}

// LoadFormatsFromByte parses a JSON object of field-id -> FieldFormat into a
// new FormatRegistry, mirroring LoadPackagerFromByte in the donor codec.
func LoadFormatsFromByte(data []byte) (*FormatRegistry, error) {
	var raw map[string]FieldFormat
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse format registry: %w", err)
	}
	r := NewFormatRegistry()
	for k, v := range raw {
		r.formats[k] = v
	}
	return r, nil
}

// LoadFormatsFromFile reads path and delegates to LoadFormatsFromByte.
func LoadFormatsFromFile(path string) (*FormatRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read format registry file %s: %w", path, err)
	}
	return LoadFormatsFromByte(data)
}

func fx(ct ContentType, lt LenType, maxLen int) FieldFormat {
	return FieldFormat{ContentType: ct, LenType: lt, MaxLen: maxLen}
}

// DefaultFormats returns the canonical DE 2-128 catalogue plus the DE
// 127.N / 127.25.N sub-field defaults, grounded on the donor's
// DefaultConfigField table and extended with the "ns" and "x+n" content
// types. DE 120 has only its top-level "120" entry; its sub-fields are
// packed by the composite codec, not through this registry. No default
// entry uses the "a" or "anp" content types or the llllllvar length class.
func DefaultFormats() *FormatRegistry {
	r := NewFormatRegistry()

	top := map[string]FieldFormat{
		"2":  fx(ContentN, LenLLVAR, 19),
		"3":  fx(ContentN, LenFixed, 6),
		"4":  fx(ContentN, LenFixed, 12),
		"5":  fx(ContentN, LenFixed, 12),
		"6":  fx(ContentN, LenFixed, 12),
		"7":  fx(ContentN, LenFixed, 10),
		"8":  fx(ContentN, LenFixed, 8),
		"9":  fx(ContentN, LenFixed, 8),
		"10": fx(ContentN, LenFixed, 8),
		"11": fx(ContentN, LenFixed, 6),
		"12": fx(ContentN, LenFixed, 6),
		"13": fx(ContentN, LenFixed, 4),
		"14": fx(ContentN, LenFixed, 4),
		"15": fx(ContentN, LenFixed, 4),
		"16": fx(ContentN, LenFixed, 4),
		"17": fx(ContentN, LenFixed, 4),
		"18": fx(ContentN, LenFixed, 4),
		"19": fx(ContentN, LenFixed, 4),
		"20": fx(ContentN, LenFixed, 4),
		"21": fx(ContentN, LenFixed, 3),
		"22": fx(ContentN, LenFixed, 3),
		"23": fx(ContentN, LenFixed, 3),
		"24": fx(ContentN, LenFixed, 3),
		"25": fx(ContentN, LenFixed, 2),
		"26": fx(ContentN, LenFixed, 2),
		"27": fx(ContentN, LenFixed, 1),
		"28": fx(ContentXN, LenFixed, 9),
		"29": fx(ContentXN, LenFixed, 9),
		"30": fx(ContentXN, LenFixed, 9),
		"31": fx(ContentXN, LenFixed, 9),
		"32": fx(ContentN, LenLLVAR, 11),
		"33": fx(ContentN, LenLLVAR, 11),
		"34": fx(ContentNS, LenLLVAR, 28),
		"35": fx(ContentZ, LenLLVAR, 37),
		"36": fx(ContentZ, LenLLLVAR, 104),
		"37": fx(ContentAN, LenFixed, 12),
		"38": fx(ContentAN, LenFixed, 6),
		"39": fx(ContentAN, LenFixed, 2),
		"40": fx(ContentAN, LenFixed, 3),
		"41": fx(ContentANS, LenFixed, 8),
		"42": fx(ContentANS, LenFixed, 15),
		"43": fx(ContentANS, LenFixed, 40),
		"44": fx(ContentAN, LenLLVAR, 25),
		"45": fx(ContentAN, LenLLVAR, 76),
		"46": fx(ContentAN, LenLLLVAR, 999),
		"47": fx(ContentANS, LenLLLVAR, 999),
		"48": fx(ContentANS, LenLLLVAR, 999),
		"49": fx(ContentAN, LenFixed, 3),
		"50": fx(ContentAN, LenFixed, 3),
		"51": fx(ContentAN, LenFixed, 3),
		"52": fx(ContentB, LenFixed, 16),
		"53": fx(ContentN, LenFixed, 16),
		"54": fx(ContentANS, LenLLLVAR, 120),
		"55": fx(ContentB, LenLLLVAR, 999),
		"56": fx(ContentANS, LenLLLVAR, 999),
		"57": fx(ContentANS, LenLLLVAR, 999),
		"58": fx(ContentANS, LenLLLVAR, 999),
		"59": fx(ContentANS, LenLLLVAR, 999),
		"60": fx(ContentANS, LenLLLVAR, 999),
		"61": fx(ContentANS, LenLLLVAR, 999),
		"62": fx(ContentANS, LenLLLVAR, 999),
		"63": fx(ContentANS, LenLLLVAR, 999),
		"64": fx(ContentB, LenFixed, 16),
		"66": fx(ContentN, LenFixed, 1),
		"67": fx(ContentN, LenFixed, 2),
		"68": fx(ContentN, LenFixed, 3),
		"69": fx(ContentN, LenFixed, 3),
		"70": fx(ContentN, LenFixed, 3),
		"71": fx(ContentN, LenFixed, 4),
		"72": fx(ContentN, LenFixed, 4),
		"73": fx(ContentN, LenFixed, 6),
		"74": fx(ContentN, LenFixed, 10),
		"75": fx(ContentN, LenFixed, 10),
		"76": fx(ContentN, LenFixed, 10),
		"77": fx(ContentN, LenFixed, 10),
		"78": fx(ContentN, LenFixed, 10),
		"79": fx(ContentN, LenFixed, 10),
		"80": fx(ContentN, LenFixed, 10),
		"81": fx(ContentN, LenFixed, 10),
		"82": fx(ContentN, LenFixed, 12),
		"83": fx(ContentN, LenFixed, 12),
		"84": fx(ContentN, LenFixed, 12),
		"85": fx(ContentN, LenFixed, 12),
		"86": fx(ContentN, LenFixed, 16),
		"87": fx(ContentN, LenFixed, 16),
		"88": fx(ContentN, LenFixed, 16),
		"89": fx(ContentN, LenFixed, 16),
		"90": fx(ContentN, LenFixed, 42),
		"91": fx(ContentAN, LenFixed, 1),
		"92": fx(ContentN, LenFixed, 2),
		"93": fx(ContentN, LenFixed, 5),
		"94": fx(ContentANS, LenFixed, 7),
		"95": fx(ContentANS, LenFixed, 42),
		"96": fx(ContentB, LenFixed, 16),
		"97": fx(ContentXN, LenFixed, 17),
		"98": fx(ContentANS, LenFixed, 25),
		"99": fx(ContentN, LenLLVAR, 11),
		"100": fx(ContentN, LenLLVAR, 11),
		"101": fx(ContentANS, LenLLVAR, 17),
		"102": fx(ContentANS, LenLLVAR, 28),
		"103": fx(ContentANS, LenLLVAR, 28),
		"104": fx(ContentANS, LenLLLVAR, 100),
		"105": fx(ContentANS, LenLLLVAR, 999),
		"106": fx(ContentANS, LenLLLVAR, 999),
		"107": fx(ContentANS, LenLLLVAR, 999),
		"108": fx(ContentANS, LenLLLVAR, 999),
		"109": fx(ContentANS, LenLLLVAR, 999),
		"110": fx(ContentANS, LenLLLVAR, 999),
		"111": fx(ContentANS, LenLLLVAR, 999),
		"112": fx(ContentANS, LenLLLVAR, 999),
		"113": fx(ContentANS, LenLLVAR, 11),
		"114": fx(ContentANS, LenLLLVAR, 999),
		"115": fx(ContentANS, LenLLLVAR, 999),
		"116": fx(ContentANS, LenLLLVAR, 999),
		"117": fx(ContentANS, LenLLLVAR, 999),
		"118": fx(ContentANS, LenLLLVAR, 999),
		"119": fx(ContentANS, LenLLLVAR, 999),
		"120": fx(ContentANS, LenLLLVAR, 999),
		"121": fx(ContentANS, LenLLLVAR, 999),
		"122": fx(ContentANS, LenLLLVAR, 999),
		"123": fx(ContentANS, LenLLLVAR, 999),
		"124": fx(ContentANS, LenLLLVAR, 999),
		"125": fx(ContentANS, LenLLLVAR, 999),
		"126": fx(ContentANS, LenLLLVAR, 999),
		"127": fx(ContentANS, LenLLLVAR, 999),
		"128": fx(ContentB, LenFixed, 16),
	}
	for k, v := range top {
		r.formats[k] = v
	}

	// DE 127 sub-fields default to ANS/LLLVAR unless the caller overrides a
	// specific one (e.g. "127.25" always needs LenLLLVAR so its own bitmap
	// plus sub-fields fit under 999 bytes).
	for n := 2; n <= 64; n++ {
		r.formats[constructFieldKey("127.", n)] = fx(ContentANS, LenLLLVAR, 999)
		r.formats[constructFieldKey("127.25.", n)] = fx(ContentANS, LenLLLVAR, 999)
	}

	return r
}
