package iso8583

import (
	"strconv"
	"strings"
)

// encodeContent converts a logical value to its wire bytes. content_type=b
// values are hex text and get hex-decoded to raw bytes; every other content
// type is carried as its own UTF-8 bytes.
func encodeContent(value string, ct ContentType) ([]byte, error) {
	if ct == ContentB {
		return hexToBytes(value)
	}
	return []byte(value), nil
}

// decodeContent is the inverse of encodeContent.
func decodeContent(raw []byte, ct ContentType) string {
	if ct == ContentB {
		return bytesToHex(raw)
	}
	return string(raw)
}

func padValue(value string, p *Padding, width int) string {
	if p == nil || len(value) >= width {
		return value
	}
	pad := strings.Repeat(string(p.Char), width-len(value))
	if p.Direction == PadRight {
		return value + pad
	}
	return pad + value
}

func validateValue(fieldID string, value string, f FieldFormat) error {
	if f.Validation != nil && f.Validation.Regex != nil && !f.Validation.Regex.MatchString(value) {
		return newErr(KindValidationFailed, fieldID, map[string]any{
			"pattern": f.Validation.Pattern, "value": value,
		})
	}
	return nil
}

// EncodeField encodes a single field's value per its FieldFormat: validate,
// pad (fixed-length only), length-check, then emit the length prefix (for
// variable-length classes) and the wire content.
func EncodeField(fieldID string, value string, f FieldFormat) ([]byte, error) {
	if err := validateValue(fieldID, value, f); err != nil {
		return nil, err
	}

	if f.LenType == LenFixed {
		value = padValue(value, f.Padding, f.MaxLen)
	}

	if len(value) > f.MaxLen {
		return nil, newErr(KindLengthExceeded, fieldID, map[string]any{
			"max_len": f.MaxLen, "got": len(value),
		})
	}

	content, err := encodeContent(value, f.ContentType)
	if err != nil {
		return nil, wrapErr(KindInvalidLength, fieldID, err)
	}

	if f.LenType == LenFixed {
		return content, nil
	}

	digits := lenDigits(f.LenType)
	prefix := padString(strconv.Itoa(len(value)), '0', digits)
	if len(prefix) > digits {
		return nil, newErr(KindLengthExceeded, fieldID, map[string]any{
			"len_digits": digits, "got": len(value),
		})
	}
	return append([]byte(prefix), content...), nil
}

// DecodeField decodes a single field's wire bytes per its FieldFormat,
// returning the decoded value and the unconsumed remainder of data.
func DecodeField(fieldID string, data []byte, f FieldFormat) (value string, rest []byte, err error) {
	if f.LenType == LenFixed {
		n := f.MaxLen
		if f.ContentType == ContentB {
			n = f.MaxLen / 2
		}
		head, tail, err := sliceBytes(data, 0, n)
		if err != nil {
			return "", data, wrapErr(KindInvalidLength, fieldID, err)
		}
		value = decodeContent(head, f.ContentType)
		if err := validateValue(fieldID, value, f); err != nil {
			return "", data, err
		}
		return value, tail, nil
	}

	digits := lenDigits(f.LenType)
	head, tail, err := sliceBytes(data, 0, digits)
	if err != nil {
		return "", data, wrapErr(KindInvalidLength, fieldID, err)
	}
	n, err := parseDigits(head)
	if err != nil {
		return "", data, wrapErr(KindInvalidLength, fieldID, err)
	}

	byteLen := n
	if f.ContentType == ContentB {
		byteLen = n / 2
	}
	body, tail2, err := sliceBytes(tail, 0, byteLen)
	if err != nil {
		return "", data, wrapErr(KindInvalidLength, fieldID, err)
	}

	value = decodeContent(body, f.ContentType)
	if len(value) > f.MaxLen {
		return "", data, newErr(KindLengthExceeded, fieldID, map[string]any{
			"max_len": f.MaxLen, "got": len(value),
		})
	}
	if err := validateValue(fieldID, value, f); err != nil {
		return "", data, err
	}
	return value, tail2, nil
}
