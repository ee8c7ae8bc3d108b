package iso8583

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeFieldFixed(t *testing.T) {
	f := FieldFormat{ContentType: ContentN, LenType: LenFixed, MaxLen: 6,
		Padding: &Padding{Direction: PadLeft, Char: '0'}}

	wire, err := EncodeField("11", "123", f)
	assert.NoError(t, err)
	assert.Equal(t, []byte("000123"), wire)

	value, rest, err := DecodeField("11", wire, f)
	assert.NoError(t, err)
	assert.Equal(t, "000123", value)
	assert.Empty(t, rest)
}

func TestEncodeDecodeFieldLLVAR(t *testing.T) {
	f := FieldFormat{ContentType: ContentN, LenType: LenLLVAR, MaxLen: 19}

	wire, err := EncodeField("2", "4111111111111111", f)
	assert.NoError(t, err)
	assert.Equal(t, []byte("164111111111111111"), wire)

	value, rest, err := DecodeField("2", wire, f)
	assert.NoError(t, err)
	assert.Equal(t, "4111111111111111", value)
	assert.Empty(t, rest)
}

func TestEncodeFieldLengthExceeded(t *testing.T) {
	f := FieldFormat{ContentType: ContentN, LenType: LenLLVAR, MaxLen: 4}
	_, err := EncodeField("2", "123456", f)
	assert.Error(t, err)

	var ie *Error
	assert.ErrorAs(t, err, &ie)
	assert.Equal(t, KindLengthExceeded, ie.Kind)
}

func TestEncodeDecodeFieldBinaryContent(t *testing.T) {
	// content_type=b: MaxLen/length-prefix counts hex-text chars, so the
	// field here ("16 hex chars") carries 8 raw bytes on the wire.
	f := FieldFormat{ContentType: ContentB, LenType: LenFixed, MaxLen: 16}

	hexValue := "0123456789ABCDEF"
	wire, err := EncodeField("52", hexValue, f)
	assert.NoError(t, err)
	assert.Len(t, wire, 8)

	value, rest, err := DecodeField("52", wire, f)
	assert.NoError(t, err)
	assert.Equal(t, hexValue, value)
	assert.Empty(t, rest)
}

func TestDecodeFieldLLLVARBinary(t *testing.T) {
	f := FieldFormat{ContentType: ContentB, LenType: LenLLLVAR, MaxLen: 999}
	wire, err := EncodeField("55", "AABB", f)
	assert.NoError(t, err)
	assert.Equal(t, []byte("004"), wire[:3])
	assert.Len(t, wire[3:], 2)

	value, rest, err := DecodeField("55", wire, f)
	assert.NoError(t, err)
	assert.Equal(t, "AABB", value)
	assert.Empty(t, rest)
}

func TestValidateValueRejectsNonMatch(t *testing.T) {
	f := FieldFormat{ContentType: ContentN, LenType: LenFixed, MaxLen: 4}
	f.Validation = &Validation{Pattern: `^\d+$`, Regex: regexp.MustCompile(`^\d+$`)}

	err := validateValue("13", "12a4", f)
	assert.Error(t, err)

	err = validateValue("13", "1234", f)
	assert.NoError(t, err)
}
