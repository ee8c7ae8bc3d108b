package iso8583

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBuildBitmapS1 is grounded on the simple-0800 worked example: fields
// 7, 11, 12, 13, 70 present. Bit 0 (secondary marker) is always forced at
// the top level, regardless of whether a field past 64 is present.
func TestBuildBitmapS1(t *testing.T) {
	msg := Message{
		"0":  "0800",
		"7":  "0818160244",
		"11": "646465",
		"12": "160244",
		"13": "0818",
		"70": "001",
	}

	bm := BuildBitmap(msg, "", 2*segmentWidth)
	out := bm.Encode(BitmapHex)

	assert.Equal(t, []byte{0x82, 0x38, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, out)
}

// TestBuildBitmapS2 is grounded on the secondary-bitmap scenario: "127.1"
// present forces bit 126 (field 127) on in addition to bit 0.
func TestBuildBitmapS2(t *testing.T) {
	msg := Message{
		"0":     "0800",
		"70":    "001",
		"127.1": "x",
	}

	bm := BuildBitmap(msg, "", 2*segmentWidth)
	out := bm.Encode(BitmapASCII)

	assert.True(t, len(out) > 0)
	assert.Equal(t, byte('8'), out[0])
	assert.True(t, bm.IsSet(127))
}

func TestBitmapASCIIEncoding(t *testing.T) {
	bm := NewBitmap()
	bm.Set(7)
	out := bm.Encode(BitmapASCII)
	assert.Equal(t, "0200000000000000", string(out))
}

func TestDecodeBitmapRoundTrip(t *testing.T) {
	for _, enc := range []BitmapEncoding{BitmapHex, BitmapASCII} {
		msg := Message{"0": "0800", "7": "x", "11": "x", "70": "x", "100": "x"}
		bm := BuildBitmap(msg, "", 2*segmentWidth)
		wire := bm.Encode(enc)

		got, rest, err := DecodeBitmap(wire, enc)
		assert.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, bm.PresentFields(), got.PresentFields())
	}
}

func TestPresentFieldsSkipsContinuationMarkers(t *testing.T) {
	bm := NewBitmap()
	bm.Set(64)
	bm.Set(70)
	fields := bm.PresentFields()
	assert.Contains(t, fields, 64)
	assert.Contains(t, fields, 70)
	assert.NotContains(t, fields, 1)
	assert.NotContains(t, fields, 65)
}

func TestDecodeBitmapShortBuffer(t *testing.T) {
	_, _, err := DecodeBitmap([]byte{0x01, 0x02}, BitmapHex)
	assert.Error(t, err)
}
