package iso8583

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeExtensionRoundTrip(t *testing.T) {
	reg := DefaultFormats()
	msg := Message{"127.2": "abc", "127.3": "xyz"}

	wire, err := EncodeExtension(msg, reg, "127.", BitmapHex)
	assert.NoError(t, err)

	got, rest, err := DecodeExtension(wire, reg, "127.", BitmapHex)
	assert.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, "abc", got["127.2"])
	assert.Equal(t, "xyz", got["127.3"])
}

// TestEncodeDecodeExtensionNested covers DE 127 sub-field 25 expanding
// into a nested DE 127.25 bitmap+sub-fields.
func TestEncodeDecodeExtensionNested(t *testing.T) {
	reg := DefaultFormats()
	msg := Message{
		"127.2":     "abc",
		"127.25.4":  "nested-value",
		"127.25.10": "more-data",
	}

	sub, err := EncodeExtension(msg, reg, "127.25.", BitmapHex)
	assert.NoError(t, err)

	working := Message{"127.2": "abc", "127.25": string(sub)}
	wire, err := EncodeExtension(working, reg, "127.", BitmapHex)
	assert.NoError(t, err)

	got, rest, err := DecodeExtension(wire, reg, "127.", BitmapHex)
	assert.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, "abc", got["127.2"])
	assert.Equal(t, "nested-value", got["127.25.4"])
	assert.Equal(t, "more-data", got["127.25.10"])
	_, hasSynthetic := got["127.25"]
	assert.False(t, hasSynthetic)
}

func TestExtensionBitmapHasNoSecondarySegment(t *testing.T) {
	reg := DefaultFormats()
	msg := Message{"127.64": "last-field"}

	wire, err := EncodeExtension(msg, reg, "127.", BitmapHex)
	assert.NoError(t, err)
	assert.Equal(t, 8, len(wire)-len("last-field")-3) // LLLVAR prefix(3) + bitmap(8)
}
