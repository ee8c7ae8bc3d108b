package iso8583

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFormatsCoversCoreFields(t *testing.T) {
	reg := DefaultFormats()

	testCases := []struct {
		key string
		ct  ContentType
		lt  LenType
	}{
		{"2", ContentN, LenLLVAR},
		{"7", ContentN, LenFixed},
		{"35", ContentZ, LenLLVAR},
		{"52", ContentB, LenFixed},
		{"127", ContentANS, LenLLLVAR},
		{"127.3", ContentANS, LenLLLVAR},
		{"127.25.4", ContentANS, LenLLLVAR},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			f, ok := reg.Get(tc.key)
			assert.True(t, ok)
			assert.Equal(t, tc.ct, f.ContentType)
			assert.Equal(t, tc.lt, f.LenType)
		})
	}
}

func TestMergeFormatsOverlayWins(t *testing.T) {
	base := NewFormatRegistry()
	base.Set("2", fx(ContentN, LenLLVAR, 19))

	overlay := NewFormatRegistry()
	overlay.Set("2", fx(ContentN, LenLLVAR, 10))
	overlay.Set("3", fx(ContentN, LenFixed, 6))

	merged := MergeFormats(base, overlay)

	f2, _ := merged.Get("2")
	assert.Equal(t, 10, f2.MaxLen)

	_, ok := merged.Get("3")
	assert.True(t, ok)
}

func TestLoadFormatsFromByte(t *testing.T) {
	data := []byte(`{"9":{"content_type":"n","len_type":"fixed","max_len":8}}`)
	reg, err := LoadFormatsFromByte(data)
	assert.NoError(t, err)

	f, ok := reg.Get("9")
	assert.True(t, ok)
	assert.Equal(t, ContentN, f.ContentType)
	assert.Equal(t, LenFixed, f.LenType)
	assert.Equal(t, 8, f.MaxLen)
}

func TestLoadFormatsFromByteLegacyNumericCodes(t *testing.T) {
	data := []byte(`{"9":{"content_type":2,"len_type":0,"max_len":8}}`)
	reg, err := LoadFormatsFromByte(data)
	assert.NoError(t, err)

	f, ok := reg.Get("9")
	assert.True(t, ok)
	assert.Equal(t, ContentN, f.ContentType)
	assert.Equal(t, LenFixed, f.LenType)
}

func TestLoadFormatsFromByteInvalidJSON(t *testing.T) {
	_, err := LoadFormatsFromByte([]byte(`not json`))
	assert.Error(t, err)
}
