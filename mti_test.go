package iso8583

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMTI(t *testing.T) {
	allow := DefaultMTIAllowList()

	testCases := []struct {
		name    string
		mti     string
		wantErr bool
	}{
		{"valid request", "0800", false},
		{"valid response", "0810", false},
		{"empty", "", true},
		{"wrong length", "080", true},
		{"non numeric", "08a0", true},
		{"not in allow list", "9999", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMTI(tc.mti, allow)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateMTIMissingKind(t *testing.T) {
	err := ValidateMTI("", DefaultMTIAllowList())
	var ie *Error
	assert.ErrorAs(t, err, &ie)
	assert.Equal(t, KindMTIMissing, ie.Kind)
}

func TestValidateMTIInvalidKind(t *testing.T) {
	err := ValidateMTI("9999", DefaultMTIAllowList())
	var ie *Error
	assert.ErrorAs(t, err, &ie)
	assert.Equal(t, KindMTIInvalid, ie.Kind)
}
