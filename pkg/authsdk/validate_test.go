package authsdk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.COM "))
	assert.Equal(t, "a@x.com", NormalizeEmail("a@x.com"))
}

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"a@x.com", "first.last@sub.domain.org", " UPPER@CASE.IO "} {
		assert.Nil(t, ValidateEmail(ok), ok)
	}
	for _, bad := range []string{"", "plain", "a@b", "@x.com", "a b@x.com", "a@x .com"} {
		err := ValidateEmail(bad)
		if assert.NotNil(t, err, bad) {
			assert.Equal(t, ErrorCodeValidation, err.Code)
		}
	}
}

func TestValidateNewPassword(t *testing.T) {
	assert.Nil(t, ValidateNewPassword("exactly8"))
	assert.NotNil(t, ValidateNewPassword("seven77"))
	assert.NotNil(t, ValidateNewPassword(strings.Repeat("x", MaxPasswordLength+1)))
	assert.Nil(t, ValidateNewPassword(strings.Repeat("x", MaxPasswordLength)))
}

func TestValidateResetCode(t *testing.T) {
	assert.Nil(t, ValidateResetCode("123456"))
	assert.NotNil(t, ValidateResetCode("12345"))
	assert.NotNil(t, ValidateResetCode("1234567"))
	assert.NotNil(t, ValidateResetCode(""))
}
