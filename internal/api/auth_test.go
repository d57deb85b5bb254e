package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.org", "x@y.io"}
	for _, e := range valid {
		assert.True(t, isValidEmail(e), e)
	}
	invalid := []string{"", "plain", "a@b", "@b.co", "a @b.co", "a@ b.co"}
	for _, e := range invalid {
		assert.False(t, isValidEmail(e), e)
	}
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, isValidPassword("12345678"))
	assert.True(t, isValidPassword("123456789012345"))
	assert.False(t, isValidPassword("1234567"))
	assert.False(t, isValidPassword("1234567890123456"))
}
