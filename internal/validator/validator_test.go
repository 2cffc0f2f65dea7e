package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Check(t *testing.T) {
	var v Validator
	assert.False(t, v.HasErrors())

	v.Check(NotBlank("  "), "Name is required")
	v.Check(MaxRunes("ok", 5), "Too long")
	v.Check(ExactlyOne(true, true), "Pick one")

	assert.Equal(t, []string{"Name is required", "Pick one"}, v.Errors)
}

func TestIsContact(t *testing.T) {
	assert.True(t, IsContact("user@example.com"))
	assert.True(t, IsContact("+919876543210"))
	assert.False(t, IsContact("9876543210"))
	assert.False(t, IsContact("not an email"))
}

func TestMaxRunes(t *testing.T) {
	assert.True(t, MaxRunes("₹₹₹", 3))
	assert.False(t, MaxRunes("₹₹₹₹", 3))
}
