package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	assert.Len(t, a, 32)
	assert.Len(t, b, 32)
	if string(a) == string(b) {
		t.Logf("warning: two GenerateRandByteArray(32) results are identical; extremely unlikely")
	}
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.True(t, v.Empty())
	assert.NoError(t, v.OrNil())

	v.Add("subject", "required")
	v.Add("content", "required")
	v.Add("subject", "ignored second message")

	require.False(t, v.Empty())
	assert.True(t, v.Has("subject"))
	assert.False(t, v.Has("email"))
	assert.Equal(t, "required", v.Fields["subject"])
	assert.Equal(t, "validation error: content: required; subject: required", v.Error())

	err := fmt.Errorf("creating post: %w", v.OrNil())
	assert.True(t, errors.Is(err, ErrorValidation))

	var target *ValidationError
	require.True(t, errors.As(err, &target))
	assert.Len(t, target.Fields, 2)
}

func TestValidationError_ZeroValueAdd(t *testing.T) {
	var v ValidationError
	v.Add("v", "bad version")
	assert.True(t, v.Has("v"))
}
