package komtype

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorruptEntryErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := &CorruptEntryError{Name: "a.txt", Err: ErrSizeLimit}
	require.ErrorIs(t, err, ErrSizeLimit)
	assert.Contains(t, err.Error(), `"a.txt"`)
}

func TestFormatErrorMessage(t *testing.T) {
	t.Parallel()

	withOffset := &FormatError{Offset: 60, Reason: "short metadata record"}
	assert.Contains(t, withOffset.Error(), "offset 60")

	noOffset := &FormatError{Offset: -1, Reason: "unsupported version 9"}
	assert.NotContains(t, noOffset.Error(), "offset")
	assert.Contains(t, noOffset.Error(), "unsupported version 9")
}

func TestErrorTypesAreDistinct(t *testing.T) {
	t.Parallel()

	var tooLong *NameTooLongError
	var reserved *ReservedNameError
	var dup *DuplicateNameError

	var err error = &NameTooLongError{Name: "x"}
	assert.True(t, errors.As(err, &tooLong))
	assert.False(t, errors.As(err, &reserved))
	assert.False(t, errors.As(err, &dup))
}

func TestRefString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "index 3", ByIndex(3).String())
	assert.Equal(t, `"a.txt"`, ByName("a.txt").String())
	assert.Equal(t, "manifest", Manifest().String())
}
