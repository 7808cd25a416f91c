package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kogtools/kom/internal/komtype"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	r := Record{
		Name:             "map01.dat",
		UncompressedSize: 4096,
		CompressedSize:   1311,
		RelativeOffset:   7200,
	}
	b, err := r.Append(nil)
	require.NoError(t, err)
	require.Len(t, b, Size)

	got, err := Parse(b, 0)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestNamePadding(t *testing.T) {
	t.Parallel()

	b, err := Record{Name: "a.txt", CompressedSize: 1}.Append(nil)
	require.NoError(t, err)

	assert.Equal(t, "a.txt", string(b[:5]))
	for _, c := range b[5:NameSize] {
		assert.Zero(t, c)
	}
}

func TestNameFillsField(t *testing.T) {
	t.Parallel()

	name := strings.Repeat("n", NameSize)
	b, err := Record{Name: name}.Append(nil)
	require.NoError(t, err)

	got, err := Parse(b, 0)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
}

func TestAppendRejectsOversizedName(t *testing.T) {
	t.Parallel()

	_, err := Record{Name: strings.Repeat("n", NameSize+1)}.Append(nil)
	var nerr *komtype.NameTooLongError
	require.ErrorAs(t, err, &nerr)
}

func TestAppendRejectsEmptyName(t *testing.T) {
	t.Parallel()

	_, err := Record{}.Append(nil)
	var nerr *komtype.NameTooLongError
	require.ErrorAs(t, err, &nerr)
}

func TestParseRejectsNonASCIIName(t *testing.T) {
	t.Parallel()

	b, err := Record{Name: "sound.ogg"}.Append(nil)
	require.NoError(t, err)
	b[0] = 0xc3

	_, err = Parse(b, 0)
	var ferr *komtype.FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestParseRejectsInteriorNUL(t *testing.T) {
	t.Parallel()

	b, err := Record{Name: "broken"}.Append(nil)
	require.NoError(t, err)
	b[2] = 0 // NUL inside the name, non-NUL bytes after it

	_, err = Parse(b, 0)
	var ferr *komtype.FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestParseRejectsEmptyName(t *testing.T) {
	t.Parallel()

	_, err := Parse(make([]byte, Size), 144)
	var ferr *komtype.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, int64(144), ferr.Offset)
}

func TestParseRejectsShortInput(t *testing.T) {
	t.Parallel()

	_, err := Parse(make([]byte, Size-1), 0)
	var ferr *komtype.FormatError
	require.ErrorAs(t, err, &ferr)
}
