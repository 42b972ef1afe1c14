package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_AllBody(t *testing.T) {
	input := []byte("# Generators\n\nHello\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	require.False(t, doc.HasMeta)
	require.Empty(t, doc.Meta)
	require.Equal(t, input, doc.Body)
}

func TestParse_WithFrontmatter_DecodesFields(t *testing.T) {
	input := []byte("---\nduration: 90 minutes\nsection: Python Core\n---\n# Generators\n")

	doc, err := Parse(input)
	require.NoError(t, err)
	require.True(t, doc.HasMeta)
	require.Equal(t, "90 minutes", doc.String("duration"))
	require.Equal(t, "Python Core", doc.String("section"))
	require.Equal(t, []byte("# Generators\n"), doc.Body)
}

func TestParse_EmptyBlock(t *testing.T) {
	doc, err := Parse([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.HasMeta)
	require.Empty(t, doc.Meta)
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestParse_UnclosedBlock_ReturnsError(t *testing.T) {
	_, err := Parse([]byte("---\nduration: 90\n# Title\n"))
	require.ErrorIs(t, err, ErrUnclosed)
}

func TestParse_CRLF_NormalizedToLF(t *testing.T) {
	doc, err := Parse([]byte("---\r\nuid: abc\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", doc.String("uid"))
	require.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestParse_ClosingDelimiterAtEOF(t *testing.T) {
	doc, err := Parse([]byte("---\nuid: abc\n---"))
	require.NoError(t, err)
	require.True(t, doc.HasMeta)
	require.Equal(t, "abc", doc.String("uid"))
	require.Empty(t, doc.Body)
}

func TestEncode_RoundTripsBody(t *testing.T) {
	input := []byte("---\nduration: 2h\n---\n# Title\n\nBody text.\n")

	doc, err := Parse(input)
	require.NoError(t, err)

	out, err := doc.Encode()
	require.NoError(t, err)

	reparsed, err := Parse(out)
	require.NoError(t, err)
	require.Equal(t, doc.Meta, reparsed.Meta)
	require.Equal(t, doc.Body, reparsed.Body)
}

func TestEncode_NoFrontmatter_BodyUnchanged(t *testing.T) {
	doc, err := Parse([]byte("# Title\n"))
	require.NoError(t, err)

	out, err := doc.Encode()
	require.NoError(t, err)
	require.Equal(t, []byte("# Title\n"), out)
}

func TestSet_CreatesBlockWhenAbsent(t *testing.T) {
	doc, err := Parse([]byte("# Title\n"))
	require.NoError(t, err)

	doc.Set("uid", "b7c3")
	out, err := doc.Encode()
	require.NoError(t, err)

	reparsed, err := Parse(out)
	require.NoError(t, err)
	require.True(t, reparsed.HasMeta)
	require.Equal(t, "b7c3", reparsed.String("uid"))
	require.Equal(t, []byte("# Title\n"), reparsed.Body)
}

func TestString_NonStringFieldIsEmpty(t *testing.T) {
	doc, err := Parse([]byte("---\nweight: 3\n---\nx\n"))
	require.NoError(t, err)
	require.Equal(t, "", doc.String("weight"))
	require.Equal(t, "", doc.String("missing"))
}
