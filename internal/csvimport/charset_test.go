package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wlynxg/chardet/consts"
)

func TestDecoderFor(t *testing.T) {
	dec := decoderFor(consts.ISO88591)
	require.NotNil(t, dec)

	out, err := dec.String("Am\xe9lie")
	require.NoError(t, err)
	assert.Equal(t, "Amélie", out)

	require.NotNil(t, decoderFor(encodingWindows1252))
	assert.Nil(t, decoderFor(consts.UTF8))
	assert.Nil(t, decoderFor(""))
}

func TestUTF8ReaderPassesASCIIThrough(t *testing.T) {
	in := "1,Heat,Mann,1995,Crime,8.3\n"
	out, err := io.ReadAll(utf8Reader(strings.NewReader(in)))
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestUTF8ReaderEmptyInput(t *testing.T) {
	out, err := io.ReadAll(utf8Reader(strings.NewReader("")))
	require.NoError(t, err)
	assert.Empty(t, out)
}
