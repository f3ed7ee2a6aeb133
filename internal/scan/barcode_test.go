package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolReaderQRCode(t *testing.T) {
	r := NewSymbolReader()
	got, err := r.ReadFrame(qrFrame(t, goodVIN))
	require.NoError(t, err)
	assert.Equal(t, goodVIN, got)
}

func TestSymbolReaderCode128(t *testing.T) {
	r := NewSymbolReader()
	got, err := r.ReadFrame(code128Frame(t, goodVIN))
	require.NoError(t, err)
	assert.Equal(t, goodVIN, got)
}

func TestSymbolReaderBlankFrame(t *testing.T) {
	r := NewSymbolReader()
	_, err := r.ReadFrame(blankFrame())
	assert.ErrorIs(t, err, ErrNoSymbol)
}

func TestSymbolReaderReuseAcrossFrames(t *testing.T) {
	r := NewSymbolReader()

	_, err := r.ReadFrame(blankFrame())
	require.Error(t, err)

	got, err := r.ReadFrame(qrFrame(t, goodVIN))
	require.NoError(t, err)
	assert.Equal(t, goodVIN, got)
}
