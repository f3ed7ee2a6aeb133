package scan

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirFrameSource_CyclesFrames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, blankFrame()))
		require.NoError(t, f.Close())
	}

	src := NewDirFrameSource(dir)
	require.NoError(t, src.Open(context.Background()))
	defer src.Close()

	for i := 0; i < 5; i++ {
		img, err := src.Grab(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, img)
	}
}

func TestDirFrameSource_EndToEndSession(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "frame.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, qrFrame(t, goodVIN)))
	require.NoError(t, f.Close())

	got := make(chan string, 1)
	s := NewSession(NewDirFrameSource(dir), testInterval, func(v string) { got <- v })
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, goodVIN, waitForVIN(t, got))
	s.Wait()
}

func TestDirFrameSource_MissingDirIsNoCamera(t *testing.T) {
	src := NewDirFrameSource(filepath.Join(t.TempDir(), "nope"))
	err := src.Open(context.Background())
	assert.ErrorIs(t, err, ErrNoCamera)
}

func TestDirFrameSource_EmptyDirIsNoCamera(t *testing.T) {
	src := NewDirFrameSource(t.TempDir())
	err := src.Open(context.Background())
	assert.ErrorIs(t, err, ErrNoCamera)
}

func TestDirFrameSource_GrabAfterClose(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "frame.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, blankFrame()))
	require.NoError(t, f.Close())

	src := NewDirFrameSource(dir)
	require.NoError(t, src.Open(context.Background()))
	require.NoError(t, src.Close())

	_, err = src.Grab(context.Background())
	assert.ErrorIs(t, err, ErrNoFrame)
}
