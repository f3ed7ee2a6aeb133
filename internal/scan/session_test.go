package scan

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1M8GDM9AXKP042788 carries a correct check digit; 1FTBW3XM5TKA12345 does
// not (its computed check digit is '1', not '5').
const (
	goodVIN = "1M8GDM9AXKP042788"
	badVIN  = "1FTBW3XM5TKA12345"
)

const testInterval = 5 * time.Millisecond

type fakeSource struct {
	mu      sync.Mutex
	openErr error
	frames  []image.Image
	next    int
	grabs   int
	closed  int
}

func (f *fakeSource) Open(ctx context.Context) error { return f.openErr }

func (f *fakeSource) Grab(ctx context.Context) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		return nil, ErrNoFrame
	}
	img := f.frames[f.next%len(f.frames)]
	f.next++
	f.grabs++
	return img, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeSource) grabCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grabs
}

func (f *fakeSource) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func blankFrame() image.Image {
	img := image.NewGray(image.Rect(0, 0, 120, 120))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func qrFrame(t *testing.T, content string) image.Image {
	t.Helper()
	w := qrcode.NewQRCodeWriter()
	m, err := w.Encode(content, gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	require.NoError(t, err)
	return m
}

func code128Frame(t *testing.T, content string) image.Image {
	t.Helper()
	w := oned.NewCode128Writer()
	m, err := w.Encode(content, gozxing.BarcodeFormat_CODE_128, 500, 120, nil)
	require.NoError(t, err)
	return m
}

func waitForVIN(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for VIN")
		return ""
	}
}

func TestSession_FindsVINInQRCode(t *testing.T) {
	src := &fakeSource{frames: []image.Image{blankFrame(), qrFrame(t, goodVIN)}}
	got := make(chan string, 1)
	s := NewSession(src, testInterval, func(v string) { got <- v })

	require.NoError(t, s.Start(context.Background()))
	v := waitForVIN(t, got)
	s.Wait()

	assert.Equal(t, goodVIN, v)
	assert.Equal(t, StateFound, s.State())
	assert.GreaterOrEqual(t, src.closeCount(), 1, "camera must be released on latch")
}

func TestSession_FindsVINInCode128(t *testing.T) {
	src := &fakeSource{frames: []image.Image{code128Frame(t, goodVIN)}}
	got := make(chan string, 1)
	s := NewSession(src, testInterval, func(v string) { got <- v })

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, goodVIN, waitForVIN(t, got))
	s.Wait()
}

func TestSession_LatchStopsSampling(t *testing.T) {
	// Every frame decodes, but only the first acceptance may act.
	src := &fakeSource{frames: []image.Image{qrFrame(t, goodVIN)}}
	got := make(chan string, 4)
	s := NewSession(src, testInterval, func(v string) { got <- v })

	require.NoError(t, s.Start(context.Background()))
	waitForVIN(t, got)
	s.Wait()

	grabsAtLatch := src.grabCount()
	time.Sleep(5 * testInterval)

	assert.Equal(t, grabsAtLatch, src.grabCount(), "no frames after latch")
	assert.Len(t, got, 0, "VIN emitted exactly once")
}

func TestSession_ChecksumGate(t *testing.T) {
	// A well-formed 17-char read with a wrong check digit must not latch.
	src := &fakeSource{frames: []image.Image{qrFrame(t, badVIN)}}
	got := make(chan string, 1)
	s := NewSession(src, testInterval, func(v string) { got <- v })

	require.NoError(t, s.Start(context.Background()))
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) && s.LastRead() == "" {
		time.Sleep(testInterval)
	}

	assert.Equal(t, StateScanning, s.State())
	assert.Equal(t, badVIN, s.LastRead(), "raw read surfaces for UI feedback")
	assert.Len(t, got, 0)

	s.Stop()
	s.Wait()
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_PermissionDenied(t *testing.T) {
	src := &fakeSource{openErr: ErrPermissionDenied}
	s := NewSession(src, testInterval, nil)

	err := s.Start(context.Background())
	require.Error(t, err)

	var cerr *CaptureError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonPermissionDenied, cerr.Reason)
	assert.Equal(t, StateError, s.State())

	time.Sleep(4 * testInterval)
	assert.Zero(t, src.grabCount(), "no sampling after a failed start")
}

func TestSession_NoCameraClassified(t *testing.T) {
	src := &fakeSource{openErr: ErrNoCamera}
	s := NewSession(src, testInterval, nil)

	err := s.Start(context.Background())
	var cerr *CaptureError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ReasonNoCamera, cerr.Reason)
}

func TestSession_StopReleasesEverything(t *testing.T) {
	src := &fakeSource{frames: []image.Image{blankFrame()}}
	s := NewSession(src, testInterval, nil)

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(3 * testInterval)

	s.Stop()
	s.Wait()
	assert.Equal(t, StateIdle, s.State())
	require.GreaterOrEqual(t, src.closeCount(), 1)

	grabs := src.grabCount()
	time.Sleep(4 * testInterval)
	assert.Equal(t, grabs, src.grabCount(), "no background processing after teardown")

	s.Stop() // idempotent
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_StartTwiceRejected(t *testing.T) {
	src := &fakeSource{frames: []image.Image{blankFrame()}}
	s := NewSession(src, testInterval, nil)
	require.NoError(t, s.Start(context.Background()))
	defer func() { s.Stop(); s.Wait() }()

	assert.Error(t, s.Start(context.Background()))
}

func TestSession_ContextCancelStops(t *testing.T) {
	src := &fakeSource{frames: []image.Image{blankFrame()}}
	s := NewSession(src, testInterval, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()
	s.Wait()
	assert.Equal(t, StateIdle, s.State())
}

func TestClassifyCapture_Other(t *testing.T) {
	cerr := classifyCapture(errors.New("device busy"))
	assert.Equal(t, ReasonOther, cerr.Reason)
	assert.Contains(t, cerr.Error(), "camera error")
}
