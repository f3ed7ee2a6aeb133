package scan

import (
	"errors"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoSymbol is returned when no reader finds a barcode in a frame. This is
// the normal outcome for most frames.
var ErrNoSymbol = errors.New("scan: no symbol in frame")

// SymbolReader decodes 1D/2D barcode symbols from single frames. Fleet VIN
// labels show up in a handful of symbologies, so each frame is tried against
// every reader with TRY_HARDER set, the same hints the handheld apps use.
// gozxing ships no PDF417 decoder; those labels fall back to manual entry.
//
// Not safe for concurrent use; each scan session owns one instance.
type SymbolReader struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

func NewSymbolReader() *SymbolReader {
	return &SymbolReader{
		readers: []gozxing.Reader{
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
			oned.NewCode93Reader(),
			oned.NewITFReader(),
			qrcode.NewQRCodeReader(),
			datamatrix.NewDataMatrixReader(),
		},
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// ReadFrame attempts one decode over the frame's luminance, trying each
// symbology in turn. Returns the raw decoded text, or ErrNoSymbol when no
// reader matched.
func (r *SymbolReader) ReadFrame(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}
	for _, reader := range r.readers {
		result, err := reader.Decode(bmp, r.hints)
		reader.Reset()
		if err == nil {
			return result.GetText(), nil
		}
	}
	return "", ErrNoSymbol
}
