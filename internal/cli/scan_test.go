package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

func writeQRFrame(t *testing.T, path, text string) {
	t.Helper()
	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(text, gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, matrix); err != nil {
		t.Fatal(err)
	}
}

func TestRunScan_FindsVINInFrames(t *testing.T) {
	dir := t.TempDir()
	writeQRFrame(t, filepath.Join(dir, "frame.png"), "1M8GDM9AXKP042788")

	var out bytes.Buffer
	app := NewApp(&out)
	err := app.Run(context.Background(), []string{"scan", "-dir", dir, "-no-decode", "-timeout", "10s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "VIN: 1M8GDM9AXKP042788") {
		t.Fatalf("VIN not reported, got %q", out.String())
	}
}

func TestRunScan_NoSymbolTimesOut(t *testing.T) {
	dir := t.TempDir()
	// a frame with no barcode at all
	writeQRFrame(t, filepath.Join(dir, "frame.png"), "not a vin")

	var out bytes.Buffer
	app := NewApp(&out)
	err := app.Run(context.Background(), []string{"scan", "-dir", dir, "-timeout", "500ms"})
	if err == nil || !strings.Contains(err.Error(), "no VIN found") {
		t.Fatalf("want no-VIN error, got %v", err)
	}
}
