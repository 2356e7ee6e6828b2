package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gigevision/camnode/internal/camera"
)

func TestWritePGM12Bit(t *testing.T) {
	// Two pixels, little-endian, right-aligned: 0x0123 and 0x0FFF.
	frame := &camera.Frame{
		Data:   []byte{0x23, 0x01, 0xFF, 0x0F},
		Width:  2,
		Height: 1,
		Depth:  12,
	}

	path := filepath.Join(t.TempDir(), "frame.pgm")
	if err := writePGM(path, frame); err != nil {
		t.Fatalf("writePGM: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	wantHeader := []byte("P5\n2 1\n4095\n")
	if !bytes.HasPrefix(data, wantHeader) {
		t.Fatalf("header = %q, want prefix %q", data[:min(len(data), len(wantHeader))], wantHeader)
	}

	// PGM stores multi-byte samples big-endian.
	pixels := data[len(wantHeader):]
	wantPixels := []byte{0x01, 0x23, 0x0F, 0xFF}
	if !bytes.Equal(pixels, wantPixels) {
		t.Errorf("pixels = %x, want %x", pixels, wantPixels)
	}
}

func TestWritePGM8Bit(t *testing.T) {
	frame := &camera.Frame{
		Data:   []byte{0x00, 0x7F, 0xFF},
		Width:  3,
		Height: 1,
		Depth:  8,
	}

	path := filepath.Join(t.TempDir(), "frame.pgm")
	if err := writePGM(path, frame); err != nil {
		t.Fatalf("writePGM: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	wantHeader := []byte("P5\n3 1\n255\n")
	if !bytes.HasPrefix(data, wantHeader) {
		t.Fatalf("header = %q", data)
	}
	if !bytes.Equal(data[len(wantHeader):], frame.Data) {
		t.Errorf("pixels = %x, want raw bytes unchanged", data[len(wantHeader):])
	}
}
