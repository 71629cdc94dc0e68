package skinbrief

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

const (
	DefaultFilename = "composited_skin.png"
	ContentType     = "image/png"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// Export encodes img as PNG.
func Export(w io.Writer, img image.Image) error {
	if err := pngEncoder.Encode(w, img); err != nil {
		return fmt.Errorf("skinbrief: encode png: %w", err)
	}
	return nil
}

// SaveFile writes img to dir under DefaultFilename and returns the path.
func SaveFile(dir string, img image.Image) (string, error) {
	path := filepath.Join(dir, DefaultFilename)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Export(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}
