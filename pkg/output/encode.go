package output

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
)

// Format identifies an output image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatPPM Format = "ppm"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatPNG, FormatPPM:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want png or ppm)", name)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatPPM {
		return "image/x-portable-pixmap"
	}
	return "image/png"
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return EncodePNG(w, img)
	case FormatPPM:
		return EncodePPM(w, img)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// EncodeBytes encodes img into a new buffer
func EncodeBytes(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePNG writes img as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// EncodePPM writes img as an ASCII (P3) portable pixmap, top row first
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			fmt.Fprintf(bw, "%d %d %d\n", r>>8, g>>8, b>>8)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PPM: %w", err)
	}
	return nil
}
