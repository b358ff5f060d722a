package model

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ImageFormat represents image format
type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatPNG
	ImageFormatJPEG
	ImageFormatGIF
	ImageFormatBMP
	ImageFormatTIFF
	ImageFormatWebP
	ImageFormatSVG
	ImageFormatEMF
	ImageFormatWMF
)

// Extension returns the file extension for the format without a dot.
func (f ImageFormat) Extension() string {
	switch f {
	case ImageFormatPNG:
		return "png"
	case ImageFormatJPEG:
		return "jpg"
	case ImageFormatGIF:
		return "gif"
	case ImageFormatBMP:
		return "bmp"
	case ImageFormatTIFF:
		return "tiff"
	case ImageFormatWebP:
		return "webp"
	case ImageFormatSVG:
		return "svg"
	case ImageFormatEMF:
		return "emf"
	case ImageFormatWMF:
		return "wmf"
	default:
		return "bin"
	}
}

// DetectImageFormat identifies an image from its leading bytes.
func DetectImageFormat(data []byte) ImageFormat {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return ImageFormatPNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return ImageFormatJPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return ImageFormatGIF
	case bytes.HasPrefix(data, []byte("BM")):
		return ImageFormatBMP
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return ImageFormatTIFF
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return ImageFormatWebP
	case len(data) >= 44 && data[0] == 0x01 && data[1] == 0 && data[2] == 0 && data[3] == 0 &&
		bytes.Equal(data[40:44], []byte(" EMF")):
		return ImageFormatEMF
	case bytes.HasPrefix(data, []byte{0xD7, 0xCD, 0xC6, 0x9A}), bytes.HasPrefix(data, []byte{0x01, 0x00, 0x09, 0x00}):
		return ImageFormatWMF
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if bytes.Contains(head, []byte("<svg")) {
		return ImageFormatSVG
	}
	return ImageFormatUnknown
}

// NewImage builds an Image from raw bytes, detecting its format.
func NewImage(data []byte) Image {
	return Image{Data: data, Format: DetectImageFormat(data)}
}

// IntrinsicSize returns the natural size of a raster image in points,
// assuming 96 pixels per inch. It reports false for vector or undecodable
// data.
func (i *Image) IntrinsicSize() (width, height float64, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(i.Data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, false
	}
	const pxToPt = 72.0 / 96.0
	return float64(cfg.Width) * pxToPt, float64(cfg.Height) * pxToPt, true
}
