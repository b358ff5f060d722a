// Package format identifies which office format a file or byte buffer holds.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a word-processing document.
	DOCX
	// XLSX indicates a spreadsheet.
	XLSX
	// PPTX indicates a presentation.
	PPTX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case XLSX:
		return ".xlsx"
	case PPTX:
		return ".pptx"
	default:
		return ""
	}
}

// Kind returns the paradigm name of the format: "word-processing",
// "spreadsheet" or "presentation".
func (f Format) Kind() string {
	switch f {
	case DOCX:
		return "word-processing"
	case XLSX:
		return "spreadsheet"
	case PPTX:
		return "presentation"
	default:
		return "unknown"
	}
}

// FromExtension maps a bare extension ("docx", ".DOCX") to a Format.
func FromExtension(ext string) Format {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	switch ext {
	case ".docx", ".docm", ".dotx":
		return DOCX
	case ".xlsx", ".xlsm", ".xltx":
		return XLSX
	case ".pptx", ".pptm", ".potx":
		return PPTX
	default:
		return Unknown
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	return FromExtension(filepath.Ext(filename))
}

var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// IsZip reports whether data starts with a local zip file header.
func IsZip(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// DetectFromBytes inspects the archive members of data to determine the
// format. It returns Unknown for anything that is not an OOXML package.
func DetectFromBytes(data []byte) Format {
	if !IsZip(data) {
		return Unknown
	}
	f, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}
	return f
}

// DetectFromReader inspects the content to determine format.
// This is more reliable than extension-based detection and can
// distinguish between the ZIP-based formats.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 4)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	if !IsZip(magic[:n]) {
		return Unknown, nil
	}
	return detectZIPFormat(r, size)
}

// detectZIPFormat looks for the part directory of each OOXML flavour. The
// content types part must be present for any of them to count.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	hasContentTypes := false
	found := Unknown
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			hasContentTypes = true
		case found != Unknown:
		case strings.HasPrefix(f.Name, "word/"):
			found = DOCX
		case strings.HasPrefix(f.Name, "xl/"):
			found = XLSX
		case strings.HasPrefix(f.Name, "ppt/"):
			found = PPTX
		}
	}
	if !hasContentTypes {
		return Unknown, nil
	}
	return found, nil
}
