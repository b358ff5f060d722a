package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{XLSX, "XLSX"},
		{PPTX, "PPTX"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, ".docx"},
		{XLSX, ".xlsx"},
		{PPTX, ".pptx"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.docx", DOCX},
		{"document.DOCX", DOCX},
		{"document.Docx", DOCX},
		{"book.xlsx", XLSX},
		{"book.XLSM", XLSX},
		{"deck.pptx", PPTX},
		{"deck.Pptx", PPTX},
		{"document.pdf", Unknown},
		{"document.odt", Unknown},
		{"document", Unknown},
		{"", Unknown},
		{"/path/to/file.docx", DOCX},
		{"/path/to/file.xlsx", XLSX},
		{"/path/to/file.pptx", PPTX},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestFromExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{"docx", DOCX},
		{".docx", DOCX},
		{" XLSX ", XLSX},
		{"pptx", PPTX},
		{"txt", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := FromExtension(tt.ext); got != tt.want {
			t.Errorf("FromExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

// buildZip creates an in-memory archive containing the named empty members.
func buildZip(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte("<x/>")); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"docx", buildZip(t, "[Content_Types].xml", "word/document.xml"), DOCX},
		{"xlsx", buildZip(t, "[Content_Types].xml", "xl/workbook.xml"), XLSX},
		{"pptx", buildZip(t, "[Content_Types].xml", "ppt/presentation.xml"), PPTX},
		{"no content types", buildZip(t, "word/document.xml"), Unknown},
		{"plain zip", buildZip(t, "[Content_Types].xml", "readme.txt"), Unknown},
		{"zip magic only", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, Unknown},
		{"pdf", []byte("%PDF-1.7"), Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromBytes(tt.data); got != tt.want {
				t.Errorf("DetectFromBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_Unknown(t *testing.T) {
	data := []byte("Hello, World! This is plain text.")
	r := bytes.NewReader(data)

	format, err := DetectFromReader(r, int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != Unknown {
		t.Errorf("DetectFromReader() = %v, want Unknown", format)
	}
}

func TestFormat_Kind(t *testing.T) {
	if DOCX.Kind() != "word-processing" || XLSX.Kind() != "spreadsheet" || PPTX.Kind() != "presentation" {
		t.Error("unexpected Kind() values")
	}
}
