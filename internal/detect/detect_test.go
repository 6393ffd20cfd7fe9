package detect

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func zipBytes(t *testing.T, entries ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte("<xml/>")); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestFile(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	binary := []byte{0x00, 0x01, 0x02, 0x03, 0xfe, 0xff, 0x00, 0x10}

	tests := []struct {
		name string
		file string
		data []byte
		want string
	}{
		{name: "plain text drops charset", file: "a.txt", data: []byte("hello world\n"), want: "text/plain"},
		{name: "pdf", file: "a.bin", data: []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"), want: MIMEPDF},
		{name: "png ignores extension", file: "resume.doc", data: pngHeader, want: "image/png"},
		{name: "docx in zip", file: "cv.zip", data: zipBytes(t, "[Content_Types].xml", "word/document.xml"), want: MIMEDOCX},
		{name: "plain zip", file: "notes.zip", data: zipBytes(t, "notes.txt"), want: MIMEZip},
		{name: "unknown content uses extension", file: "cv.rtf", data: binary, want: "application/rtf"},
		{name: "unknown content unknown extension", file: "blob.qqq", data: binary, want: MIMEOctetStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := File(writeFile(t, tt.file, tt.data))
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if got != tt.want {
				t.Fatalf("File() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "missing.doc")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestIsDocxContainer(t *testing.T) {
	if !IsDocxContainer("application/zip", "u1.DOCX") {
		t.Fatal("expected zip with .docx to be a docx container")
	}
	if IsDocxContainer("application/zip", "u1.zip") {
		t.Fatal("zip without .docx must not qualify")
	}
	if IsDocxContainer("application/pdf", "u1.docx") {
		t.Fatal("non-zip must not qualify")
	}
}
