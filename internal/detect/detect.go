// Package detect resolves the MIME type of staged files. Content sniffing always
// wins; the file extension is consulted only when the content is unrecognised.
package detect

import (
	"archive/zip"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEOctetStream = "application/octet-stream"
	MIMEPDF         = "application/pdf"
	MIMEZip         = "application/zip"
	MIMEMSWord      = "application/msword"
	MIMEDOCX        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPPTX        = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// mime.TypeByExtension depends on the host's mime.types; office formats are pinned here.
var extensionTypes = map[string]string{
	".doc":  MIMEMSWord,
	".docx": MIMEDOCX,
	".rtf":  "application/rtf",
	".txt":  "text/plain",
	".pdf":  MIMEPDF,
	".xlsx": MIMEXLSX,
	".pptx": MIMEPPTX,
}

// File returns the MIME type of the file at path, without parameters.
func File(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect type %s: %w", path, err)
	}

	detected := Normalize(m.String())
	switch detected {
	case MIMEZip:
		if mapped := ooxmlFromZip(path); mapped != "" {
			return mapped, nil
		}
	case MIMEOctetStream:
		if guessed := ByExtension(path); guessed != "" {
			return guessed, nil
		}
	}
	return detected, nil
}

// ByExtension guesses a MIME type from the file name alone.
func ByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return Normalize(mime.TypeByExtension(ext))
}

// Normalize lowercases and strips parameters such as charset.
func Normalize(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

// IsDocxContainer reports whether a generic zip is really a word-processor document by name.
func IsDocxContainer(mimeType, fileName string) bool {
	return Normalize(mimeType) == MIMEZip && strings.EqualFold(filepath.Ext(fileName), ".docx")
}

func ooxmlFromZip(path string) string {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer zr.Close()

	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		switch name {
		case "word/document.xml":
			return MIMEDOCX
		case "xl/workbook.xml":
			return MIMEXLSX
		case "ppt/presentation.xml":
			return MIMEPPTX
		}
	}
	return ""
}
