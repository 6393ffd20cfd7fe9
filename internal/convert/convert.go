// Package convert drives the external document converters. soffice turns office
// documents into PDF and pdf2htmlEX renders a PDF as a single HTML page.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	ToolSoffice  = "soffice"
	ToolPdf2HTML = "pdf2htmlEX"

	LinuxSofficePath  = "/usr/bin/soffice"
	DarwinSofficePath = "/Applications/LibreOffice.app/Contents/MacOS/soffice"
	DefaultPdf2HTML   = "pdf2htmlEX"
	DefaultZoom       = 1.25
)

// OfficeConverter converts an office document into a PDF placed in outDir.
type OfficeConverter interface {
	ConvertToPDF(ctx context.Context, inputPath, outDir string) (string, error)
}

// HTMLRenderer renders pdfPath into destDir/outName.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, pdfPath, destDir, outName string) (string, error)
}

// PDFInspector reports how many pages a PDF has.
type PDFInspector interface {
	PageCount(path string) (int, error)
}

// Runner executes a binary and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands through os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// SofficePath picks the soffice binary. An explicit override always wins;
// otherwise production-like environments and non-darwin hosts use the Linux path.
func SofficePath(override string, productionLike bool, goos string) string {
	if p := strings.TrimSpace(override); p != "" {
		return p
	}
	if productionLike || goos != "darwin" {
		return LinuxSofficePath
	}
	return DarwinSofficePath
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	const max = 512
	if len(s) > max {
		return s[len(s)-max:]
	}
	return s
}
