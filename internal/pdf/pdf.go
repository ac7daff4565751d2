// Package pdf renders plain text into a single-column PDF document.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	margin     = 40.0 // points, left and top
	fontSize   = 12.0
	lineHeight = fontSize * 1.2
	// MaxLineRunes is the cut-off for each source line. Longer lines are
	// truncated, not wrapped.
	MaxLineRunes = 80
)

// Document is a rendered PDF ready to be sent to a browser.
type Document struct {
	Filename string `json:"filename"`
	Base64   string `json:"base64"`
}

// Render writes every line of content on US Letter pages in Helvetica,
// starting a new page when the bottom margin is reached.
func Render(content, filename string) (*Document, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetFont("Helvetica", "", fontSize)
	doc.AddPage()

	// Core fonts are cp1252; anything outside it is replaced.
	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, line := range strings.Split(content, "\n") {
		doc.CellFormat(0, lineHeight, tr(truncate(line, MaxLineRunes)), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: writing %s: %w", filename, err)
	}

	return &Document{
		Filename: filename,
		Base64:   base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func truncate(line string, n int) string {
	line = strings.TrimRight(line, "\r")
	runes := []rune(line)
	if len(runes) <= n {
		return line
	}
	return string(runes[:n])
}
