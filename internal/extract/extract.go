// Package extract converts uploaded résumé and job description documents into
// plain text.
package extract

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"resumeai/internal/errors"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Source formats reported alongside extracted text
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
	FormatDOCX     = "docx"
	FormatHTML     = "html"
)

var formatsByExt = map[string]string{
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
	".html":     FormatHTML,
	".htm":      FormatHTML,
}

// FormatOf returns the source format for filename's extension.
func FormatOf(filename string) (string, bool) {
	f, ok := formatsByExt[strings.ToLower(filepath.Ext(filename))]
	return f, ok
}

// Text extracts the text of data, choosing the decoder from filename's
// extension. It returns the text and its source format.
func Text(filename string, data []byte) (string, string, error) {
	format, ok := FormatOf(filename)
	if !ok {
		return "", "", errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
			"unsupported document type, use .txt, .md, .pdf, .docx or .html", nil).
			WithContext("filename", filename)
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = pdfText(data)
	case FormatDOCX:
		text, err = docxText(data)
	case FormatHTML:
		text, err = HTMLText(string(data), DefaultSelectors())
	default:
		text = string(data)
	}
	if err != nil {
		return "", format, errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("failed to read %s document", format), err).
			WithContext("filename", filename)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", format, errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"no text could be extracted from the document", nil).
			WithContext("filename", filename)
	}
	return text, format, nil
}

// pdfText concatenates the plain text of every page. The pdf reader panics
// on some malformed documents, which is reported as an error.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
	tabElement   = regexp.MustCompile(`<w:tab/>`)
	xmlTag       = regexp.MustCompile(`<[^>]*>`)
)

// docxText flattens the document XML into one line per paragraph.
func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabElement.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return cleanLines(html.UnescapeString(content)), nil
}

// cleanLines trims every line and drops the empty ones.
func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
