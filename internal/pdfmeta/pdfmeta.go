// Package pdfmeta reads embedded document metadata from PDF files.
package pdfmeta

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocInfo holds the document information dictionary of a PDF.
// Fields are empty strings when the corresponding entry is absent.
type DocInfo struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// DefaultMaxPages is how many pages the text fallback reads.
// Journal headers live on the first page or two.
const DefaultMaxPages = 2

// ReadInfo reads the Info dictionary of the PDF at path.
// A PDF without an Info dictionary yields a zero DocInfo, not an error.
func ReadInfo(path string) (info DocInfo, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return DocInfo{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	dict := r.Trailer().Key("Info")
	if dict.IsNull() {
		return DocInfo{}, nil
	}

	info = DocInfo{
		Title:    infoString(dict, "Title"),
		Author:   infoString(dict, "Author"),
		Subject:  infoString(dict, "Subject"),
		Keywords: infoString(dict, "Keywords"),
		Creator:  infoString(dict, "Creator"),
		Producer: infoString(dict, "Producer"),
	}
	return info, nil
}

// Subject returns the subjects metadata field of the PDF at path,
// and whether it was present and non-empty.
func Subject(path string) (string, bool, error) {
	info, err := ReadInfo(path)
	if err != nil {
		return "", false, err
	}
	s := strings.TrimSpace(info.Subject)
	return s, s != "", nil
}

// FirstPagesText extracts plain text from the first maxPages pages.
// Pages that fail to decode are skipped.
func FirstPagesText(path string, maxPages int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// infoString reads a text entry from the Info dictionary.
func infoString(dict pdf.Value, key string) string {
	v := dict.Key(key)
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.Text())
}
