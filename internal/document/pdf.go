package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFSource opens PDF documents from the local filesystem.
type PDFSource struct{}

// Open parses the PDF at location. Unreadable or zero-page files yield
// ErrUnreadable; the caller surfaces that as UI state, not a crash.
func (PDFSource) Open(location string) (Document, error) {
	f, r, err := pdf.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, location, err)
	}
	if r.NumPage() < 1 {
		f.Close()
		return nil, fmt.Errorf("%w: %s: no pages", ErrUnreadable, location)
	}
	return &pdfDocument{file: f, reader: r, location: location}, nil
}

type pdfDocument struct {
	file     *os.File
	reader   *pdf.Reader
	location string
}

func (d *pdfDocument) PageCount() int {
	return d.reader.NumPage()
}

// PageText extracts and normalizes the plain text of the zero-based page.
// Extraction errors are treated as absent text, not failures.
func (d *pdfDocument) PageText(ctx context.Context, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page < 0 || page >= d.reader.NumPage() {
		return "", fmt.Errorf("page %d out of range", page)
	}

	p := d.reader.Page(page + 1) // ledongthuc/pdf pages are 1-based
	if p.V.IsNull() {
		return "", nil
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", nil
	}
	return normalize(text), nil
}

func (d *pdfDocument) Title() string {
	base := filepath.Base(d.location)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d *pdfDocument) Location() string {
	return d.location
}

func (d *pdfDocument) Close() error {
	return d.file.Close()
}

// normalize collapses runs of whitespace so extracted text reads as a single
// flowing paragraph regardless of the PDF's internal line layout.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
