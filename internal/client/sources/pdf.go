package sources

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrInvalidPDF = errors.New("not a valid PDF")

var disableConfigDir sync.Once

// IsPDF reports whether name has a .pdf extension.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// ValidatePDF checks that data parses as a PDF and returns its page count.
func ValidatePDF(data []byte) (int, error) {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	return pages, nil
}

// Prepare reads src into memory and, for PDFs, validates it. It closes the
// original body and returns a source backed by the buffered bytes together
// with the page count (0 for non-PDF files).
func Prepare(src *Source) (*Source, int, error) {
	defer src.Body.Close()

	data, err := io.ReadAll(src.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", src.Name, err)
	}

	pages := 0
	if IsPDF(src.Name) {
		if pages, err = ValidatePDF(data); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", src.Name, err)
		}
	}

	return &Source{Name: src.Name, Body: io.NopCloser(bytes.NewReader(data))}, pages, nil
}
