// Package document extracts metadata from uploaded print files.
package document

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// AllowedExtensions are the upload types the intake accepts.
var AllowedExtensions = []string{"pdf", "jpg", "jpeg", "png"}

// Allowed reports whether a filename carries an accepted extension.
func Allowed(fileName string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// PageCounter reports the printable page count of an uploaded file.
type PageCounter interface {
	PageCount(fileName string, content []byte) int
}

type pdfPageCounter struct{}

func NewPageCounter() PageCounter {
	return pdfPageCounter{}
}

// PageCount counts pages of a PDF; images and unreadable PDFs count as one
// page. Extraction failure is deliberately non-fatal: pricing can be
// corrected later through configuration.
func (pdfPageCounter) PageCount(fileName string, content []byte) int {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext != "pdf" {
		return 1
	}
	count, err := api.PageCount(bytes.NewReader(content), nil)
	if err != nil || count < 1 {
		log.Printf("document: page count failed for %s, defaulting to 1: %v", fileName, err)
		return 1
	}
	return count
}

// SizeMB converts a byte length to megabytes rounded to 2 decimals.
func SizeMB(size int64) float64 {
	mb := float64(size) / (1024 * 1024)
	return float64(int(mb*100+0.5)) / 100
}
