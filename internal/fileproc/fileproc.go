// Package fileproc validates uploads and estimates document page counts.
// Page counting is deliberately heuristic: the kiosk needs a price, not a
// typesetting engine, and a miscount only changes the quote the user sees
// before paying.
package fileproc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"vendoprint/internal/domain"
)

// Processor validates and inspects uploaded files.
type Processor struct {
	allowedExts map[string]bool
	maxBytes    int64
}

// New creates a Processor with the given extension whitelist and size cap.
func New(extensions []string, maxBytes int64) *Processor {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &Processor{allowedExts: allowed, maxBytes: maxBytes}
}

// Allowed reports whether the filename's extension is accepted.
func (p *Processor) Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ext != "" && p.allowedExts[ext]
}

// MaxBytes returns the upload size cap.
func (p *Processor) MaxBytes() int64 {
	return p.maxBytes
}

// SafeName sanitizes an uploaded filename and prefixes it with a
// timestamp so successive uploads never collide.
func (p *Processor) SafeName(filename string) string {
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	return fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), base)
}

var pdfPagePattern = regexp.MustCompile(`/Type\s*/Page[^s]`)

// CountPages estimates the number of pages in the uploaded file. Photos
// are always one page. PDF pages are counted from page object markers;
// Word documents are estimated from paragraph density, one page per 30
// paragraphs, matching how the kiosk has always quoted them.
func (p *Processor) CountPages(path string, fileType domain.FileType) (int, error) {
	if fileType == domain.FileTypePhoto {
		return 1, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return countPDFPages(path)
	case ".docx":
		return countDocxPages(path)
	case ".doc", ".png", ".jpg", ".jpeg":
		return 1, nil
	default:
		return 1, nil
	}
}

func countPDFPages(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 1, err
	}

	// A trailing page marker at EOF has no following byte; pad so the
	// pattern still sees it.
	matches := pdfPagePattern.FindAll(append(data, '\n'), -1)
	if len(matches) == 0 {
		return 1, nil
	}
	return len(matches), nil
}

func countDocxPages(path string) (int, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return 1, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return 1, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return 1, err
		}

		paragraphs := bytes.Count(data, []byte("<w:p "))
		paragraphs += bytes.Count(data, []byte("<w:p>"))
		pages := paragraphs / 30
		if pages < 1 {
			pages = 1
		}
		return pages, nil
	}

	return 1, nil
}
