package fileproc

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vendoprint/internal/domain"
)

func testProcessor() *Processor {
	return New([]string{"pdf", "doc", "docx", "jpg", "jpeg", "png"}, 50<<20)
}

func TestProcessor_Allowed(t *testing.T) {
	t.Parallel()

	p := testProcessor()

	allowed := []string{"report.pdf", "photo.JPG", "letter.docx", "scan.jpeg"}
	for _, name := range allowed {
		if !p.Allowed(name) {
			t.Errorf("%s should be allowed", name)
		}
	}

	rejected := []string{"script.sh", "archive.zip", "noext", "trailing.", ".pdf.exe"}
	for _, name := range rejected {
		if p.Allowed(name) {
			t.Errorf("%s should be rejected", name)
		}
	}
}

func TestProcessor_SafeName(t *testing.T) {
	t.Parallel()

	p := testProcessor()

	name := p.SafeName("../../etc/passwd")
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		t.Errorf("path components leaked into safe name: %s", name)
	}

	name = p.SafeName("my report (final).pdf")
	if strings.ContainsAny(name, " ()") {
		t.Errorf("unsafe characters survived: %s", name)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("extension lost: %s", name)
	}
}

func TestCountPages_PhotoIsAlwaysOne(t *testing.T) {
	t.Parallel()

	pages, err := testProcessor().CountPages("whatever.jpg", domain.FileTypePhoto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 1 {
		t.Errorf("expected 1 page for a photo, got %d", pages)
	}
}

func TestCountPages_PDF(t *testing.T) {
	t.Parallel()

	// Minimal PDF skeleton with three page objects and one /Pages node
	// that must not be counted.
	pdf := `%PDF-1.4
1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj
2 0 obj << /Type /Pages /Kids [3 0 R 4 0 R 5 0 R] /Count 3 >> endobj
3 0 obj << /Type /Page /Parent 2 0 R >> endobj
4 0 obj << /Type /Page /Parent 2 0 R >> endobj
5 0 obj << /Type /Page /Parent 2 0 R >> endobj
%%EOF`

	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte(pdf), 0o644); err != nil {
		t.Fatal(err)
	}

	pages, err := testProcessor().CountPages(path, domain.FileTypeDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 3 {
		t.Errorf("expected 3 pages, got %d", pages)
	}
}

func TestCountPages_PDFWithoutMarkersDefaultsToOne(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "odd.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%%EOF"), 0o644); err != nil {
		t.Fatal(err)
	}

	pages, err := testProcessor().CountPages(path, domain.FileTypeDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 1 {
		t.Errorf("expected fallback of 1 page, got %d", pages)
	}
}

func TestCountPages_Docx(t *testing.T) {
	t.Parallel()

	// 65 paragraphs at 30 per page quotes as 2 pages.
	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0"?><w:document><w:body>`)
	for i := 0; i < 65; i++ {
		doc.WriteString(`<w:p><w:r><w:t>text</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(doc.String())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	pages, err := testProcessor().CountPages(path, domain.FileTypeDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 2 {
		t.Errorf("expected 2 pages from 65 paragraphs, got %d", pages)
	}
}
