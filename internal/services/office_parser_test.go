package services

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Backend Engineer</w:t></w:r></w:p>
    <w:p></w:p>
    <w:p><w:r><w:t>Python</w:t><w:tab/><w:t>Go</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.docx")
	writeZip(t, path, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		docxBodyPart:          docxBody,
	})

	text, err := NewExtractorService(nil).Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Jane Doe\nSenior Backend Engineer\nPython\tGo"
	if diff := cmp.Diff(want, text); diff != "" {
		t.Fatalf("docx text mismatch (-want +got):\n%s", diff)
	}
}

const docxTextBoxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
  xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"
  xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p>
      <w:r><w:t xml:space="preserve">Contact </w:t></w:r>
      <w:r>
        <mc:AlternateContent>
          <mc:Choice Requires="wps">
            <wps:txbx><w:txbxContent><w:p><w:r><w:t>Certified Kubernetes Administrator</w:t></w:r></w:p></w:txbxContent></wps:txbx>
          </mc:Choice>
          <mc:Fallback>
            <w:pict><w:txbxContent><w:p><w:r><w:t>Certified Kubernetes Administrator</w:t></w:r></w:p></w:txbxContent></w:pict>
          </mc:Fallback>
        </mc:AlternateContent>
      </w:r>
      <w:r><w:t>jane@example.com</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

func TestExtractDOCXTextBoxReadOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.docx")
	writeZip(t, path, map[string]string{docxBodyPart: docxTextBoxBody})

	text, err := NewExtractorService(nil).Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Jane Doe\nCertified Kubernetes Administrator\nContact jane@example.com"
	if diff := cmp.Diff(want, text); diff != "" {
		t.Fatalf("docx text mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDOCXMissingBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	writeZip(t, path, map[string]string{"[Content_Types].xml": `<Types/>`})

	_, err := NewExtractorService(nil).Extract(path)
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestExtractDOCXNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	if err := os.WriteFile(path, []byte("plain text pretending"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewExtractorService(nil).Extract(path)
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func slideXML(paragraphs ...string) string {
	body := ""
	for _, p := range paragraphs {
		body += `<a:p><a:r><a:t>` + p + `</a:t></a:r></a:p>`
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>` + body + `</p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`
}

func TestExtractPPTXOrdersSlidesNumerically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.pptx")
	writeZip(t, path, map[string]string{
		"ppt/slides/slide10.xml":            slideXML("Ten"),
		"ppt/slides/slide2.xml":             slideXML("Two", "Second line"),
		"ppt/slides/slide1.xml":             slideXML("One"),
		"ppt/slides/slide3.xml":             slideXML(),
		"ppt/slides/_rels/slide1.xml.rels":  `<Relationships/>`,
		"ppt/slideLayouts/slideLayout1.xml": slideXML("Layout text"),
	})

	chunks, err := extractPPTX(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"One", "Two\nSecond line", "Ten"}
	if diff := cmp.Diff(want, chunks); diff != "" {
		t.Fatalf("slides mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPPTXWithoutSlides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pptx")
	writeZip(t, path, map[string]string{"ppt/presentation.xml": `<p:presentation/>`})

	if _, err := extractPPTX(path); err == nil {
		t.Fatal("expected error for presentation without slides")
	}
}
