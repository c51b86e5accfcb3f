package docload

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

const docxContentType = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": docxContentType,
		"word/document.xml":   documentXML,
	} {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func paragraphXML(texts ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, text := range texts {
		sb.WriteString(`<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`)
	}
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func TestLoadDocxJoinsParagraphs(t *testing.T) {
	data := buildDocx(t, paragraphXML("Widget X reduces latency.", "It is made of titanium."))
	text, err := Load(bytes.NewReader(data), "disclosure.docx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "Widget X reduces latency.\nIt is made of titanium."
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestLoadDocxPreservesEmptyParagraphs(t *testing.T) {
	xml := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>First</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>Third</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	text, err := Load(bytes.NewReader(buildDocx(t, xml)), "form.docx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if text != "First\n\nThird" {
		t.Fatalf("got %q", text)
	}
}

func TestLoadDocxConcatenatesRunsWithinParagraph(t *testing.T) {
	xml := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	text, err := Load(bytes.NewReader(buildDocx(t, xml)), "form.docx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if text != "Hello world" {
		t.Fatalf("got %q", text)
	}
}

func TestLoadTexVerbatim(t *testing.T) {
	src := "\\documentclass{article}\n\\begin{document}\nWidget X.\n\\end{document}\n"
	text, err := Load(strings.NewReader(src), "disclosure.tex")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if text != src {
		t.Fatalf("tex content was not returned verbatim:\ngot  %q\nwant %q", text, src)
	}
}

func TestLoadTxtVerbatim(t *testing.T) {
	src := "Widget X reduces latency."
	text, err := Load(strings.NewReader(src), "notes.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if text != src {
		t.Fatalf("got %q, want %q", text, src)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(strings.NewReader("%PDF-1.4"), "disclosure.pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadCorruptDocx(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not a zip archive")), "broken.docx")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Filename != "broken.docx" {
		t.Fatalf("expected filename in error, got %q", loadErr.Filename)
	}
}

func TestLoadDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("[Content_Types].xml")
	_, _ = f.Write([]byte(docxContentType))
	_ = zw.Close()

	_, err := Load(bytes.NewReader(buf.Bytes()), "empty.docx")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestLoadInvalidUTF8Text(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{0xff, 0xfe, 0x00}), "latin.txt")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError for invalid UTF-8, got %v", err)
	}
}

func TestDetectIsCaseInsensitive(t *testing.T) {
	format, err := Detect("FORM.DOCX")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if format != FormatDocx {
		t.Fatalf("got %s, want %s", format, FormatDocx)
	}
}
