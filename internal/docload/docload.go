// Package docload extracts plain text from uploaded disclosure documents.
//
// Supported formats:
//   - .docx — Microsoft Word (archive/zip → word/document.xml, paragraph texts
//     joined with newlines, in document order)
//   - .tex  — LaTeX source, decoded verbatim as UTF-8
//   - .txt  — plain text, decoded verbatim as UTF-8
package docload

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format identifies a supported disclosure document format.
type Format string

const (
	FormatDocx Format = "docx"
	FormatTex  Format = "tex"
	FormatText Format = "txt"
)

// ErrUnsupportedFormat is returned when a file's extension does not map to a
// supported format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// LoadError wraps a failure to read or parse an otherwise supported document.
type LoadError struct {
	Filename string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Filename, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Detect returns the document format based on file extension.
func Detect(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return FormatDocx, nil
	case ".tex":
		return FormatTex, nil
	case ".txt", ".text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// SupportedExtensions returns the extensions Load accepts, for upload-form hints.
func SupportedExtensions() []string {
	return []string{".docx", ".tex", ".txt"}
}

// Load reads the full document and returns its plain text. The format is
// chosen by the declared filename's extension; unsupported extensions fail
// with ErrUnsupportedFormat before any content is read.
func Load(r io.Reader, filename string) (string, error) {
	format, err := Detect(filename)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &LoadError{Filename: filename, Err: err}
	}

	var text string
	switch format {
	case FormatDocx:
		text, err = extractDocx(data)
	case FormatTex, FormatText:
		text, err = decodeText(data)
	}
	if err != nil {
		return "", &LoadError{Filename: filename, Err: err}
	}
	return text, nil
}

func decodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("content is not valid UTF-8")
	}
	return string(data), nil
}

// extractDocx pulls word/document.xml out of the docx archive and joins the
// text of each w:p paragraph with a newline. No heading or list structure is
// interpreted; empty paragraphs are preserved as blank lines.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("docx archive has no word/document.xml")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open word/document.xml: %w", err)
	}
	defer rc.Close()
	return extractParagraphs(rc)
}

func extractParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var paragraphs []string
	var current strings.Builder
	inParagraph := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse word/document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				if !inParagraph {
					continue
				}
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return "", fmt.Errorf("parse word/document.xml: %w", err)
				}
				current.WriteString(text)
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				paragraphs = append(paragraphs, current.String())
				inParagraph = false
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}
