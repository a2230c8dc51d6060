package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// FromBytes extracts plain text from an uploaded document. Dispatch is by
// file extension: .pdf uses the text-layer parser, .docx reads
// word/document.xml, everything else is decoded as UTF-8. It never returns
// an error: parser failures yield best-effort partial text or "".
// Libraries used: github.com/ledongthuc/pdf (PDF).
func FromBytes(fileName string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	default:
		return decodePlain(data)
	}
}

func extractPDF(data []byte) (text string) {
	// The pdf package panics on some malformed xref tables.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return ""
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return buf.String()
	}
	return buf.String()
}

func extractDOCX(data []byte) string {
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return ""
	}

	rc, err := docFile.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}

	return stripDocxXML(string(raw))
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return strings.TrimSpace(buf.String())
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func decodePlain(data []byte) string {
	cleaned := bytes.ReplaceAll(data, []byte{0}, nil)
	if utf8.Valid(cleaned) {
		return strings.TrimSpace(string(cleaned))
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(cleaned), ""))
}
