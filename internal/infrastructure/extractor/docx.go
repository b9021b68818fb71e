package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
)

const docxBodyPath = "word/document.xml"

// extractDocxText strips all formatting from a .docx payload and returns the
// raw paragraph text. The container is a zip archive; the body lives in
// word/document.xml with visible text inside <w:t> runs.
func extractDocxText(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open docx archive", err)
	}

	var body []byte
	for _, f := range zr.File {
		if f.Name != docxBodyPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", domain.WrapError(domain.ErrExtraction, "open docx body", err)
		}
		body, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.WrapError(domain.ErrExtraction, "read docx body", err)
		}
		break
	}
	if body == nil {
		return "", domain.WrapError(
			domain.ErrExtraction,
			"open docx body",
			errors.New(docxBodyPath+" not found in archive"),
		)
	}

	text, err := flattenDocxBody(body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(
			domain.ErrEmptyDocument,
			"extract docx text",
			errors.New("document body is empty after trimming"),
		)
	}
	return text, nil
}

// flattenDocxBody walks the WordprocessingML token stream: text from <w:t>
// runs, tabs and line breaks from <w:tab>/<w:br>, a newline per closed
// paragraph.
func flattenDocxBody(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var sb strings.Builder
	inRun := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", domain.WrapError(domain.ErrExtraction, "parse docx xml", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inRun = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inRun {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
