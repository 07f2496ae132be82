package convert

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"

	"code.sajari.com/docconv/v2"
)

// docToHTML converts a legacy .doc payload into simple renderable markup.
// The binary format is handled by docconv; paragraph text is wrapped for
// the headless renderer.
func docToHTML(data []byte) (string, error) {
	body, _, err := docconv.ConvertDoc(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("extract doc text: %w", err)
	}

	var b strings.Builder
	b.WriteString("<html><body>")
	for _, para := range strings.Split(body, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(para))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.String(), nil
}

// docxToHTML converts a .docx payload into simple renderable markup by
// walking word/document.xml inside the OOXML archive. Heading-styled
// paragraphs become <h1>..<h6>, everything else <p>.
func docxToHTML(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return docxXMLToHTML(rc)
}

func docxXMLToHTML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var b strings.Builder
	b.WriteString("<html><body>")

	var currentText strings.Builder
	var inParagraph bool
	var paragraphStyle string

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "p":
				inParagraph = true
				currentText.Reset()
				paragraphStyle = ""
			case t.Name.Local == "pStyle" && inParagraph:
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						paragraphStyle = attr.Value
					}
				}
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}

				if level := docxHeadingLevel(paragraphStyle); level > 0 {
					fmt.Fprintf(&b, "<h%d>%s</h%d>", level, html.EscapeString(text), level)
				} else {
					b.WriteString("<p>")
					b.WriteString(html.EscapeString(text))
					b.WriteString("</p>")
				}
			}
		}
	}

	b.WriteString("</body></html>")
	return b.String(), nil
}

// docxHeadingLevel extracts the heading level from a paragraph style name,
// e.g. "Heading1" → 1, "Title" → 1, "Subtitle" → 2.
func docxHeadingLevel(style string) int {
	lower := strings.ToLower(style)

	if lower == "title" {
		return 1
	}
	if lower == "subtitle" {
		return 2
	}

	if rest, ok := strings.CutPrefix(lower, "heading"); ok {
		if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
			return int(rest[0] - '0')
		}
	}
	return 0
}
