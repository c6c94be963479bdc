package services

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

const docxBodyPart = "word/document.xml"

// extractDOCX returns the non-empty paragraphs of the document body.
func extractDOCX(filePath string) ([]string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if file.Name != docxBodyPart {
			continue
		}
		return readXMLParagraphs(file)
	}

	return nil, fmt.Errorf("%s not found", docxBodyPart)
}

// extractPPTX returns one chunk per slide with text, in slide order.
func extractPPTX(filePath string) ([]string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx archive: %w", err)
	}
	defer zr.Close()

	type slide struct {
		number int
		file   *zip.File
	}

	var slides []slide
	for _, file := range zr.File {
		dir, name := path.Split(file.Name)
		if dir != "ppt/slides/" || !strings.HasPrefix(name, "slide") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "slide"), ".xml"))
		if err != nil {
			continue
		}
		slides = append(slides, slide{number: n, file: file})
	}

	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found")
	}

	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	var chunks []string
	for _, s := range slides {
		paragraphs, err := readXMLParagraphs(s.file)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", s.number, err)
		}
		if len(paragraphs) == 0 {
			continue
		}
		chunks = append(chunks, strings.Join(paragraphs, "\n"))
	}

	return chunks, nil
}

func readXMLParagraphs(file *zip.File) ([]string, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer rc.Close()

	paragraphs, err := xmlParagraphs(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Name, err)
	}
	return paragraphs, nil
}

// xmlParagraphs collects the text runs of OOXML markup. WordprocessingML and
// DrawingML share the local names used here: p (paragraph), t (text run),
// tab and br. Only the Choice branch of mc:AlternateContent is read. A
// paragraph nested in a text box is emitted before the paragraph holding it.
func xmlParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		open       []*strings.Builder
		loose      strings.Builder
		inText     bool
	)

	current := func() *strings.Builder {
		if len(open) == 0 {
			return &loose
		}
		return open[len(open)-1]
	}
	flush := func(b *strings.Builder) {
		if text := strings.TrimSpace(b.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		b.Reset()
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "Fallback":
				if isMarkupCompatibility(el.Name) {
					if err := decoder.Skip(); err != nil {
						return nil, err
					}
				}
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				current().WriteString("\t")
			case "br":
				current().WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if len(open) > 0 {
					flush(open[len(open)-1])
					open = open[:len(open)-1]
				}
			}
		case xml.CharData:
			if inText {
				current().Write(el)
			}
		}
	}

	for len(open) > 0 {
		flush(open[len(open)-1])
		open = open[:len(open)-1]
	}
	flush(&loose)

	return paragraphs, nil
}

const markupCompatibilityNS = "http://schemas.openxmlformats.org/markup-compatibility/2006"

func isMarkupCompatibility(name xml.Name) bool {
	return name.Space == markupCompatibilityNS || name.Space == "mc"
}
