package services

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// skippedElements never contribute text.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// blockElements end the current line of text.
var blockElements = map[atom.Atom]bool{
	atom.Title: true, atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Dt: true, atom.Dd: true,
	atom.Table: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Main: true, atom.Nav: true, atom.Aside: true, atom.Blockquote: true, atom.Pre: true,
}

// extractPlainText is the fallback strategy for unrecognised extensions. The
// content type is sniffed: text is decoded to UTF-8 (BOM or detected charset),
// HTML and XML are reduced to their text, anything else is rejected.
func extractPlainText(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mtype := mimetype.Detect(data)
	if !mimeIs(mtype, "text/plain") {
		return nil, fmt.Errorf("unsupported content type %s", mtype.String())
	}

	text, err := decodeText(data, mtype)
	if err != nil {
		return nil, err
	}

	var chunks []string
	switch {
	case mimeIs(mtype, "text/html"):
		chunks, err = markupChunks(strings.NewReader(text), false)
	case mimeIs(mtype, "text/xml"):
		chunks, err = markupChunks(strings.NewReader(text), true)
	default:
		chunks = []string{text}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", mtype.String(), err)
	}

	if strings.TrimSpace(strings.Join(chunks, "")) == "" {
		return nil, fmt.Errorf("no text content found")
	}

	return chunks, nil
}

func mimeIs(m *mimetype.MIME, want string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}

// decodeText converts data to UTF-8. A byte order mark wins over the sniffed
// charset; without either, UTF-8 is assumed.
func decodeText(data []byte, mtype *mimetype.MIME) (string, error) {
	var enc encoding.Encoding = unicode.UTF8

	if _, params, err := mime.ParseMediaType(mtype.String()); err == nil && params["charset"] != "" {
		if found, err := htmlindex.Get(params["charset"]); err == nil {
			enc = found
		}
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}

	if bytes.IndexByte(decoded, 0) != -1 {
		return "", fmt.Errorf("unsupported binary content")
	}

	return string(decoded), nil
}

// markupChunks returns one chunk per line of visible text. In xmlMode every
// element boundary ends a line.
func markupChunks(r io.Reader, xmlMode bool) ([]string, error) {
	z := html.NewTokenizer(r)
	z.AllowCDATA(xmlMode)

	var (
		chunks []string
		line   strings.Builder
		skip   int
	)

	flush := func() {
		if text := strings.Join(strings.Fields(line.String()), " "); text != "" {
			chunks = append(chunks, text)
		}
		line.Reset()
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			flush()
			return chunks, nil
		case html.TextToken:
			if skip == 0 {
				line.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skippedElements[a] && !xmlMode {
				switch tt {
				case html.StartTagToken:
					skip++
				case html.EndTagToken:
					if skip > 0 {
						skip--
					}
				}
				continue
			}
			if xmlMode || blockElements[a] {
				flush()
			}
		}
	}
}
