// Package preview composes markup, stylesheets and scripts into a single
// document and owns the live handle that serves it.
package preview

import (
	"strings"
)

// Fragment is one stylesheet or script injected into a preview.
type Fragment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

const shellHead = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Preview</title>
`

// Compose builds the preview document. Markup without an <html> element is
// wrapped in a generated shell; a full document gets its blocks injected
// before </head> and </body>. Each fragment keeps its own labelled block.
func Compose(html string, css, js []Fragment) string {
	if !containsFold(html, "<html") {
		return composeFragment(html, css, js)
	}
	return composeDocument(html, css, js)
}

func composeFragment(html string, css, js []Fragment) string {
	var b strings.Builder
	b.WriteString(shellHead)
	b.WriteString(blocks(css, "    ", "style"))
	b.WriteString("\n</head>\n<body>\n    ")
	b.WriteString(html)
	b.WriteString("\n")
	b.WriteString(blocks(js, "    ", "script"))
	b.WriteString("\n</body>\n</html>")
	return b.String()
}

func composeDocument(html string, css, js []Fragment) string {
	out := html
	if len(css) > 0 {
		tags := blocks(css, "", "style")
		if i := indexFold(out, "</head>"); i >= 0 {
			out = out[:i] + tags + "\n" + out[i:]
		} else {
			out = tags + "\n" + out
		}
	}
	if len(js) > 0 {
		tags := blocks(js, "", "script")
		if i := indexFold(out, "</body>"); i >= 0 {
			out = out[:i] + tags + "\n" + out[i:]
		} else {
			out = out + "\n" + tags
		}
	}
	return out
}

func blocks(frags []Fragment, indent, tag string) string {
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		parts = append(parts,
			indent+"<!-- "+f.Name+" -->\n"+
				indent+"<"+tag+">\n"+
				f.Content+"\n"+
				indent+"</"+tag+">")
	}
	return strings.Join(parts, "\n")
}

func containsFold(s, sub string) bool { return indexFold(s, sub) >= 0 }

// indexFold finds the first ASCII case-insensitive occurrence of sub. The
// returned offset is valid in s since only A-Z are folded.
func indexFold(s, sub string) int {
	return strings.Index(asciiLower(s), asciiLower(sub))
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
