// Package cards renders gist files as read-only, syntax-highlighted cards.
package cards

import (
	"bytes"
	"html"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/gistlens/internal/models"
)

// DefaultLanguage labels files no lexer recognises.
const DefaultLanguage = "Text"

const styleName = "github"

// Card is one file of a gist as shown by the viewer.
type Card struct {
	Filename  string `json:"filename"`
	Language  string `json:"language"`
	Size      int    `json:"size"`
	Truncated bool   `json:"truncated"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
	// FrontMatter is set for Markdown files opening with a YAML block.
	FrontMatter []Field `json:"front_matter,omitempty"`
}

// Renderer turns file content into highlighted HTML.
type Renderer struct {
	md        goldmark.Markdown
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewRenderer creates a renderer using the github style.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(styleName),
				),
			),
		),
		formatter: chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)),
		style:     styles.Get(styleName),
	}
}

// Build renders one card per file, in order, from the API-embedded content.
// Truncated files show the embedded part and keep Truncated set.
func (r *Renderer) Build(files []models.File) []Card {
	out := make([]Card, 0, len(files))
	for _, f := range files {
		text := f.Text()
		c := Card{
			Filename:  f.Filename,
			Language:  Language(f),
			Size:      f.Size,
			Truncated: f.Truncated,
			Content:   text,
			HTML:      r.Render(f.Filename, text),
		}
		if isMarkdown(f.Filename) {
			c.FrontMatter, _ = SplitFrontMatter(text)
		}
		out = append(out, c)
	}
	return out
}

// Render highlights text according to filename. Markdown is rendered as
// GFM with raw HTML omitted and front matter shown as a table.
func (r *Renderer) Render(filename, text string) string {
	if isMarkdown(filename) {
		fields, body := SplitFrontMatter(text)
		var buf bytes.Buffer
		if len(fields) > 0 {
			buf.WriteString(frontMatterTable(fields))
		}
		if err := r.md.Convert([]byte(body), &buf); err == nil {
			return buf.String()
		}
		return plain(text)
	}

	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return plain(text)
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return plain(text)
	}
	return buf.String()
}

// Language returns the API-reported language, else a guess from the
// filename.
func Language(f models.File) string {
	if f.Language != "" {
		return f.Language
	}
	if l := lexers.Match(f.Filename); l != nil {
		return l.Config().Name
	}
	return DefaultLanguage
}

func isMarkdown(filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func plain(text string) string {
	return "<pre><code>" + html.EscapeString(text) + "</code></pre>"
}
