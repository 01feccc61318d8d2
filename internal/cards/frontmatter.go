package cards

import (
	"bytes"
	"html"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is one top-level front matter entry, in document order.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SplitFrontMatter separates a leading YAML block (between --- lines) from
// the Markdown body. Without a closed block, or when the YAML does not parse
// to a mapping, the whole text is body.
func SplitFrontMatter(text string) ([]Field, string) {
	const delim = "---"
	trimmed := strings.TrimLeft(text, "\n\r")
	if !strings.HasPrefix(trimmed, delim+"\n") && !strings.HasPrefix(trimmed, delim+"\r\n") {
		return nil, text
	}

	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, text
	}
	block := rest[:idx]
	body := strings.TrimLeft(rest[idx+1+len(delim):], "\n\r")

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, text
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, text
	}

	m := doc.Content[0]
	fields := make([]Field, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		fields = append(fields, Field{Key: m.Content[i].Value, Value: nodeText(m.Content[i+1])})
	}
	return fields, body
}

func nodeText(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return ""
	}
	_ = enc.Close()
	return strings.TrimRight(buf.String(), "\n")
}

// frontMatterTable renders fields as a one-row table, keys as headers.
func frontMatterTable(fields []Field) string {
	var b strings.Builder
	b.WriteString("<table>\n<thead>\n<tr>")
	for _, f := range fields {
		b.WriteString("<th>" + html.EscapeString(f.Key) + "</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n<tr>")
	for _, f := range fields {
		b.WriteString("<td>" + html.EscapeString(f.Value) + "</td>")
	}
	b.WriteString("</tr>\n</tbody>\n</table>\n")
	return b.String()
}
