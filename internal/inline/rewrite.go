package inline

import "regexp"

// Kind selects the reference syntax recognised by InlineReferences.
type Kind int

const (
	KindHTML Kind = iota
	KindCSS
	KindJS
)

type rule struct {
	re     *regexp.Regexp
	format func(uri string) string
}

var (
	srcAttr = rule{
		re:     regexp.MustCompile(`(?i)src=["']([^"']+)["']`),
		format: func(uri string) string { return `src="` + uri + `"` },
	}
	cssURL = rule{
		re:     regexp.MustCompile(`(?i)url\(["']?([^"')]+)["']?\)`),
		format: func(uri string) string { return `url("` + uri + `")` },
	}
	srcProperty = rule{
		re:     regexp.MustCompile(`(?i)\.src\s*=\s*["']([^"']+)["']`),
		format: func(uri string) string { return `.src = "` + uri + `"` },
	}
	srcIndex = rule{
		re:     regexp.MustCompile(`(?i)\["src"\]\s*=\s*["']([^"']+)["']`),
		format: func(uri string) string { return `["src"] = "` + uri + `"` },
	}
)

var rulesByKind = map[Kind][]rule{
	KindHTML: {srcAttr, cssURL},
	KindCSS:  {srcAttr, cssURL},
	KindJS:   {srcProperty, srcIndex, cssURL},
}

// InlineReferences returns text with every reference to a mapped path
// replaced by its data URI. Unmapped references are left untouched.
func InlineReferences(text string, m ImageMap, kind Kind) string {
	if len(m) == 0 {
		return text
	}
	for _, r := range rulesByKind[kind] {
		text = r.apply(text, m)
	}
	return text
}

func (r rule) apply(text string, m ImageMap) string {
	return r.re.ReplaceAllStringFunc(text, func(match string) string {
		sub := r.re.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		uri, ok := m[sub[1]]
		if !ok {
			return match
		}
		return r.format(uri)
	})
}
