package models

import "testing"

func TestFile_NeedsRawFetch(t *testing.T) {
	cases := []struct {
		name string
		file File
		want bool
	}{
		{"inline", File{Content: StringPtr("x"), Size: 1}, false},
		{"truncated", File{Content: StringPtr("x"), Truncated: true}, true},
		{"missing content", File{Size: 10}, true},
		{"empty content", File{Content: StringPtr("")}, true},
		{"oversized", File{Content: StringPtr("x"), Size: InlineSizeLimit + 1}, true},
		{"at limit", File{Content: StringPtr("x"), Size: InlineSizeLimit}, false},
	}
	for _, c := range cases {
		if got := c.file.NeedsRawFetch(); got != c.want {
			t.Errorf("%s: NeedsRawFetch = %v, want %v", c.name, got, c.want)
		}
	}
}
