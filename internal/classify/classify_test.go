package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/gistlens/internal/models"
)

func file(name string) models.File {
	return models.File{Filename: name, Content: models.StringPtr(name)}
}

func names(files []models.File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Filename)
	}
	return out
}

func TestClassify_StablePartition(t *testing.T) {
	in := []models.File{
		file("b.js"),
		file("page.HTM"),
		file("notes.txt"),
		file("index.html"),
		file("theme.CSS"),
		file("a.js"),
		file("images_logo.png.base64.txt"),
		file("reset.css"),
		file("README.md"),
	}
	set := Classify(in)

	if diff := cmp.Diff([]string{"page.HTM", "index.html"}, names(set.HTML)); diff != "" {
		t.Errorf("html (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"theme.CSS", "reset.css"}, names(set.CSS)); diff != "" {
		t.Errorf("css (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b.js", "a.js"}, names(set.JS)); diff != "" {
		t.Errorf("js (-want +got):\n%s", diff)
	}
	if _, ok := set.Images["images/logo.png"]; !ok || len(set.Images) != 1 {
		t.Errorf("images = %v", set.Images)
	}

	// Every classified file appears once and each group is a subsequence of the input.
	total := len(set.HTML) + len(set.CSS) + len(set.JS) + len(set.Images)
	if total != 7 {
		t.Errorf("classified %d files, want 7", total)
	}
	for _, group := range [][]models.File{set.HTML, set.CSS, set.JS} {
		pos := -1
		for _, f := range group {
			idx := indexOf(in, f.Filename)
			if idx <= pos {
				t.Errorf("group order broken at %s", f.Filename)
			}
			pos = idx
		}
	}
}

func indexOf(files []models.File, name string) int {
	for i, f := range files {
		if f.Filename == name {
			return i
		}
	}
	return -1
}

func TestClassify_Empty(t *testing.T) {
	set := Classify(nil)
	if len(set.HTML)+len(set.CSS)+len(set.JS)+len(set.Images) != 0 {
		t.Errorf("expected empty set, got %+v", set)
	}
	if _, ok := set.PrimaryHTML(); ok {
		t.Error("PrimaryHTML on empty set should be false")
	}
}

func TestRoleOf(t *testing.T) {
	cases := map[string]Role{
		"a.html":               RoleHTML,
		"A.HTM":                RoleHTML,
		"x.css":                RoleCSS,
		"x.js":                 RoleJS,
		"x.json":               RoleNone,
		"x.base64.txt":         RoleImage,
		"X.BASE64.TXT":         RoleImage,
		"notes.txt":            RoleNone,
		"script.js.map":        RoleNone,
		"style.css.base64.txt": RoleImage,
	}
	for name, want := range cases {
		if got := RoleOf(name); got != want {
			t.Errorf("RoleOf(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestImagePath(t *testing.T) {
	cases := map[string]string{
		"images_logo.png.base64.txt":       "images/logo.png",
		"logo.png.base64.txt":              "logo.png",
		"assets_icons_x.svg.BASE64.TXT":    "assets/icons/x.svg",
		"images_blue_block.png.base64.txt": "images/blue/block.png",
	}
	for in, want := range cases {
		if got := ImagePath(in); got != want {
			t.Errorf("ImagePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrimaryHTML(t *testing.T) {
	set := Classify([]models.File{file("about.html"), file("Index.HTML"), file("x.htm")})
	f, ok := set.PrimaryHTML()
	if !ok || f.Filename != "Index.HTML" {
		t.Errorf("PrimaryHTML = %q", f.Filename)
	}
	set = Classify([]models.File{file("about.html"), file("x.htm")})
	if f, _ := set.PrimaryHTML(); f.Filename != "about.html" {
		t.Errorf("fallback PrimaryHTML = %q", f.Filename)
	}
}

func TestFirstOfRole(t *testing.T) {
	files := []models.File{file("readme.md"), file("b.css"), file("c.css")}
	if f, _ := FirstOfRole(files, RoleCSS); f.Filename != "b.css" {
		t.Errorf("FirstOfRole css = %q", f.Filename)
	}
	if f, _ := FirstOfRole(files, RoleJS); f.Filename != "readme.md" {
		t.Errorf("FirstOfRole fallback = %q", f.Filename)
	}
	if _, ok := FirstOfRole(nil, RoleJS); ok {
		t.Error("FirstOfRole(nil) should be false")
	}
}

func TestSidecarName_RoundTrip(t *testing.T) {
	for _, p := range []string{"images/logo.png", "logo.png", "a/b/c.svg"} {
		name, ok := SidecarName(p)
		if !ok {
			t.Fatalf("SidecarName(%q) rejected", p)
		}
		if back := ImagePath(name); back != p {
			t.Errorf("round trip %q -> %q -> %q", p, name, back)
		}
	}
	for _, p := range []string{"", "images/blue_block.png"} {
		if _, ok := SidecarName(p); ok {
			t.Errorf("SidecarName(%q) accepted", p)
		}
	}
}
