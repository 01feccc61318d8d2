package preview

import (
	"strings"
	"testing"
)

func TestCompose_FragmentMode(t *testing.T) {
	got := Compose("<h1>Hi</h1>",
		[]Fragment{{Name: "style.css", Content: "h1{color:red}"}},
		[]Fragment{{Name: "app.js", Content: "console.log(1)"}},
	)
	want := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Preview</title>
    <!-- style.css -->
    <style>
h1{color:red}
    </style>
</head>
<body>
    <h1>Hi</h1>
    <!-- app.js -->
    <script>
console.log(1)
    </script>
</body>
</html>`
	if got != want {
		t.Errorf("fragment mode mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompose_FragmentModeNoAssets(t *testing.T) {
	got := Compose("<p>x</p>", nil, nil)
	if !strings.Contains(got, "<title>Preview</title>\n\n</head>") {
		t.Errorf("unexpected head:\n%s", got)
	}
	if !strings.Contains(got, "<body>\n    <p>x</p>\n\n</body>") {
		t.Errorf("unexpected body:\n%s", got)
	}
}

func TestCompose_DocumentMode(t *testing.T) {
	html := "<HTML><head><title>t</title></head><body><p>x</p></body></html>"
	got := Compose(html,
		[]Fragment{{Name: "a.css", Content: "a{}"}, {Name: "b.css", Content: "b{}"}},
		[]Fragment{{Name: "app.js", Content: "run()"}},
	)
	want := "<HTML><head><title>t</title>" +
		"<!-- a.css -->\n<style>\na{}\n</style>\n<!-- b.css -->\n<style>\nb{}\n</style>\n</head>" +
		"<body><p>x</p>" +
		"<!-- app.js -->\n<script>\nrun()\n</script>\n</body></html>"
	if got != want {
		t.Errorf("document mode mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestCompose_DocumentModeWithoutHeadOrBody(t *testing.T) {
	got := Compose("<html>content</html>",
		[]Fragment{{Name: "s.css", Content: "x"}},
		[]Fragment{{Name: "s.js", Content: "y"}},
	)
	want := "<!-- s.css -->\n<style>\nx\n</style>\n<html>content</html>\n<!-- s.js -->\n<script>\ny\n</script>"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestCompose_DocumentModeCaseInsensitiveTags(t *testing.T) {
	got := Compose("<html><HEAD></HEAD><BODY></BODY></html>",
		[]Fragment{{Name: "s.css", Content: "x"}},
		[]Fragment{{Name: "s.js", Content: "y"}},
	)
	want := "<html><HEAD><!-- s.css -->\n<style>\nx\n</style>\n</HEAD><BODY><!-- s.js -->\n<script>\ny\n</script>\n</BODY></html>"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestCompose_DocumentModeUntouchedWithoutAssets(t *testing.T) {
	html := "<html><body>ok</body></html>"
	if got := Compose(html, nil, nil); got != html {
		t.Errorf("got %q", got)
	}
}

func TestCompose_Pure(t *testing.T) {
	css := []Fragment{{Name: "a.css", Content: "a"}}
	js := []Fragment{{Name: "a.js", Content: "b"}}
	first := Compose("<div>ü</div>", css, js)
	for i := 0; i < 3; i++ {
		if again := Compose("<div>ü</div>", css, js); again != first {
			t.Fatal("Compose is not deterministic")
		}
	}
}

func TestCompose_BlocksNeverMerged(t *testing.T) {
	css := []Fragment{{Name: "one.css", Content: "1"}, {Name: "two.css", Content: "2"}, {Name: "three.css", Content: "3"}}
	got := Compose("<p/>", css, nil)
	if n := strings.Count(got, "<style>"); n != 3 {
		t.Errorf("style blocks = %d, want 3", n)
	}
	for _, f := range css {
		if !strings.Contains(got, "<!-- "+f.Name+" -->") {
			t.Errorf("missing label for %s", f.Name)
		}
	}
}

func TestIndexFold(t *testing.T) {
	if i := indexFold("ÄÖ</HEAD>", "</head>"); i != len("ÄÖ") {
		t.Errorf("indexFold = %d", i)
	}
	if i := indexFold("\xff</Body>", "</body>"); i != 1 {
		t.Errorf("indexFold on invalid utf-8 = %d", i)
	}
}
