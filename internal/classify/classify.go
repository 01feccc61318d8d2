// Package classify partitions gist files into the roles used by the live
// preview: markup, stylesheets, scripts and base64 image sidecars.
package classify

import (
	"strings"

	"github.com/starford/gistlens/internal/models"
)

// ImageSuffix marks a text file holding a base64-encoded image.
const ImageSuffix = ".base64.txt"

// Role is the preview role of a file.
type Role int

const (
	RoleNone Role = iota
	RoleHTML
	RoleCSS
	RoleJS
	RoleImage
)

// Set is the classified view of a gist. Each group keeps the original file
// order; Images is keyed by logical asset path.
type Set struct {
	HTML   []models.File
	CSS    []models.File
	JS     []models.File
	Images map[string]models.File
}

// RoleOf classifies a single filename by suffix, case-insensitively.
func RoleOf(filename string) Role {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ImageSuffix):
		return RoleImage
	case strings.HasSuffix(name, ".html"), strings.HasSuffix(name, ".htm"):
		return RoleHTML
	case strings.HasSuffix(name, ".css"):
		return RoleCSS
	case strings.HasSuffix(name, ".js"):
		return RoleJS
	}
	return RoleNone
}

// Classify performs a stable single-pass partition of files. Files matching
// no role are left out.
func Classify(files []models.File) Set {
	set := Set{Images: make(map[string]models.File)}
	for _, f := range files {
		switch RoleOf(f.Filename) {
		case RoleHTML:
			set.HTML = append(set.HTML, f)
		case RoleCSS:
			set.CSS = append(set.CSS, f)
		case RoleJS:
			set.JS = append(set.JS, f)
		case RoleImage:
			set.Images[ImagePath(f.Filename)] = f
		}
	}
	return set
}

// ImagePath derives the logical asset path of an image sidecar:
// "images_logo.png.base64.txt" becomes "images/logo.png".
func ImagePath(filename string) string {
	base := filename
	if strings.HasSuffix(strings.ToLower(base), ImageSuffix) {
		base = base[:len(base)-len(ImageSuffix)]
	}
	return strings.ReplaceAll(base, "_", "/")
}

// PrimaryHTML returns index.html when present, else the first markup file.
func (s Set) PrimaryHTML() (models.File, bool) {
	for _, f := range s.HTML {
		if strings.EqualFold(f.Filename, "index.html") {
			return f, true
		}
	}
	if len(s.HTML) == 0 {
		return models.File{}, false
	}
	return s.HTML[0], true
}

// FirstOfRole returns the first file with role r, falling back to the first
// file of the collection when none matches.
func FirstOfRole(files []models.File, r Role) (models.File, bool) {
	for _, f := range files {
		if RoleOf(f.Filename) == r {
			return f, true
		}
	}
	if len(files) == 0 {
		return models.File{}, false
	}
	return files[0], true
}

// SidecarName is the inverse of ImagePath: "images/logo.png" becomes
// "images_logo.png.base64.txt". ok is false when the path contains an
// underscore, which ImagePath would turn into a separator.
func SidecarName(logicalPath string) (name string, ok bool) {
	logicalPath = strings.TrimPrefix(logicalPath, "/")
	if logicalPath == "" || strings.Contains(logicalPath, "_") {
		return "", false
	}
	return strings.ReplaceAll(logicalPath, "/", "_") + ImageSuffix, true
}
