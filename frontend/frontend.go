// Package frontend holds the viewer and WebXR feed pages served at "/".
package frontend

import (
	"embed"
	"io/fs"
)

//go:embed *.html *.js *.css
var files embed.FS

// FS returns the page assets. Go sources are not included.
func FS() fs.FS {
	return files
}
