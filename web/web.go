// Package web embeds the browser frontend: a media player, the caption
// strip, and the mascot hand.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// FS returns the frontend files rooted at the static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
