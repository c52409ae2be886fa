// Package web embeds the default studio page and its assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html assets
var files embed.FS

// Index returns the embedded page template.
func Index() []byte {
	b, err := files.ReadFile("index.html")
	if err != nil {
		panic("web: embedded index.html missing: " + err.Error())
	}
	return b
}

// Assets returns the embedded assets directory as a file system rooted at
// assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(files, "assets")
	if err != nil {
		panic("web: embedded assets missing: " + err.Error())
	}
	return sub
}
