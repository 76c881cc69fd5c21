package via

import (
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// Static serves the files under dir at urlPrefix. Directory listings are
// answered with 404.
func (v *V) Static(urlPrefix, dir string) {
	v.StaticFS(urlPrefix, os.DirFS(dir))
}

// StaticFS serves fsys at urlPrefix. Directory listings are answered with 404.
//
// Example:
//
//	//go:embed assets
//	var assets embed.FS
//
//	sub, _ := fs.Sub(assets, "assets")
//	v.StaticFS("/assets/", sub)
func (v *V) StaticFS(urlPrefix string, fsys fs.FS) {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	fileServer := http.StripPrefix(urlPrefix, http.FileServerFS(fsys))
	v.mux.Handle("GET "+urlPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}))
}
