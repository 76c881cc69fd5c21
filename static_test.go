package via

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(v *V, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestStaticFS(t *testing.T) {
	assets := fstest.MapFS{
		"app.css":        {Data: []byte(".counter{}")},
		"icons/plus.svg": {Data: []byte("<svg/>")},
	}
	cases := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/assets/app.css", http.StatusOK, ".counter{}"},
		{"/assets/icons/plus.svg", http.StatusOK, "<svg/>"},
		{"/assets/", http.StatusNotFound, ""},
		{"/assets/icons/", http.StatusNotFound, ""},
		{"/assets/missing.css", http.StatusNotFound, ""},
	}

	for _, prefix := range []string{"/assets/", "/assets"} {
		v := newTestApp()
		v.StaticFS(prefix, assets)
		for _, tc := range cases {
			t.Run(prefix+" "+tc.path, func(t *testing.T) {
				w := get(v, tc.path)
				assert.Equal(t, tc.wantCode, w.Code)
				if tc.wantBody != "" {
					assert.Equal(t, tc.wantBody, w.Body.String())
				}
			})
		}
	}
}

func TestStatic_ServesDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o644))

	v := newTestApp()
	v.Static("/public", dir)

	w := get(v, "/public/app.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	assert.Equal(t, http.StatusNotFound, get(v, "/public/").Code)
}
