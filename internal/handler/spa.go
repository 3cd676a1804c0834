package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the built frontend. Requests matching a real file
// under the static directory get that file; everything else falls back
// to index.html so client-side routing works on hard refreshes.
type SPAHandler struct {
	staticDir  string
	fileServer http.Handler
}

func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{
		staticDir:  staticDir,
		fileServer: http.FileServer(http.Dir(staticDir)),
	}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Reject path traversal before touching the filesystem.
	rel := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")

	full := filepath.Join(h.staticDir, rel)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
		return
	}

	h.fileServer.ServeHTTP(w, r)
}
