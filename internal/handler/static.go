package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// spaHandler serves the static client bundle. Requests for paths that do
// not match a file on disk fall back to index.html so client-side routes
// survive a page reload.
type spaHandler struct {
	root  string
	files http.Handler
}

// NewSPAHandler returns a handler serving files from root with an
// index.html fallback.
func NewSPAHandler(root string) http.Handler {
	return &spaHandler{
		root:  root,
		files: http.FileServer(http.Dir(root)),
	}
}

func (s *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Reject traversal before touching the filesystem.
	rel := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if strings.Contains(rel, "..") {
		http.NotFound(w, r)
		return
	}

	if rel != "" {
		if info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel))); err == nil && !info.IsDir() {
			s.files.ServeHTTP(w, r)
			return
		}
	}

	http.ServeFile(w, r, filepath.Join(s.root, "index.html"))
}
