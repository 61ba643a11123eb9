package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// StaticHandler serves the built frontend, falling back to index.html so
// client side routes resolve.
type StaticHandler struct {
	root string
}

// NewStaticHandler creates a static file handler rooted at root.
func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

// Serve handles GET / and GET /*
func (h *StaticHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rel := path.Clean("/" + chi.URLParam(r, "*"))
	if rel == "/" {
		rel = "/index.html"
	}

	name := filepath.Join(h.root, filepath.FromSlash(rel))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}

	index := filepath.Join(h.root, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, index)
}
