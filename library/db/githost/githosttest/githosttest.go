// Package githosttest provides an in-memory contents API server for tests.
//
// The fake speaks just enough of the GitHub-style contents protocol for the
// githost client: base64 transport encoding, blob version tokens computed
// like git blob hashes, and the optimistic-concurrency check on PUT and
// DELETE.
package githosttest

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type file struct {
	content []byte
	sha     string
}

// Host in-memory content store.
type Host struct {
	mu      sync.Mutex
	token   string
	files   map[string]*file
	puts    int
	commits int
}

// New create a fake host that accepts the given bearer token.
func New(token string) *Host {
	return &Host{
		token: token,
		files: map[string]*file{},
	}
}

// Server start an httptest server backed by this host.
func (h *Host) Server() *httptest.Server {
	return httptest.NewServer(h)
}

// Seed put a file in place without going through the API.
func (h *Host) Seed(path string, content []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[path] = &file{content: content, sha: blobSHA(content)}
}

// Content current content of a file.
func (h *Host) Content(path string) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.files[path]
	if !ok {
		return nil, false
	}

	return append([]byte(nil), f.content...), true
}

// Version current version token of a file, empty when absent.
func (h *Host) Version(path string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.files[path]; ok {
		return f.sha
	}

	return ""
}

// Puts number of PUT requests observed, for single-write assertions.
func (h *Host) Puts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.puts
}

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	if i := strings.Index(path, "/contents/"); i >= 0 {
		path = path[i+len("/contents/"):]
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, path)
	case http.MethodPut:
		h.handlePut(w, r, path)
	case http.MethodDelete:
		h.handleDelete(w, r, path)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

func (h *Host) handleGet(w http.ResponseWriter, path string) {
	f, ok := h.files[path]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"content":  base64.StdEncoding.EncodeToString(f.content),
		"encoding": "base64",
		"sha":      f.sha,
	})
}

func (h *Host) handlePut(w http.ResponseWriter, r *http.Request, path string) {
	h.puts++

	req := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid base64"})
		return
	}

	existing, exists := h.files[path]
	switch {
	case exists && req.SHA != existing.sha:
		writeJSON(w, http.StatusConflict,
			map[string]string{"message": fmt.Sprintf("%s does not match %s", req.SHA, existing.sha)})
		return
	case !exists && req.SHA != "":
		writeJSON(w, http.StatusConflict,
			map[string]string{"message": "sha supplied for a file that does not exist"})
		return
	}

	h.files[path] = &file{content: content, sha: blobSHA(content)}
	h.commits++

	status := http.StatusOK
	if !exists {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"content": map[string]string{"sha": h.files[path].sha},
		"commit":  map[string]string{"sha": fmt.Sprintf("commit-%d", h.commits)},
	})
}

func (h *Host) handleDelete(w http.ResponseWriter, r *http.Request, path string) {
	req := struct {
		Message string `json:"message"`
		SHA     string `json:"sha"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	existing, exists := h.files[path]
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	if req.SHA != existing.sha {
		writeJSON(w, http.StatusConflict,
			map[string]string{"message": "sha does not match"})
		return
	}

	delete(h.files, path)
	h.commits++
	writeJSON(w, http.StatusOK, map[string]any{
		"commit": map[string]string{"sha": fmt.Sprintf("commit-%d", h.commits)},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// blobSHA version tokens mimic git blob hashes
func blobSHA(content []byte) string {
	sum := sha1.Sum(append([]byte(fmt.Sprintf("blob %d\x00", len(content))), content...))
	return hex.EncodeToString(sum[:])
}
