package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSPAHandler(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"index.html": "<html>storefront</html>",
		"app.js":     "console.log('app');",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	h := NewSPAHandler(root)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"index", "GET", "/", http.StatusOK, "<html>storefront</html>"},
		{"asset", "GET", "/app.js", http.StatusOK, "console.log('app');"},
		{"client route falls back to index", "GET", "/checkout", http.StatusOK, "<html>storefront</html>"},
		{"nested client route", "GET", "/products/prod_1", http.StatusOK, "<html>storefront</html>"},
		{"post rejected", "POST", "/", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("Status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("Body = %q, want to contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}
