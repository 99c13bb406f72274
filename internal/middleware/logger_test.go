package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PraneetTulluri/Stats-Tracker/internal/logging"
	"github.com/PraneetTulluri/Stats-Tracker/internal/middleware"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("info", &buf)

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/missing", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"Request rejected", "status=404", "path=/api/v1/players/missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
