package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/signmatch/internal/app"
	"github.com/ayusman/signmatch/internal/gesture"
	"github.com/ayusman/signmatch/internal/ingest"
	"github.com/ayusman/signmatch/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "signmatch-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestApp(t *testing.T, s *store.Store) *app.App {
	t.Helper()
	a, err := app.New(app.Config{
		Store:   s,
		Radius:  1,
		Weights: gesture.DefaultWeights(),
		Logger:  discard,
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return a
}

// testConverter decodes any image to a constant patch so tests need no
// image codecs.
func testConverter() *ingest.Converter {
	return ingest.NewConverter(func(data []byte) (gesture.Patch, error) {
		return make(gesture.Patch, gesture.PatchLen), nil
	})
}

// trajectoryJSON encodes n samples of a curve as a JSON array of points.
func trajectoryJSON(n int, f func(float64) (float64, float64)) string {
	t := make(gesture.Trajectory, n)
	for i := range t {
		x, y := f(float64(i) / float64(n))
		t[i] = gesture.P(x, y)
	}
	data, _ := json.Marshal(t)
	return string(data)
}

func circle(s float64) (float64, float64) {
	return math.Cos(2 * math.Pi * s), math.Sin(2 * math.Pi * s)
}

func diagonal(s float64) (float64, float64) {
	return s, s
}

func recordingBody(oneHanded bool, dominant string) string {
	return fmt.Sprintf(`{"one_handed":%t,"dominant":%s}`, oneHanded, dominant)
}

func createSign(t *testing.T, s *store.Store, id, name string) {
	t.Helper()
	if err := s.Signs().Create(&store.Sign{ID: id, Name: name, OneHanded: true}); err != nil {
		t.Fatalf("failed to create sign: %v", err)
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
