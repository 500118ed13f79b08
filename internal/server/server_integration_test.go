package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/signmatch/internal/app"
	"github.com/ayusman/signmatch/internal/gesture"
	"github.com/ayusman/signmatch/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := app.New(app.Config{Store: s, Radius: 1, Weights: gesture.DefaultWeights(), Logger: logger})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	ts := httptest.NewServer(New(Config{Store: s, Registry: a, TopK: 5, Logger: logger}))
	t.Cleanup(ts.Close)
	return ts
}

func zigzag(n int, amp float64) string {
	t := make(gesture.Trajectory, n)
	for i := range t {
		y := 0.0
		if i%2 == 1 {
			y = amp
		}
		t[i] = gesture.P(float64(i), y)
	}
	data, _ := json.Marshal(t)
	return string(data)
}

func TestAPI_SignWorkflow(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()

	// 1. Create two signs
	ids := map[string]string{}
	for _, name := range []string{"flat", "bumpy"} {
		resp, err := client.Post(ts.URL+"/api/signs", "application/json", bytes.NewBufferString(`{"name":"`+name+`"}`))
		if err != nil {
			t.Fatalf("POST /api/signs error = %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
		var created struct {
			ID string `json:"id"`
		}
		json.NewDecoder(resp.Body).Decode(&created)
		resp.Body.Close()
		ids[name] = created.ID
	}

	// 2. Record both
	for name, amp := range map[string]float64{"flat": 0, "bumpy": 3} {
		body := fmt.Sprintf(`{"one_handed":true,"dominant":%s}`, zigzag(24, amp))
		resp, err := client.Post(ts.URL+"/api/signs/"+ids[name]+"/recording", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("POST recording error = %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST recording status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
		resp.Body.Close()
	}

	// 3. Health reports the library size
	resp, _ := client.Get(ts.URL + "/api/health")
	var health struct {
		Status string `json:"status"`
		Signs  int    `json:"signs"`
	}
	json.NewDecoder(resp.Body).Decode(&health)
	resp.Body.Close()
	if health.Signs != 2 {
		t.Errorf("health signs = %d, want 2", health.Signs)
	}

	// 4. Match a bumpy query
	query := fmt.Sprintf(`{"recording":{"one_handed":true,"dominant":%s}}`, zigzag(24, 3))
	resp, err := client.Post(ts.URL+"/api/match", "application/json", bytes.NewBufferString(query))
	if err != nil {
		t.Fatalf("POST /api/match error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/match status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var matched struct {
		Matches []gesture.Match `json:"matches"`
	}
	json.NewDecoder(resp.Body).Decode(&matched)
	resp.Body.Close()

	if len(matched.Matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matched.Matches))
	}
	if matched.Matches[0].Name != "bumpy" || matched.Matches[0].Similarity != 100 {
		t.Errorf("top match = %+v, want bumpy at 100", matched.Matches[0])
	}

	// 5. Delete the bumpy sign; it no longer matches
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/signs/"+ids["bumpy"], nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	resp, _ = client.Post(ts.URL+"/api/match", "application/json", bytes.NewBufferString(query))
	json.NewDecoder(resp.Body).Decode(&matched)
	resp.Body.Close()
	if len(matched.Matches) != 1 || matched.Matches[0].Name != "flat" {
		t.Errorf("matches after delete = %+v, want only flat", matched.Matches)
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
