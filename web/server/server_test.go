package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spoax/raytracer/pkg/scene"
)

const testSceneJSON = `{
  "name": "Mirror Pair",
  "group": "Tests",
  "camera": {"lookFrom": [0, 0, 2], "lookAt": [0, 0, -1], "vfov": 40},
  "sampling": {"width": 32, "height": 16, "samplesPerPixel": 2},
  "materials": {
    "mirror": {"type": "metal", "albedo": [0.9, 0.9, 0.9], "fuzz": 0}
  },
  "spheres": [
    {"center": [0, 0, -1], "radius": 0.5, "material": "mirror"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mirror-pair.json"), []byte(testSceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return NewServer(0, dir)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	ids := make(map[string]bool)
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			ids[info.ID] = true
		}
	}
	for _, want := range append(scene.BuiltInSceneIDs(), "file:mirror-pair") {
		if !ids[want] {
			t.Errorf("Expected scene %q in listing", want)
		}
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := newTestServer(t)

	t.Run("file scene", func(t *testing.T) {
		rec := get(t, s, "/api/scene-config?scene=file:mirror-pair")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
		}

		var body struct {
			Defaults map[string]float64 `json:"defaults"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if body.Defaults["width"] != 32 || body.Defaults["samplesPerPixel"] != 2 || body.Defaults["primitiveCount"] != 1 {
			t.Errorf("Unexpected defaults %v", body.Defaults)
		}
	})

	t.Run("unknown scene", func(t *testing.T) {
		rec := get(t, s, "/api/scene-config?scene=nope")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestParseRenderRequest(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		query       string
		expectError bool
		check       func(*testing.T, *RenderRequest)
	}{
		{
			name:  "defaults",
			query: "",
			check: func(t *testing.T, req *RenderRequest) {
				if req.Scene != "default" || req.MaxPasses != 7 || !req.TileUpdates || req.AdaptiveThreshold != 0 {
					t.Errorf("Unexpected defaults %+v", req)
				}
			},
		},
		{
			name:  "overrides",
			query: "scene=random&width=64&height=32&maxSamples=9&maxPasses=3&maxDepth=12&seed=5&tileUpdates=false&adaptiveThreshold=0.02",
			check: func(t *testing.T, req *RenderRequest) {
				if req.Scene != "random" || req.Width != 64 || req.Height != 32 || req.MaxSamples != 9 ||
					req.MaxPasses != 3 || req.MaxDepth != 12 || req.Seed != 5 || req.TileUpdates || req.AdaptiveThreshold != 0.02 {
					t.Errorf("Overrides not parsed: %+v", req)
				}
			},
		},
		{name: "width too small", query: "width=4", expectError: true},
		{name: "depth above cap", query: "maxDepth=51", expectError: true},
		{name: "bad seed", query: "seed=abc", expectError: true},
		{name: "bad bool", query: "tileUpdates=maybe", expectError: true},
		{name: "threshold out of range", query: "adaptiveThreshold=0.9", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render?"+tt.query, nil))
			if tt.expectError {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, req)
		})
	}
}

func TestHandleRender_StreamsPasses(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=file:mirror-pair&width=16&height=16&maxSamples=2&maxPasses=2&tileUpdates=true&annotate=true")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected SSE content type, got %q", ct)
	}

	body := rec.Body.String()
	if got := strings.Count(body, "event: passComplete\n"); got != 2 {
		t.Errorf("Expected 2 pass events, got %d\n%s", got, body)
	}
	// 16x16 with 32px tiles is a single tile per pass
	if got := strings.Count(body, "event: tile\n"); got < 1 || got > 2 {
		t.Errorf("Expected 1-2 tile events, got %d", got)
	}
	if !strings.HasSuffix(body, "event: complete\ndata: Rendering completed\n\n") {
		t.Errorf("Expected stream to end with completion event, got tail %q", body[max(0, len(body)-80):])
	}
	if strings.Contains(body, "event: error") {
		t.Errorf("Unexpected error event in %s", body)
	}
}

func TestHandleRender_PassPayload(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=default&width=16&height=16&maxSamples=1&maxPasses=1&tileUpdates=false")

	var update PassUpdate
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if strings.HasPrefix(line, "data: {\"event\":\"passComplete\"") {
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &update); err != nil {
				t.Fatalf("Invalid pass JSON: %v", err)
			}
		}
	}

	if update.PassNumber != 1 || !update.IsLast {
		t.Fatalf("Expected final pass 1, got %+v", update)
	}
	if update.TotalPixels != 256 || update.TotalSamples != 256 {
		t.Errorf("Expected 256 pixels and samples, got %d and %d", update.TotalPixels, update.TotalSamples)
	}
	if update.ImageData == "" || update.PreviewData == "" {
		t.Error("Expected image and preview data")
	}
	if update.PrimitiveCount != 5 {
		t.Errorf("Expected 5 spheres in the default scene, got %d", update.PrimitiveCount)
	}
}

func TestHandleRender_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"invalid width", "width=5"},
		{"unknown scene", "scene=nope"},
		{"path traversal", "scene=file:../secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := get(t, s, "/api/render?"+tt.query).Body.String()
			if !strings.Contains(body, "event: error") {
				t.Errorf("Expected error event, got %q", body)
			}
			if strings.Contains(body, "event: passComplete") {
				t.Error("No pass should be rendered")
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)

	t.Run("center hits mirror sphere", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=file:mirror-pair&width=16&height=16&x=8&y=8")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
		}

		var response InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if !response.Hit || response.MaterialType != "metal" || response.GeometryType != "sphere" {
			t.Errorf("Expected metal sphere hit, got %+v", response)
		}
		if !response.FrontFace || response.Distance <= 0 {
			t.Errorf("Expected front face hit at positive distance, got %+v", response)
		}
	})

	t.Run("corner misses", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=file:mirror-pair&width=16&height=16&x=0&y=0")
		var response InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if response.Hit || response.PathState != "miss" {
			t.Errorf("Expected miss, got %+v", response)
		}
	})

	errorTests := []struct {
		name  string
		query string
	}{
		{"missing x", "y=1"},
		{"bad y", "x=1&y=abc"},
		{"out of bounds", "width=16&height=16&x=16&y=0"},
		{"unknown scene", "scene=nope&x=0&y=0"},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/inspect?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body)
			}
		})
	}
}
