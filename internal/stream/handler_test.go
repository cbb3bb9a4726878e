package stream

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"planetmesh/internal/pipeline"
	"planetmesh/pkg/preset"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"small.json": `{ "subdivisions": 1, "radius": 2 }`,
		"rocky.json": `{ "parent": "small", "terrain": {} }`,
		"cube.json":  `{ "topology": "cube", "gridSize": 2 }`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	pool := pipeline.NewWorkerPool(2, 8)
	t.Cleanup(pool.Shutdown)

	h := NewHandler(pool, preset.NewLoader(dir))
	h.SetLogger(log.New(io.Discard, "", 0))
	mux := http.NewServeMux()
	h.Serve(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req Request) MeshMessage {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var msg MeshMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestNamedPreset(t *testing.T) {
	conn := dial(t, newTestServer(t))
	msg := roundTrip(t, conn, Request{ID: "a", Preset: "small"})
	if msg.Type != TypeMesh || msg.ID != "a" {
		t.Fatalf("got %+v", msg)
	}
	if len(msg.Positions) != 27 || len(msg.Normals) != 27 || len(msg.UVs) != 27 {
		t.Errorf("%d positions, want 27", len(msg.Positions))
	}
	if len(msg.Colliders) != 1 || msg.Colliders[0].Kind != "sphere" || msg.Colliders[0].Radius != 2 {
		t.Errorf("colliders %+v", msg.Colliders)
	}
	triangles := 0
	for _, s := range msg.Submeshes {
		triangles += len(s) / 3
	}
	if triangles != 32 {
		t.Errorf("%d triangles, want 32", triangles)
	}
}

func TestInlineMeshWithParent(t *testing.T) {
	conn := dial(t, newTestServer(t))
	msg := roundTrip(t, conn, Request{ID: "b", Mesh: json.RawMessage(`{ "parent": "cube", "radius": 3 }`)})
	if msg.Type != TypeMesh {
		t.Fatalf("got %+v", msg)
	}
	if len(msg.Submeshes) != 3 {
		t.Errorf("%d submeshes, want 3", len(msg.Submeshes))
	}
	if len(msg.Positions) != 26 {
		t.Errorf("%d positions, want 26", len(msg.Positions))
	}
}

func TestErrorsKeepConnectionOpen(t *testing.T) {
	conn := dial(t, newTestServer(t))

	msg := roundTrip(t, conn, Request{ID: "empty"})
	if msg.Type != TypeError || msg.ID != "empty" || msg.Error == "" {
		t.Errorf("empty request: %+v", msg)
	}
	msg = roundTrip(t, conn, Request{ID: "missing", Preset: "nope"})
	if msg.Type != TypeError {
		t.Errorf("missing preset: %+v", msg)
	}
	msg = roundTrip(t, conn, Request{ID: "radius", Mesh: json.RawMessage(`{ "radius": -1 }`)})
	if msg.Type != TypeError || !strings.Contains(msg.Error, "radius") {
		t.Errorf("bad radius: %+v", msg)
	}
	msg = roundTrip(t, conn, Request{ID: "huge", Mesh: json.RawMessage(`{ "topology": "cube", "gridSize": 100000 }`)})
	if msg.Type != TypeError {
		t.Errorf("huge grid: %+v", msg)
	}

	msg = roundTrip(t, conn, Request{ID: "ok", Preset: "rocky"})
	if msg.Type != TypeMesh || msg.Name != "rocky" {
		t.Errorf("after errors: %+v", msg.Type)
	}
}

func TestRequestLimits(t *testing.T) {
	h := NewHandler(nil, preset.NewLoader(t.TempDir()))
	h.MaxSubdivisions = 2
	h.MaxGridSize = 8

	cfg, notes, err := h.config(Request{ID: "x", Mesh: json.RawMessage(`{ "subdivisions": 5 }`)})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Subdivisions != 2 {
		t.Errorf("subdivisions %d, want 2", cfg.Subdivisions)
	}
	if len(notes) != 1 || notes[0] != "subdivisions 5 capped to 2" {
		t.Errorf("notes %q, want the cap reported", notes)
	}
	if _, notes, err := h.config(Request{ID: "w", Mesh: json.RawMessage(`{ "subdivisions": 1 }`)}); err != nil || len(notes) != 0 {
		t.Errorf("in-range request: notes %q, err %v", notes, err)
	}
	if _, _, err := h.config(Request{ID: "y", Mesh: json.RawMessage(`{ "topology": "box", "size": [9, 2, 2] }`)}); err == nil {
		t.Errorf("oversized box accepted")
	}
	if _, _, err := h.config(Request{ID: "z"}); err != ErrEmptyRequest {
		t.Errorf("got %v, want ErrEmptyRequest", err)
	}
}

func TestCappedRequestCarriesWarning(t *testing.T) {
	conn := dial(t, newTestServer(t))
	msg := roundTrip(t, conn, Request{ID: "big", Mesh: json.RawMessage(`{ "subdivisions": 9 }`)})
	if msg.Type != TypeMesh {
		t.Fatalf("got %+v", msg)
	}
	if len(msg.Warnings) != 1 || msg.Warnings[0] != "subdivisions 9 capped to 6" {
		t.Errorf("warnings %q, want the cap reported", msg.Warnings)
	}
	if triangles := len(msg.Submeshes[0]) / 3; triangles != 1<<(2*6+3) {
		t.Errorf("%d triangles, want a subdivision 6 mesh", triangles)
	}
}

func TestManyRequestsOneConnection(t *testing.T) {
	conn := dial(t, newTestServer(t))
	ids := []string{"1", "2", "3", "4", "5", "6"}
	for _, id := range ids {
		if err := conn.WriteJSON(Request{ID: id, Preset: "small"}); err != nil {
			t.Fatal(err)
		}
	}
	seen := map[string]bool{}
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	for range ids {
		var msg MeshMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type != TypeMesh {
			t.Errorf("%s: %s", msg.ID, msg.Error)
		}
		seen[msg.ID] = true
	}
	if len(seen) != len(ids) {
		t.Errorf("replies for %v", seen)
	}
}

func TestPresetsListing(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/presets")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "cube,rocky,small" {
		t.Errorf("names %v", names)
	}
}
