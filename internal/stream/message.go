// Package stream serves generated meshes over a websocket.
package stream

import (
	"encoding/json"

	"planetmesh/pkg/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Request asks for one mesh. Either Preset names a file from the preset
// directory or Mesh carries an inline preset body (which may itself name a
// parent).
type Request struct {
	ID     string          `json:"id"`
	Preset string          `json:"preset,omitempty"`
	Mesh   json.RawMessage `json:"mesh,omitempty"`
}

// Message types sent to the client.
const (
	TypeMesh  = "mesh"
	TypeError = "error"
)

// ColliderMessage is the JSON form of mesh.Collider.
type ColliderMessage struct {
	Kind   string     `json:"kind"`
	Center mgl32.Vec3 `json:"center"`
	Size   mgl32.Vec3 `json:"size"`
	Radius float32    `json:"radius,omitempty"`
	Height float32    `json:"height,omitempty"`
	Axis   int        `json:"axis"`
}

// MeshMessage is the reply to a Request.
type MeshMessage struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`

	Name      string            `json:"name,omitempty"`
	Positions []mgl32.Vec3      `json:"positions,omitempty"`
	Normals   []mgl32.Vec3      `json:"normals,omitempty"`
	UVs       []mgl32.Vec2      `json:"uvs,omitempty"`
	Submeshes [][]uint32        `json:"submeshes,omitempty"`
	Colliders []ColliderMessage `json:"colliders,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`

	BuildMillis float64 `json:"buildMs"`
}

func meshMessage(id string, d *mesh.Data, ms float64) MeshMessage {
	msg := MeshMessage{
		Type:        TypeMesh,
		ID:          id,
		Name:        d.Name,
		Positions:   d.Positions,
		Normals:     d.Normals,
		UVs:         d.UVs,
		Submeshes:   d.Submeshes,
		Warnings:    d.Warnings,
		BuildMillis: ms,
	}
	for _, c := range d.Colliders {
		msg.Colliders = append(msg.Colliders, ColliderMessage{
			Kind:   c.Kind.String(),
			Center: c.Center,
			Size:   c.Size,
			Radius: c.Radius,
			Height: c.Height,
			Axis:   c.Axis,
		})
	}
	return msg
}

func errorMessage(id string, err error) MeshMessage {
	return MeshMessage{Type: TypeError, ID: id, Error: err.Error()}
}
