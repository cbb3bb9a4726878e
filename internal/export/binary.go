package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"planetmesh/pkg/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

var byteorder = binary.LittleEndian

var (
	ErrBadMagic   = errors.New("not a planet mesh file")
	ErrBadVersion = errors.New("unsupported planet mesh version")
)

var magic = [4]byte{'P', 'M', 'S', 'H'}

const version uint32 = 1

// attribute presence bits
const (
	hasNormals uint8 = 1 << iota
	hasUVs
	hasTangents
	hasColors
)

// maxCount bounds every length prefix so a corrupt header cannot trigger a
// huge allocation.
const maxCount = 1 << 28

// WriteBinary encodes d in the little-endian planet mesh format.
func WriteBinary(w io.Writer, d *mesh.Data) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("writing mesh: %w", err)
	}
	if err := binary.Write(w, byteorder, magic); err != nil {
		return err
	}
	if err := binary.Write(w, byteorder, version); err != nil {
		return err
	}
	if err := writeString(w, d.Name); err != nil {
		return err
	}

	var flags uint8
	if d.Normals != nil {
		flags |= hasNormals
	}
	if d.UVs != nil {
		flags |= hasUVs
	}
	if d.Tangents != nil {
		flags |= hasTangents
	}
	if d.Colors != nil {
		flags |= hasColors
	}
	if err := binary.Write(w, byteorder, flags); err != nil {
		return err
	}

	// Write the vertex count and the attributes
	if err := binary.Write(w, byteorder, uint32(len(d.Positions))); err != nil {
		return err
	}
	for _, attr := range []any{d.Positions, d.Normals, d.UVs, d.Tangents, d.Colors} {
		if err := binary.Write(w, byteorder, attr); err != nil {
			return err
		}
	}

	// Write the submeshes
	if err := binary.Write(w, byteorder, uint32(len(d.Submeshes))); err != nil {
		return err
	}
	for _, idx := range d.Submeshes {
		if err := binary.Write(w, byteorder, uint32(len(idx))); err != nil {
			return err
		}
		if err := binary.Write(w, byteorder, idx); err != nil {
			return err
		}
	}

	// Write the colliders
	if err := binary.Write(w, byteorder, uint32(len(d.Colliders))); err != nil {
		return err
	}
	for _, c := range d.Colliders {
		if err := binary.Write(w, byteorder, encodeCollider(c)); err != nil {
			return err
		}
	}

	// Write the warnings
	if err := binary.Write(w, byteorder, uint32(len(d.Warnings))); err != nil {
		return err
	}
	for _, s := range d.Warnings {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// ReadBinary decodes a mesh written by WriteBinary.
func ReadBinary(r io.Reader) (*mesh.Data, error) {
	var m [4]byte
	if err := binary.Read(r, byteorder, &m); err != nil {
		return nil, err
	}
	if m != magic {
		return nil, ErrBadMagic
	}
	var v uint32
	if err := binary.Read(r, byteorder, &v); err != nil {
		return nil, err
	}
	if v != version {
		return nil, fmt.Errorf("version %d: %w", v, ErrBadVersion)
	}

	d := &mesh.Data{}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	d.Name = name

	var flags uint8
	if err := binary.Read(r, byteorder, &flags); err != nil {
		return nil, err
	}
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}

	// Read the attributes in the order they were written
	d.Positions = make([]mgl32.Vec3, n)
	if err := binary.Read(r, byteorder, d.Positions); err != nil {
		return nil, err
	}
	if flags&hasNormals != 0 {
		d.Normals = make([]mgl32.Vec3, n)
		if err := binary.Read(r, byteorder, d.Normals); err != nil {
			return nil, err
		}
	}
	if flags&hasUVs != 0 {
		d.UVs = make([]mgl32.Vec2, n)
		if err := binary.Read(r, byteorder, d.UVs); err != nil {
			return nil, err
		}
	}
	if flags&hasTangents != 0 {
		d.Tangents = make([]mgl32.Vec4, n)
		if err := binary.Read(r, byteorder, d.Tangents); err != nil {
			return nil, err
		}
	}
	if flags&hasColors != 0 {
		d.Colors = make([][4]uint8, n)
		if err := binary.Read(r, byteorder, d.Colors); err != nil {
			return nil, err
		}
	}

	groups, err := readCount(r)
	if err != nil {
		return nil, err
	}
	d.Submeshes = make([][]uint32, groups)
	for i := range d.Submeshes {
		k, err := readCount(r)
		if err != nil {
			return nil, err
		}
		d.Submeshes[i] = make([]uint32, k)
		if err := binary.Read(r, byteorder, d.Submeshes[i]); err != nil {
			return nil, err
		}
	}

	nc, err := readCount(r)
	if err != nil {
		return nil, err
	}
	if nc > 0 {
		d.Colliders = make([]mesh.Collider, nc)
		for i := range d.Colliders {
			var rec colliderRecord
			if err := binary.Read(r, byteorder, &rec); err != nil {
				return nil, err
			}
			d.Colliders[i] = rec.decode()
		}
	}

	nw, err := readCount(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nw; i++ {
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		d.Warnings = append(d.Warnings, s)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("reading mesh: %w", err)
	}
	return d, nil
}

// SaveBinary writes d to path, replacing any existing file.
func SaveBinary(path string, d *mesh.Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBinary(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadBinary reads a mesh file written by SaveBinary.
func LoadBinary(path string) (*mesh.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBinary(f)
}

// colliderRecord is the fixed-size wire form of mesh.Collider.
type colliderRecord struct {
	Kind   uint8
	Axis   uint8
	Center mgl32.Vec3
	Size   mgl32.Vec3
	Radius float32
	Height float32
}

func encodeCollider(c mesh.Collider) colliderRecord {
	return colliderRecord{
		Kind:   uint8(c.Kind),
		Axis:   uint8(c.Axis),
		Center: c.Center,
		Size:   c.Size,
		Radius: c.Radius,
		Height: c.Height,
	}
}

func (rec colliderRecord) decode() mesh.Collider {
	return mesh.Collider{
		Kind:   mesh.ColliderKind(rec.Kind),
		Axis:   int(rec.Axis),
		Center: rec.Center,
		Size:   rec.Size,
		Radius: rec.Radius,
		Height: rec.Height,
	}
}

func readCount(r io.Reader) (int, error) {
	var n uint32
	if err := binary.Read(r, byteorder, &n); err != nil {
		return 0, err
	}
	if n > maxCount {
		return 0, fmt.Errorf("length %d exceeds limit", n)
	}
	return int(n), nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, byteorder, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readCount(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
