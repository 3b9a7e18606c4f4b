package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the number of float32 per vertex in the flattened buffer
// (pos.xyz + normal.xyz + color.rgb)
const VertexStride = 9

// Vertex is one terrain vertex with named attribute fields. All mesh work
// happens on this struct; the flat interleaved layout exists only at the
// renderer hand-off (VertexData).
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec3
}

// Mesh is an indexed triangle mesh for one terrain chunk. Vertices are laid
// out row-major (x fastest) over the chunk's grid; Indices reference them as
// triangle triplets wound counter-clockwise seen from above.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexData flattens the mesh into the interleaved float32 layout the
// renderer uploads (VertexStride floats per vertex).
func (m *Mesh) VertexData() []float32 {
	data := make([]float32, 0, len(m.Vertices)*VertexStride)
	for _, v := range m.Vertices {
		data = append(data,
			v.Position.X(), v.Position.Y(), v.Position.Z(),
			v.Normal.X(), v.Normal.Y(), v.Normal.Z(),
			v.Color.X(), v.Color.Y(), v.Color.Z(),
		)
	}
	return data
}
