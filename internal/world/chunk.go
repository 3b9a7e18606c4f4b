package world

import (
	"skycarpet/internal/meshing"
)

// ChunkCoord identifies a chunk on the horizontal grid. Chunk (cx, cz) spans
// world x in [cx*chunkSize, (cx+1)*chunkSize), same for z.
type ChunkCoord struct {
	X, Z int
}

// Chunk is one built terrain tile. The mesh is immutable once built; a seed
// change drops the chunk rather than mutating it.
type Chunk struct {
	Coord ChunkCoord
	Mesh  *meshing.Mesh
}
