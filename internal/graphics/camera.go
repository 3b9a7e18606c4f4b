package graphics

import (
	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/config"
)

// Camera handles the projection matrix
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

// NewCamera sizes the far plane to the streamed area so distant chunks are
// still inside the frustum when the fog hands them over to the sky.
func NewCamera(cfg config.Config) *Camera {
	far := float32((float64(cfg.World.ViewDistance) + 1.5) * cfg.World.ChunkSize)
	return &Camera{
		AspectRatio: float32(cfg.Viewer.Width) / float32(cfg.Viewer.Height),
		FOV:         float32(cfg.Viewer.FOV),
		NearPlane:   0.5,
		FarPlane:    far,
	}
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
