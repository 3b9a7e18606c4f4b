package graphics

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/config"
	"skycarpet/internal/meshing"
	"skycarpet/internal/player"
	"skycarpet/internal/profiling"
	"skycarpet/internal/world"
)

// SkyColor doubles as the fog color so distant terrain dissolves into the
// horizon instead of popping out at the far plane.
var SkyColor = mgl32.Vec3{0.52, 0.70, 0.89}

const terrainVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec3 aColor;

uniform mat4 proj;
uniform mat4 view;

out vec3 vNormal;
out vec3 vColor;
out float vViewDist;

void main() {
    vec4 viewPos = view * vec4(aPos, 1.0);
    gl_Position = proj * viewPos;
    vNormal = aNormal;
    vColor = aColor;
    vViewDist = length(viewPos.xyz);
}
`

const terrainFragmentShader = `#version 410 core
in vec3 vNormal;
in vec3 vColor;
in float vViewDist;

uniform vec3 lightDir;
uniform vec3 skyColor;
uniform float fogStart;
uniform float fogEnd;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    float diffuse = max(dot(n, lightDir), 0.0);
    vec3 lit = vColor * (0.35 + 0.65 * diffuse);
    float fog = clamp((vViewDist - fogStart) / (fogEnd - fogStart), 0.0, 1.0);
    FragColor = vec4(mix(lit, skyColor, fog), 1.0);
}
`

type Renderer struct {
	terrainShader *Shader
	camera        *Camera

	// FOV transition for the boost kick
	baseFOV    float32
	targetFOV  float32
	currentFOV float32

	// Uploaded GL mesh per resident chunk
	chunkMeshes  map[world.ChunkCoord]*chunkMesh
	lastModCount uint64
	synced       bool

	wireframe bool

	fogStart float32
	fogEnd   float32

	// Frustum culling margin in world units (inflates AABBs before testing)
	frustumMargin float32

	chunkSize float32
	minHeight float32
	maxHeight float32
}

type chunkMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	// source identifies the uploaded mesh, so a rebuilt chunk at the same
	// coordinate (after a reseed) is re-uploaded rather than kept stale.
	source *meshing.Mesh
}

func NewRenderer(cfg config.Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Configure OpenGL
	gl.Enable(gl.DEPTH_TEST)
	// Enable back-face culling (the mesh builder winds CCW seen from above)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	terrainShader, err := NewShader(terrainVertexShader, terrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}

	camera := NewCamera(cfg)

	return &Renderer{
		terrainShader: terrainShader,
		camera:        camera,
		baseFOV:       camera.FOV,
		targetFOV:     camera.FOV,
		currentFOV:    camera.FOV,
		chunkMeshes:   make(map[world.ChunkCoord]*chunkMesh),
		fogStart:      camera.FarPlane * 0.45,
		fogEnd:        camera.FarPlane * 0.92,
		frustumMargin: 4.0,
		chunkSize:     float32(cfg.World.ChunkSize),
		minHeight:     float32(cfg.World.MinHeight),
		maxHeight:     float32(cfg.World.MaxHeight),
	}, nil
}

// ToggleWireframe flips terrain drawing between filled and line mode.
func (r *Renderer) ToggleWireframe() {
	r.wireframe = !r.wireframe
}

// Render draws one frame: sky clear, mesh sync against the world, then a
// frustum-culled draw of every resident chunk.
func (r *Renderer) Render(w *world.World, p *player.Player, dt float64) {
	defer profiling.Track("renderer.Render")()

	gl.ClearColor(SkyColor.X(), SkyColor.Y(), SkyColor.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.syncChunkMeshes(w)
	r.updateFOV(p, dt)

	view := p.GetViewMatrix()
	projection := r.camera.GetProjectionMatrix()

	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	r.renderTerrain(view, projection)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// updateFOV widens the field of view a touch while boosting at speed, eased
// over a few frames so the kick reads as acceleration rather than a snap.
func (r *Renderer) updateFOV(p *player.Player, dt float64) {
	horizontalSpeed := float32(math.Hypot(float64(p.Velocity[0]), float64(p.Velocity[2])))
	if p.Boosting && horizontalSpeed > 1.0 {
		r.targetFOV = r.baseFOV + 12
	} else {
		r.targetFOV = r.baseFOV
	}

	step := float32(dt) * 100.0
	if r.currentFOV < r.targetFOV {
		r.currentFOV += step
		if r.currentFOV > r.targetFOV {
			r.currentFOV = r.targetFOV
		}
	} else if r.currentFOV > r.targetFOV {
		r.currentFOV -= step
		if r.currentFOV < r.targetFOV {
			r.currentFOV = r.targetFOV
		}
	}

	r.camera.FOV = r.currentFOV
}

func (r *Renderer) renderTerrain(view, projection mgl32.Mat4) {
	r.terrainShader.Use()

	r.terrainShader.SetMatrix4("proj", &projection[0])
	r.terrainShader.SetMatrix4("view", &view[0])

	// Morning sun, slightly warm side angle so slopes shade distinctly
	light := mgl32.Vec3{0.35, 1.0, 0.25}.Normalize()
	r.terrainShader.SetVector3("lightDir", light.X(), light.Y(), light.Z())
	r.terrainShader.SetVector3("skyColor", SkyColor.X(), SkyColor.Y(), SkyColor.Z())
	r.terrainShader.SetFloat("fogStart", r.fogStart)
	r.terrainShader.SetFloat("fogEnd", r.fogEnd)

	clip := projection.Mul4(view)
	for coord, mesh := range r.chunkMeshes {
		if mesh.indexCount == 0 {
			continue
		}
		min, max := r.chunkAABB(coord)
		if !aabbIntersectsFrustum(min, max, clip) {
			continue
		}
		gl.BindVertexArray(mesh.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, mesh.indexCount, gl.UNSIGNED_INT, 0)
	}
}

// syncChunkMeshes uploads meshes for chunks the renderer has not seen yet
// and deletes GL objects for chunks the world evicted. The world's mod count
// makes the common frame a single comparison.
func (r *Renderer) syncChunkMeshes(w *world.World) {
	mc := w.ModCount()
	if r.synced && mc == r.lastModCount {
		return
	}
	defer profiling.Track("renderer.SyncChunkMeshes")()

	live := make(map[world.ChunkCoord]*meshing.Mesh)
	for _, c := range w.Chunks() {
		live[c.Coord] = c.Mesh
		existing, ok := r.chunkMeshes[c.Coord]
		if ok && existing.source == c.Mesh {
			continue
		}
		if ok {
			existing.delete()
		}
		r.chunkMeshes[c.Coord] = uploadChunkMesh(c.Mesh)
	}
	for coord, mesh := range r.chunkMeshes {
		if _, ok := live[coord]; !ok {
			mesh.delete()
			delete(r.chunkMeshes, coord)
		}
	}
	r.lastModCount = mc
	r.synced = true
}

// MeshCount reports resident GL chunk meshes, for the HUD.
func (r *Renderer) MeshCount() int {
	return len(r.chunkMeshes)
}

func uploadChunkMesh(m *meshing.Mesh) *chunkMesh {
	cm := &chunkMesh{source: m, indexCount: int32(len(m.Indices))}
	if cm.indexCount == 0 {
		return cm
	}

	data := m.VertexData()

	gl.GenVertexArrays(1, &cm.vao)
	gl.BindVertexArray(cm.vao)

	gl.GenBuffers(1, &cm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, cm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	// Attribute layout (pos.xyz, normal.xyz, color.rgb)
	stride := int32(meshing.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 6*4)

	gl.GenBuffers(1, &cm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, cm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	return cm
}

func (cm *chunkMesh) delete() {
	if cm.indexCount == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &cm.vao)
	gl.DeleteBuffers(1, &cm.vbo)
	gl.DeleteBuffers(1, &cm.ebo)
}

// chunkAABB returns the world-space bounding box of a chunk column, spanning
// the full configured elevation range.
func (r *Renderer) chunkAABB(coord world.ChunkCoord) (mgl32.Vec3, mgl32.Vec3) {
	min := mgl32.Vec3{float32(coord.X) * r.chunkSize, r.minHeight, float32(coord.Z) * r.chunkSize}
	max := mgl32.Vec3{min.X() + r.chunkSize, r.maxHeight, min.Z() + r.chunkSize}
	m := r.frustumMargin
	min = mgl32.Vec3{min.X() - m, min.Y() - m, min.Z() - m}
	max = mgl32.Vec3{max.X() + m, max.Y() + m, max.Z() + m}
	return min, max
}

// aabbIntersectsFrustum tests an AABB against the camera frustum using
// clip-space half-space tests. clip is projection * view.
func aabbIntersectsFrustum(min, max mgl32.Vec3, clip mgl32.Mat4) bool {
	corners := [8]mgl32.Vec4{
		{min.X(), min.Y(), min.Z(), 1.0},
		{max.X(), min.Y(), min.Z(), 1.0},
		{min.X(), max.Y(), min.Z(), 1.0},
		{max.X(), max.Y(), min.Z(), 1.0},
		{min.X(), min.Y(), max.Z(), 1.0},
		{max.X(), min.Y(), max.Z(), 1.0},
		{min.X(), max.Y(), max.Z(), 1.0},
		{max.X(), max.Y(), max.Z(), 1.0},
	}

	var v [8]mgl32.Vec4
	for i := range corners {
		v[i] = clip.Mul4x1(corners[i])
	}

	// The box is culled when every corner is outside the same plane.
	allOutside := func(outside func(mgl32.Vec4) bool) bool {
		for i := range v {
			if !outside(v[i]) {
				return false
			}
		}
		return true
	}

	if allOutside(func(c mgl32.Vec4) bool { return c.X() > c.W() }) ||
		allOutside(func(c mgl32.Vec4) bool { return c.X() < -c.W() }) ||
		allOutside(func(c mgl32.Vec4) bool { return c.Y() > c.W() }) ||
		allOutside(func(c mgl32.Vec4) bool { return c.Y() < -c.W() }) ||
		allOutside(func(c mgl32.Vec4) bool { return c.Z() > c.W() }) ||
		allOutside(func(c mgl32.Vec4) bool { return c.Z() < -c.W() }) {
		return false
	}
	return true
}
