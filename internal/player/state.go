package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/config"
	"skycarpet/internal/world"
)

// EyeHeight is the camera's offset above the carpet deck.
const EyeHeight = 1.2

// Player is the carpet rider: a free-flight position and velocity pair plus
// the mouse-driven camera orientation.
type Player struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	CamYaw     float64
	CamPitch   float64
	LastMouseX float64
	LastMouseY float64
	FirstMouse bool

	Boosting bool

	World *world.World

	flightSpeed  float64
	boostMult    float64
	sensitivity  float64
	minClearance float64
}

// New spawns the carpet well above the terrain at the origin, looking
// slightly down so the landscape is in view immediately.
func New(w *world.World, cfg config.Config) *Player {
	spawnY := float32(w.HeightAt(0, 0) + 60)
	return &Player{
		Position:     mgl32.Vec3{0, spawnY, 0},
		Velocity:     mgl32.Vec3{0, 0, 0},
		CamYaw:       0,
		CamPitch:     -10,
		FirstMouse:   true,
		World:        w,
		flightSpeed:  cfg.Viewer.FlightSpeed,
		boostMult:    cfg.Viewer.BoostMultiplier,
		sensitivity:  cfg.Viewer.MouseSensitivity,
		minClearance: cfg.Viewer.MinClearance,
	}
}

func (p *Player) GetEyePosition() mgl32.Vec3 {
	return p.Position.Add(mgl32.Vec3{0, EyeHeight, 0})
}
