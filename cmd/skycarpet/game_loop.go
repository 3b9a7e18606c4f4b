package main

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"skycarpet/internal/config"
	"skycarpet/internal/graphics"
	"skycarpet/internal/input"
	"skycarpet/internal/physics"
	"skycarpet/internal/player"
	"skycarpet/internal/profiling"
	"skycarpet/internal/world"
)

type session struct {
	cfg    config.Config
	window *glfw.Window
	input  *input.InputManager
	world  *world.World
	player *player.Player
	render *graphics.Renderer
	hud    *graphics.FontRenderer

	paused     bool
	hudVisible bool
}

func runGameLoop(s *session) {
	limiter := NewFPSLimiter()
	lastTime := time.Now()
	lastEvict := time.Now()
	frames := 0
	fps := 0
	lastFPSCheck := time.Now()

	for !s.window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		if dt > 0.25 {
			// Clamp hitches so a long stall cannot teleport the carpet
			dt = 0.25
		}

		s.handleActions()

		if !s.paused {
			s.player.UpdatePosition(dt, s.input)

			px := float64(s.player.Position[0])
			pz := float64(s.player.Position[2])
			s.world.Update(px, pz)

			// Periodically drop chunks the carpet left behind
			if time.Since(lastEvict) > 750*time.Millisecond {
				s.world.EvictFarChunks(px, pz)
				lastEvict = time.Now()
			}
		}

		renderStart := time.Now()
		s.render.Render(s.world, s.player, dt)
		renderDur := time.Since(renderStart)

		frames++
		if time.Since(lastFPSCheck) >= time.Second {
			fps = frames
			frames = 0
			lastFPSCheck = time.Now()
		}

		if s.hud != nil && s.hudVisible {
			s.renderHUD(fps, renderDur)
		}
		if s.hud != nil && s.paused {
			s.renderPauseBanner()
		}

		func() { defer profiling.Track("glfw.SwapBuffers")(); s.window.SwapBuffers() }()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

		s.input.PostUpdate()
		limiter.Wait(s.cfg.Viewer.FPSLimit)
	}
}

func (s *session) renderHUD(fps int, renderDur time.Duration) {
	p := s.player
	stats := s.world.CacheStats()
	clearance := physics.Clearance(p.Position, s.world)
	speed := math.Hypot(float64(p.Velocity[0]), float64(p.Velocity[2]))

	terrainDur := profiling.SumWithPrefix("world.")
	lines := []string{
		fmt.Sprintf("fps %d  render %.1fms  terrain %.1fms",
			fps, float64(renderDur.Microseconds())/1000.0, float64(terrainDur.Microseconds())/1000.0),
		fmt.Sprintf("pos %.0f / %.0f / %.0f  yaw %.0f", p.Position[0], p.Position[1], p.Position[2], math.Mod(p.CamYaw, 360)),
		fmt.Sprintf("alt %.1f above terrain  speed %.0f", clearance, speed),
		fmt.Sprintf("chunks %d (gpu %d)", s.world.ChunkCount(), s.render.MeshCount()),
		fmt.Sprintf("cache %d entries  hit %.0f%%", stats.Size, stats.HitRate*100),
	}
	if top := profiling.TopN(4); top != "" {
		lines = append(lines, top)
	}
	s.hud.RenderLines(lines, 12, 24, 20, 1.0, mgl32.Vec3{1, 1, 1})
}

func (s *session) renderPauseBanner() {
	label := "PAUSED"
	scale := float32(2.0)
	tw, _ := s.hud.Measure(label, scale)
	x := (float32(s.cfg.Viewer.Width) - tw) / 2
	y := float32(s.cfg.Viewer.Height) * 0.4
	s.hud.Render(label, x, y, scale, mgl32.Vec3{1, 1, 1})
}
