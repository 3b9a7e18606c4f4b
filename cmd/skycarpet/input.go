package main

import (
	"math/rand"

	"github.com/go-gl/glfw/v3.3/glfw"

	"skycarpet/internal/input"
)

func setupInputHandlers(s *session) {
	s.input.SetKeyCallback(s.window)
	s.input.SetMouseButtonCallback(s.window)

	// Mouse look goes straight to the player; the action layer only carries
	// button and key state.
	s.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !s.paused {
			s.player.HandleMouseMovement(w, xpos, ypos)
		}
	})
}

// handleActions runs once per frame and applies edge-triggered actions.
func (s *session) handleActions() {
	if s.input.JustPressed(input.ActionPause) {
		s.togglePause()
	}
	if s.input.JustPressed(input.ActionToggleWireframe) {
		s.render.ToggleWireframe()
	}
	if s.input.JustPressed(input.ActionToggleHUD) {
		s.hudVisible = !s.hudVisible
	}
	if !s.paused && s.input.JustPressed(input.ActionRegenerate) {
		s.regenerate()
	}
}

func (s *session) togglePause() {
	s.paused = !s.paused
	if s.paused {
		s.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	} else {
		s.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		s.player.FirstMouse = true
	}
}

// regenerate reseeds the world and rebuilds the area around the carpet
// before the next frame renders, so there is no moment without ground.
func (s *session) regenerate() {
	seed := rand.Int63()
	s.world.Regenerate(seed)
	logger.Printf("regenerated world, seed %d", seed)

	px := float64(s.player.Position[0])
	pz := float64(s.player.Position[2])
	for s.world.Update(px, pz) > 0 {
	}
}
