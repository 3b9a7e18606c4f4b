package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"

	"skycarpet/internal/config"
	"skycarpet/internal/graphics"
	"skycarpet/internal/input"
	"skycarpet/internal/player"
	"skycarpet/internal/world"
)

var logger = log.New(os.Stdout, "[skycarpet] ", log.LstdFlags|log.Lmicroseconds)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer closer.Close()

	configPath := flag.String("config", "", "YAML config file overlaying the defaults")
	seed := flag.Int64("seed", 0, "world seed override (0 keeps the configured seed)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			closer.Fatalln("load config:", err)
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		closer.Fatalln("config:", err)
	}

	if err := glfw.Init(); err != nil {
		closer.Fatalln("glfw init:", err)
	}
	closer.Bind(glfw.Terminate)

	window, err := setupWindow(cfg)
	if err != nil {
		closer.Fatalln("window:", err)
	}

	r, err := graphics.NewRenderer(cfg)
	if err != nil {
		closer.Fatalln("renderer:", err)
	}

	// The HUD is optional: without the font file the game still flies.
	var hud *graphics.FontRenderer
	if atlas, atlasErr := graphics.BuildFontAtlas(cfg.Viewer.FontPath, 18); atlasErr != nil {
		logger.Printf("HUD disabled: %v", atlasErr)
	} else if hud, err = graphics.NewFontRenderer(atlas, cfg.Viewer.Width, cfg.Viewer.Height); err != nil {
		logger.Printf("HUD disabled: %v", err)
		hud = nil
	}

	gameWorld := world.New(cfg)
	logger.Printf("seed %d, chunk size %.0f, view distance %d",
		gameWorld.Seed(), cfg.World.ChunkSize, cfg.World.ViewDistance)

	// Build the spawn area synchronously so the first frame has terrain in it
	for gameWorld.Update(0, 0) > 0 {
	}
	logger.Printf("spawn area ready, %d chunks", gameWorld.ChunkCount())

	gamePlayer := player.New(gameWorld, cfg)

	s := &session{
		cfg:        cfg,
		window:     window,
		input:      input.NewInputManager(),
		world:      gameWorld,
		player:     gamePlayer,
		render:     r,
		hud:        hud,
		hudVisible: true,
	}
	setupInputHandlers(s)

	runGameLoop(s)
}

func setupWindow(cfg config.Config) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(cfg.Viewer.Width, cfg.Viewer.Height, "skycarpet", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}
