package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"collider/internal/api"
	"collider/internal/config"
	"collider/internal/geom"
	"collider/internal/render"
	"collider/internal/world"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("🧱 ================================")
	log.Println("🧱  COLLIDER - COLLISION ARENA")
	log.Println("🧱 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	worldCfg := appConfig.World
	serverCfg := appConfig.Server

	log.Printf("🌍 Arena: %gx%g at %d TPS, limits: %d bodies / %d vertices",
		worldCfg.Width, worldCfg.Height, worldCfg.TickRate,
		worldCfg.MaxBodies, worldCfg.MaxVertices)

	w := world.New(world.Config{
		TickRate: worldCfg.TickRate,
		Width:    worldCfg.Width,
		Height:   worldCfg.Height,
		Workers:  worldCfg.Workers,
		Limits: world.Limits{
			MaxBodies:   worldCfg.MaxBodies,
			MaxVertices: worldCfg.MaxVertices,
		},
	})

	seedBodies(w, worldCfg)
	w.Start()

	// Start debug server
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	renderer := render.NewRenderer(serverCfg.FrameWidth, serverCfg.FrameHeight, worldCfg.Width)
	server := api.NewServer(api.ServerConfig{
		World:       w,
		Renderer:    renderer,
		CORSOrigins: serverCfg.CORSOrigins,
		RateLimit: &api.RateLimitConfig{
			RequestsPerSecond: serverCfg.RequestsPerSecond,
			Burst:             serverCfg.Burst,
		},
		TickRate: worldCfg.TickRate,
	})

	go func() {
		if err := server.Start(":" + strconv.Itoa(serverCfg.Port)); err != nil {
			log.Fatalf("❌ API server: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("👋 Shutting down")
	server.Stop()
	w.Stop()
}

// seedBodies places a few shapes so a fresh arena immediately produces
// contacts to watch.
func seedBodies(w *world.World, cfg config.WorldConfig) {
	type seed struct {
		name     string
		vertices []geom.Vec2
		opts     world.BodyOptions
	}

	cx, cy := cfg.Width/2, cfg.Height/2
	seeds := []seed{
		{
			name:     "crate",
			vertices: []geom.Vec2{geom.V(0, 0), geom.V(8, 0), geom.V(8, 8), geom.V(0, 8)},
			opts: world.BodyOptions{
				Position: geom.V(cx-20, cy),
				Velocity: geom.V(6, 2),
			},
		},
		{
			name:     "wedge",
			vertices: []geom.Vec2{geom.V(0, 0), geom.V(10, 0), geom.V(5, 9)},
			opts: world.BodyOptions{
				Position:        geom.V(cx+15, cy-5),
				Velocity:        geom.V(-4, 3),
				AngularVelocity: 0.6,
			},
		},
		{
			name:     "diamond",
			vertices: []geom.Vec2{geom.V(0, -6), geom.V(6, 0), geom.V(0, 6), geom.V(-6, 0)},
			opts: world.BodyOptions{
				Position:        geom.V(cx, cy+18),
				Velocity:        geom.V(2, -5),
				AngularVelocity: -0.4,
			},
		},
	}

	for _, s := range seeds {
		if _, err := w.AddBody(s.name, s.vertices, s.opts); err != nil {
			log.Printf("⚠️ Seed body %s rejected: %v", s.name, err)
		}
	}
}
