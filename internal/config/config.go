// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all simulation and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// WORLD CONFIGURATION
// =============================================================================

// WorldConfig holds the simulation settings shared between the world and the
// debug renderer.
type WorldConfig struct {
	Width    float64 // Arena width in world units
	Height   float64 // Arena height in world units
	TickRate int     // Simulation ticks per second
	Workers  int     // Narrowphase worker count, 0 = NumCPU

	MaxBodies   int // Resource limit: tracked bodies per world
	MaxVertices int // Resource limit: input vertices per body
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		Width:    100,
		Height:   100,
		TickRate: 30,
		Workers:  0,

		MaxBodies:   256,
		MaxVertices: 64,
	}
}

// WorldFromEnv returns world configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("WORLD_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if t := getEnvInt("WORLD_TICK_RATE", 0); t > 0 {
		cfg.TickRate = t
	}
	if n := getEnvInt("WORLD_WORKERS", 0); n > 0 {
		cfg.Workers = n
	}
	if n := getEnvInt("WORLD_MAX_BODIES", 0); n > 0 {
		cfg.MaxBodies = n
	}
	if n := getEnvInt("WORLD_MAX_VERTICES", 0); n > 0 {
		cfg.MaxVertices = n
	}
	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port        int
	CORSOrigins []string

	// Rate limiting per client IP
	RequestsPerSecond float64
	Burst             int

	// Debug frame rendering
	FrameWidth  int
	FrameHeight int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:              8080,
		CORSOrigins:       []string{"http://localhost:3000"},
		RequestsPerSecond: 10,
		Burst:             20,
		FrameWidth:        800,
		FrameHeight:       800,
	}
}

// ServerFromEnv returns server configuration with environment variable
// overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}
	if r := getEnvFloat("RATE_LIMIT_RPS", 0); r > 0 {
		cfg.RequestsPerSecond = r
	}
	if b := getEnvInt("RATE_LIMIT_BURST", 0); b > 0 {
		cfg.Burst = b
	}
	if w := getEnvInt("FRAME_WIDTH", 0); w > 0 {
		cfg.FrameWidth = w
	}
	if h := getEnvInt("FRAME_HEIGHT", 0); h > 0 {
		cfg.FrameHeight = h
	}
	return cfg
}

// =============================================================================
// AGGREGATE
// =============================================================================

// AppConfig aggregates all configuration sections.
type AppConfig struct {
	World  WorldConfig
	Server ServerConfig
}

// Load returns the full application configuration with env overrides
// applied.
func Load() AppConfig {
	return AppConfig{
		World:  WorldFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
