package docker

import (
	"time"

	"github.com/sakif/python-playground/internal/executor"
)

// Config holds the configuration for Docker execution.
type Config struct {
	// Image is the Docker image the warm containers run.
	Image string
	// MemoryLimit is the maximum amount of memory a container can use (in bytes).
	MemoryLimit int64
	// CPULimit is the number of CPUs a container can use.
	CPULimit float64
	// PidsLimit caps processes inside a container (fork bombs).
	PidsLimit int64
	// Timeout is the wall-clock budget of one run.
	Timeout time.Duration
	// PoolSize is the number of pre-warmed containers to maintain.
	PoolSize int
}

// DefaultConfig provides sensible defaults for a Python sandbox.
func DefaultConfig() Config {
	return Config{
		Image:       "python:3.12-alpine",
		MemoryLimit: 128 * 1024 * 1024,
		CPULimit:    0.5,
		PidsLimit:   64,
		Timeout:     executor.Timeout,
		PoolSize:    3,
	}
}
