package config

import (
	"runtime"
	"sync"

	"planetmesh/internal/topology"
)

// GenerationSettings holds the defaults shared by the CLI, the server and
// the build pipeline.
type GenerationSettings struct {
	mu           sync.RWMutex
	workers      int // 0 = one per CPU
	batchSize    int // vertices per parallel task
	subdivisions int
	seed         int64
	noise        string
}

const (
	MaxWorkers   = 64
	MinBatchSize = 16
	MaxBatchSize = 1 << 16
)

var globalSettings = &GenerationSettings{
	workers:      0,
	batchSize:    256,
	subdivisions: 4,
	seed:         0,
	noise:        "simplex",
}

// GetWorkers returns the worker count for parallel stages, resolving 0 to
// the number of CPUs.
func GetWorkers() int {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	if globalSettings.workers == 0 {
		return runtime.NumCPU()
	}
	return globalSettings.workers
}

// SetWorkers sets the worker count. 0 selects one worker per CPU.
func SetWorkers(n int) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()

	if n < 0 {
		n = 0
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	globalSettings.workers = n
}

// GetBatchSize returns how many vertices one parallel task processes.
func GetBatchSize() int {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.batchSize
}

// SetBatchSize sets the per-task vertex count
func SetBatchSize(n int) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()

	if n < MinBatchSize {
		n = MinBatchSize
	}
	if n > MaxBatchSize {
		n = MaxBatchSize
	}
	globalSettings.batchSize = n
}

// GetDefaultSubdivisions returns the octahedron subdivision level used when a
// request does not name one.
func GetDefaultSubdivisions() int {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.subdivisions
}

func SetDefaultSubdivisions(s int) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.subdivisions, _ = topology.ClampSubdivisions(s)
}

func GetSeed() int64 {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.seed
}

func SetSeed(seed int64) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.seed = seed
}

// GetNoiseBackend returns the default noise backend name.
func GetNoiseBackend() string {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.noise
}

func SetNoiseBackend(name string) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.noise = name
}
