// Package concurrency centralizes the worker limit used by the parallel
// per-file stages.
package concurrency

import "runtime"

const (
	// MinWorkers is the floor for parallel file operations
	MinWorkers = 2

	// MaxWorkers caps parallel file operations to avoid file-handle and
	// memory pressure on large batches
	MaxWorkers = 16

	// WorkersPerCPU scales the limit with available cores; file work is
	// I/O-bound so two workers per core keeps cores busy
	WorkersPerCPU = 2
)

// Limit returns the bounded worker count for a parallel stage.
func Limit() int {
	n := runtime.NumCPU() * WorkersPerCPU
	if n < MinWorkers {
		n = MinWorkers
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}
