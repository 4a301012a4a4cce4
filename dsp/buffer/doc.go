// Package buffer provides float32 sample storage for streaming DSP: a
// growable FIFO ring used to gather overlapping analysis frames, and a pool
// of zeroed scratch slices for per-block work in hot paths.
package buffer
