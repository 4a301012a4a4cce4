// Package window generates analysis/synthesis window tables for short-time
// spectral processing.
//
// Coefficients are generated in float64 with [Generate] and can be frozen
// into a float32 [Table] sized to a transform frame. A Table is the window
// collaborator consumed by the phase vocoder: it multiplies the leading part
// of a buffer in place and never changes after construction.
package window
