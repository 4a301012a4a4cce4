// Package vocoder implements a single-frame phase vocoder engine for pitch
// shifting.
//
// An [Engine] analyses one windowed frame at a time, tracks the phase of every
// transform bin across frames, removes the phase advance expected from each
// bin's centre frequency, unwraps the remaining deviation, and re-accumulates
// phase scaled by SynthesisHopSize/AnalysisHopSize before resynthesising the
// frame.
//
// Framing, overlap-add and duration correction are left to the caller; see
// package stream for a streaming wrapper. An Engine is not safe for
// concurrent use: run one Engine per independent stream.
package vocoder
