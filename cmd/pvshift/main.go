// Command pvshift pitch-shifts audio files with a phase vocoder.
//
// Usage:
//
//	pvshift [--log-level level] <command> [flags] [args]
//
// Commands:
//
//	shift    pitch-shift a WAV or FLAC file into a WAV file
//	info     print hop sizes, stretch factor and latency for a setting
//	analyze  print a YAML report of dominant frequency and centroid
//	trace    dump per-frame vocoder state as msgpack
//	windows  compare analysis windows at the vocoder hop
//
// Examples:
//
//	pvshift shift --semitones 7 in.wav out.wav
//	pvshift shift --ratio 0.5 --frame 4096 --bit-depth 24 in.flac out.wav
//	pvshift info --frame 2048 --ratio 1.5
//	pvshift analyze out.wav
//	pvshift trace --frames 16 in.wav trace.msgpack
//	pvshift windows --frame 4096 hann hamming
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-pvoc/cmd/pvshift/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
