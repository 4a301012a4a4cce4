// Package audiofile loads and saves PCM audio as per-channel float32 slices.
//
// WAV is read and written with github.com/go-audio/wav, FLAC is read with
// github.com/mewkiz/flac. For streaming pipelines, OpenStream and
// WriteStream expose WAV files as beep streamers.
package audiofile
