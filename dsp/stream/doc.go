// Package stream turns the single-frame phase vocoder into a continuous
// pitch shifter.
//
// A [Shifter] gathers overlapping analysis frames from arbitrary-sized input
// blocks, runs them through a [vocoder.Engine], overlap-adds the synthesised
// frames normalised by the summed squared window, and finally resamples the
// time-stretched result so that output duration matches input duration.
//
// [Streamer] adapts a pair of Shifters to the beep.Streamer interface for
// stereo playback pipelines. [ProcessAll] is the one-shot form for whole
// buffers.
package stream
