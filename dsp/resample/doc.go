// Package resample converts float32 sample streams between rates for
// duration correction after time-scale modification.
//
// Two converters are available behind the [Converter] interface:
//
//	backend     implementation                         latency
//	polyphase   windowed-sinc polyphase FIR (float32)  compensated
//	resampling  go-audio-resampling multi-stage        library defined
//
// The polyphase converter works on an exact rational ratio up/down, which
// suits hop-size ratios such as 341/512. Its prototype filter follows the
// quality matrix below:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
