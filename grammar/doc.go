// Package grammar turns Pulseq sequence file text into raw sections.
//
// The [VERSION] section is located first to select the dialect; the rest of
// the file is then read with that dialect's column layout:
//
//	1.2  [BLOCKS] id delay rf gx gy gz adc
//	1.3  [BLOCKS] id delay rf gx gy gz adc ext, [EXTENSIONS]
//	1.4  [BLOCKS] id duration rf gx gy gz adc ext, time shape ids in [RF]
//	     and [GRADIENTS], [SIGNATURE], no [DELAYS]
//
// Time columns written in microseconds (and ADC dwell in nanoseconds) are
// converted to seconds while parsing. Shapes are returned as written; run
// length decoding belongs to the sequence package.
//
// Malformed text fails with a parse-phase *errors.Error carrying the line.
package grammar
