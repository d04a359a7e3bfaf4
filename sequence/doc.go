// Package sequence resolves the raw sections of a Pulseq file into a typed,
// reference-linked sequence and validates it.
//
// Resolution runs in a fixed order. Sections are extracted into typed
// collections and checked for duplicate ids, definitions are normalized into
// metadata and raster times, shapes are decompressed (and expanded onto the
// raster when a time shape is attached), events are built from shapes, and
// blocks are linked to events. Events are shared: two blocks naming the same
// rf id point at the same *Rf.
//
// All quantities are SI: seconds, Hz, Hz/m and radians.
//
//	version, sections, err := grammar.Parse(src)
//	if err != nil {
//		return err
//	}
//	seq, err := sequence.New(version, sections)
//
// FromSections skips validation; call Validate on the result to run it
// separately.
package sequence
