package sequence

import (
	"iter"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/section"
)

// sections is the typed content of a file after extraction. Repeated kinds
// are concatenated in file order.
type sections struct {
	version     *section.Version
	signature   *section.Signature
	extensions  *section.Extensions
	definitions section.Definitions
	blocks      section.Blocks
	rfs         section.Rfs
	gradients   section.Gradients
	traps       section.Traps
	adcs        section.Adcs
	delays      section.Delays
	shapes      section.Shapes
}

// extractSections drains list into typed collections. Entries are set to
// nil as they are consumed, so the caller's slice holds nothing afterwards.
func extractSections(list []section.Section) (*sections, error) {
	var out sections
	var versions, defs, signatures int

	for i, s := range list {
		list[i] = nil
		switch s := s.(type) {
		case *section.Version:
			versions++
			out.version = s
		case *section.Signature:
			signatures++
			out.signature = s
		case section.Definitions:
			defs++
			out.definitions = s
		case section.Blocks:
			out.blocks = append(out.blocks, s...)
		case section.Rfs:
			out.rfs = append(out.rfs, s...)
		case section.Gradients:
			out.gradients = append(out.gradients, s...)
		case section.Traps:
			out.traps = append(out.traps, s...)
		case section.Adcs:
			out.adcs = append(out.adcs, s...)
		case section.Delays:
			out.delays = append(out.delays, s...)
		case section.Shapes:
			out.shapes = append(out.shapes, s...)
		case *section.Extensions:
			if out.extensions == nil {
				out.extensions = &section.Extensions{}
			}
			out.extensions.Refs = append(out.extensions.Refs, s.Refs...)
			out.extensions.Specs = append(out.extensions.Specs, s.Specs...)
		}
	}

	if versions != 1 {
		return nil, errors.VersionSectionCount(versions)
	}
	if defs > 1 {
		return nil, errors.DefinitionsSectionCount(defs)
	}
	if signatures > 1 {
		return nil, errors.SignatureSectionCount(signatures)
	}

	checks := []struct {
		kind section.Kind
		ids  iter.Seq[uint32]
	}{
		{section.KindBlocks, idsOf(out.blocks, func(b section.Block) uint32 { return b.ID })},
		{section.KindRfs, idsOf(out.rfs, func(r section.Rf) uint32 { return r.ID })},
		{section.KindGradients, idsOf(out.gradients, func(g section.Gradient) uint32 { return g.ID })},
		{section.KindTraps, idsOf(out.traps, func(t section.Trap) uint32 { return t.ID })},
		{section.KindAdcs, idsOf(out.adcs, func(a section.Adc) uint32 { return a.ID })},
		{section.KindDelays, idsOf(out.delays, func(d section.Delay) uint32 { return d.ID })},
		{section.KindShapes, idsOf(out.shapes, func(s section.Shape) uint32 { return s.ID })},
	}
	for _, c := range checks {
		seen := make(map[uint32]struct{})
		for id := range c.ids {
			if _, dup := seen[id]; dup {
				return nil, errors.EventIDReuse(string(c.kind), id)
			}
			seen[id] = struct{}{}
		}
	}

	return &out, nil
}

func idsOf[T any](records []T, id func(T) uint32) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, r := range records {
			if !yield(id(r)) {
				return
			}
		}
	}
}
