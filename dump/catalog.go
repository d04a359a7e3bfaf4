package dump

import "github.com/wippyai/pulseq/sequence"

// catalog numbers the shared events and shapes of a sequence in order of
// first use, starting at 1. File ids are gone after resolution; these
// numbers only identify objects within one dump.
type catalog struct {
	rfIDs    map[*sequence.Rf]int
	gradIDs  map[sequence.Gradient]int
	adcIDs   map[*sequence.Adc]int
	shapeIDs map[*sequence.Shape]int

	rfs    []*sequence.Rf
	grads  []sequence.Gradient
	adcs   []*sequence.Adc
	shapes []*sequence.Shape
}

func newCatalog(seq *sequence.Sequence) *catalog {
	c := &catalog{
		rfIDs:    make(map[*sequence.Rf]int),
		gradIDs:  make(map[sequence.Gradient]int),
		adcIDs:   make(map[*sequence.Adc]int),
		shapeIDs: make(map[*sequence.Shape]int),
	}
	for _, b := range seq.Blocks {
		c.rf(b.RF)
		c.grad(b.GX)
		c.grad(b.GY)
		c.grad(b.GZ)
		c.adc(b.ADC)
	}
	for _, rf := range c.rfs {
		c.shape(rf.AmpShape)
		c.shape(rf.PhaseShape)
		c.shape(rf.TimeShape)
	}
	for _, g := range c.grads {
		if free, ok := g.(*sequence.FreeGradient); ok {
			c.shape(free.Shape)
			c.shape(free.TimeShape)
		}
	}
	return c
}

func (c *catalog) rf(rf *sequence.Rf) int {
	if rf == nil {
		return 0
	}
	if id, ok := c.rfIDs[rf]; ok {
		return id
	}
	c.rfs = append(c.rfs, rf)
	c.rfIDs[rf] = len(c.rfs)
	return len(c.rfs)
}

func (c *catalog) grad(g sequence.Gradient) int {
	if g == nil {
		return 0
	}
	if id, ok := c.gradIDs[g]; ok {
		return id
	}
	c.grads = append(c.grads, g)
	c.gradIDs[g] = len(c.grads)
	return len(c.grads)
}

func (c *catalog) adc(adc *sequence.Adc) int {
	if adc == nil {
		return 0
	}
	if id, ok := c.adcIDs[adc]; ok {
		return id
	}
	c.adcs = append(c.adcs, adc)
	c.adcIDs[adc] = len(c.adcs)
	return len(c.adcs)
}

func (c *catalog) shape(s *sequence.Shape) int {
	if s == nil {
		return 0
	}
	if id, ok := c.shapeIDs[s]; ok {
		return id
	}
	c.shapes = append(c.shapes, s)
	c.shapeIDs[s] = len(c.shapes)
	return len(c.shapes)
}
