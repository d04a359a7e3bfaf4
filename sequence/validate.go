package sequence

import (
	"math"

	"github.com/wippyai/pulseq/errors"
)

// epsilon absorbs rounding of durations computed from raster counts.
var epsilon = math.Nextafter(1, 2) - 1

type timing struct {
	field string
	value float64
}

// Validate checks every block in file order and stops at the first
// violation. Within a block events are visited rf, gx, gy, gz, adc; each
// event is checked for negative timings, then shape lengths, then whether
// it fits the block.
func (s *Sequence) Validate() error {
	for _, b := range s.Blocks {
		if err := s.validateBlock(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequence) validateBlock(b *Block) error {
	for _, ev := range b.Events() {
		for _, t := range timings(ev.Event) {
			if t.value < 0 {
				return errors.NegativeTiming(ev.Type, b.ID, t.field, t.value)
			}
		}

		if rf, ok := ev.Event.(*Rf); ok {
			if n, m := rf.AmpShape.Len(), rf.PhaseShape.Len(); n != m {
				return errors.ShapeMismatch(ev.Type, b.ID, n, m)
			}
		}

		if dur := ev.Event.Duration(s.TimeRaster); dur > b.Duration+epsilon {
			return errors.EventTooLong(ev.Type, b.ID, dur, b.Duration)
		}
	}
	return nil
}

func timings(ev Event) []timing {
	switch e := ev.(type) {
	case *Rf:
		return []timing{{"delay", e.Delay}}
	case *FreeGradient:
		return []timing{{"delay", e.Delay}}
	case *TrapGradient:
		return []timing{
			{"delay", e.Delay},
			{"rise", e.Rise},
			{"flat", e.Flat},
			{"fall", e.Fall},
		}
	case *Adc:
		return []timing{{"delay", e.Delay}, {"dwell", e.Dwell}}
	}
	return nil
}
