package sequence

import (
	"math"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/section"
)

// resolver turns id references into shared pointers. Events are built once
// and every block referencing the same id receives the same object.
type resolver struct {
	shapes *ShapeStore
	rfs    map[uint32]*Rf
	grads  map[uint32]Gradient
	adcs   map[uint32]*Adc
	delays map[uint32]float64
	raster TimeRaster
}

func newResolver(shapes *ShapeStore, raster TimeRaster) *resolver {
	return &resolver{
		shapes: shapes,
		raster: raster,
		rfs:    make(map[uint32]*Rf),
		grads:  make(map[uint32]Gradient),
		adcs:   make(map[uint32]*Adc),
		delays: make(map[uint32]float64),
	}
}

// events resolves every declared event. Shapes must be available first.
func (r *resolver) events(s *sections) error {
	for _, raw := range s.rfs {
		rf, err := r.rf(raw)
		if err != nil {
			return err
		}
		r.rfs[raw.ID] = rf
	}

	for _, raw := range s.gradients {
		g, err := r.freeGradient(raw)
		if err != nil {
			return err
		}
		r.grads[raw.ID] = g
	}
	for _, raw := range s.traps {
		if _, taken := r.grads[raw.ID]; taken {
			return errors.GradTrapIDReuse(raw.ID)
		}
		r.grads[raw.ID] = &TrapGradient{
			Amp:   raw.Amp,
			Rise:  raw.Rise,
			Flat:  raw.Flat,
			Fall:  raw.Fall,
			Delay: raw.Delay,
		}
	}

	for _, raw := range s.adcs {
		r.adcs[raw.ID] = &Adc{
			Num:   raw.Num,
			Dwell: raw.Dwell,
			Delay: raw.Delay,
			Freq:  raw.Freq,
			Phase: raw.Phase,
		}
	}

	for _, raw := range s.delays {
		r.delays[raw.ID] = raw.Delay
	}
	return nil
}

func (r *resolver) rf(raw section.Rf) (*Rf, error) {
	amp, err := r.shapes.Get(raw.MagID, raw.TimeID)
	if err != nil {
		return nil, err
	}
	phase, err := r.shapes.Get(raw.PhaseID, raw.TimeID)
	if err != nil {
		return nil, err
	}
	time, err := r.shapes.Time(raw.TimeID)
	if err != nil {
		return nil, err
	}
	return &Rf{
		AmpShape:   amp,
		PhaseShape: phase,
		TimeShape:  time,
		Amp:        raw.Amp,
		Phase:      raw.Phase,
		Delay:      raw.Delay,
		Freq:       raw.Freq,
	}, nil
}

func (r *resolver) freeGradient(raw section.Gradient) (*FreeGradient, error) {
	shape, err := r.shapes.Get(raw.ShapeID, raw.TimeID)
	if err != nil {
		return nil, err
	}
	time, err := r.shapes.Time(raw.TimeID)
	if err != nil {
		return nil, err
	}
	return &FreeGradient{
		Shape:     shape,
		TimeShape: time,
		Amp:       raw.Amp,
		Delay:     raw.Delay,
	}, nil
}

// block links a raw block to its events and computes its duration.
func (r *resolver) block(raw section.Block) (*Block, error) {
	b := &Block{ID: raw.ID, Ext: raw.Ext}

	if raw.RF != 0 {
		rf, ok := r.rfs[raw.RF]
		if !ok {
			return nil, brokenRef(errors.EventRF, raw.RF, raw.ID)
		}
		b.RF = rf
	}

	slots := []struct {
		ev  errors.EventType
		id  uint32
		dst *Gradient
	}{
		{errors.EventGX, raw.GX, &b.GX},
		{errors.EventGY, raw.GY, &b.GY},
		{errors.EventGZ, raw.GZ, &b.GZ},
	}
	for _, s := range slots {
		if s.id == 0 {
			continue
		}
		g, ok := r.grads[s.id]
		if !ok {
			return nil, brokenRef(s.ev, s.id, raw.ID)
		}
		*s.dst = g
	}

	if raw.ADC != 0 {
		adc, ok := r.adcs[raw.ADC]
		if !ok {
			return nil, brokenRef(errors.EventADC, raw.ADC, raw.ID)
		}
		b.ADC = adc
	}

	switch raw.Dur.Kind {
	case section.DurationUnits:
		b.Duration = float64(raw.Dur.Value) * r.raster.Block
	case section.DurationDelayRef:
		var dur float64
		if raw.Dur.Value != 0 {
			delay, ok := r.delays[raw.Dur.Value]
			if !ok {
				return nil, brokenRef(errors.EventDelay, raw.Dur.Value, raw.ID)
			}
			dur = delay
		}
		for _, ev := range b.Events() {
			dur = math.Max(dur, ev.Event.Duration(r.raster))
		}
		b.Duration = dur
	}

	return b, nil
}

func brokenRef(ev errors.EventType, id, blockID uint32) *errors.Error {
	err := errors.BrokenRef(ev, id)
	err.BlockID = blockID
	return err
}
