package sequence

import (
	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/section"
)

// Raster times applied when a pre-1.4 file does not define them. They are
// the values used by the reference exporter and scanner interpreter;
// without them shape based durations would be undefined.
const (
	DefaultGradRaster  = 10e-6
	DefaultRFRaster    = 1e-6
	DefaultADCRaster   = 0.1e-6
	DefaultBlockRaster = 10e-6
)

// TimeRaster holds the time quantum of each event type in seconds.
type TimeRaster struct {
	Grad  float64
	RF    float64
	ADC   float64
	Block float64
}

// DefaultTimeRaster returns the pre-1.4 defaults.
func DefaultTimeRaster() TimeRaster {
	return TimeRaster{
		Grad:  DefaultGradRaster,
		RF:    DefaultRFRaster,
		ADC:   DefaultADCRaster,
		Block: DefaultBlockRaster,
	}
}

// FOV is the field of view in meters.
type FOV struct {
	X, Y, Z float64
}

// Sequence is a fully resolved Pulseq file. Blocks are kept in file order;
// they are executed top to bottom and never referenced by id.
type Sequence struct {
	Name        *string
	FOV         *FOV
	Definitions map[string]string
	Signature   *section.Signature
	Extensions  *section.Extensions
	Blocks      []*Block
	Version     section.Version
	TimeRaster  TimeRaster
}

// Duration returns the sum of all block durations in seconds.
func (s *Sequence) Duration() float64 {
	var total float64
	for _, b := range s.Blocks {
		total += b.Duration
	}
	return total
}

// Block is one time slot. Events are shared between blocks that reference
// the same id in the file. Ext is the untouched extension id.
type Block struct {
	RF       *Rf
	GX       Gradient
	GY       Gradient
	GZ       Gradient
	ADC      *Adc
	Duration float64
	ID       uint32
	Ext      uint32
}

// Event is anything that can be placed in a block.
type Event interface {
	Duration(raster TimeRaster) float64
}

// BlockEvent is a present event together with the slot it occupies.
type BlockEvent struct {
	Event Event
	Type  errors.EventType
}

// Events returns the present events of the block in slot order
// rf, gx, gy, gz, adc.
func (b *Block) Events() []BlockEvent {
	events := make([]BlockEvent, 0, 5)
	if b.RF != nil {
		events = append(events, BlockEvent{Event: b.RF, Type: errors.EventRF})
	}
	if b.GX != nil {
		events = append(events, BlockEvent{Event: b.GX, Type: errors.EventGX})
	}
	if b.GY != nil {
		events = append(events, BlockEvent{Event: b.GY, Type: errors.EventGY})
	}
	if b.GZ != nil {
		events = append(events, BlockEvent{Event: b.GZ, Type: errors.EventGZ})
	}
	if b.ADC != nil {
		events = append(events, BlockEvent{Event: b.ADC, Type: errors.EventADC})
	}
	return events
}

// Shape is a decompressed (and, with a time shape, expanded) sample array.
type Shape struct {
	Samples []float64
}

// Len returns the number of samples; a nil shape has none.
func (s *Shape) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Samples)
}

// rasterCount is the number of raster intervals an event with this shape
// lasts: the last time boundary when a time shape is attached, else the
// sample count.
func rasterCount(shape, time *Shape) float64 {
	if time != nil {
		if n := len(time.Samples); n > 0 {
			return time.Samples[n-1]
		}
		return 0
	}
	return float64(shape.Len())
}

type Rf struct {
	AmpShape   *Shape
	PhaseShape *Shape
	// TimeShape is nil unless the pulse uses non-uniform sampling; the amp
	// and phase shapes are then already expanded onto the raster.
	TimeShape *Shape
	// Hz
	Amp float64
	// rad
	Phase float64
	// s
	Delay float64
	// Hz
	Freq float64
}

// Duration returns delay plus the shape length on the RF raster.
func (rf *Rf) Duration(raster TimeRaster) float64 {
	return rf.Delay + rasterCount(rf.AmpShape, rf.TimeShape)*raster.RF
}

// Gradient is either a *FreeGradient or a *TrapGradient.
type Gradient interface {
	Event
	Amplitude() float64
	gradient()
}

// FreeGradient is an arbitrary gradient waveform.
type FreeGradient struct {
	Shape     *Shape
	TimeShape *Shape
	// Hz/m
	Amp float64
	// s
	Delay float64
}

func (g *FreeGradient) Duration(raster TimeRaster) float64 {
	return g.Delay + rasterCount(g.Shape, g.TimeShape)*raster.Grad
}

func (g *FreeGradient) Amplitude() float64 { return g.Amp }
func (*FreeGradient) gradient()            {}

// TrapGradient is a trapezoid; all timings in seconds.
type TrapGradient struct {
	// Hz/m
	Amp   float64
	Rise  float64
	Flat  float64
	Fall  float64
	Delay float64
}

func (g *TrapGradient) Duration(TimeRaster) float64 {
	return g.Delay + g.Rise + g.Flat + g.Fall
}

func (g *TrapGradient) Amplitude() float64 { return g.Amp }
func (*TrapGradient) gradient()            {}

type Adc struct {
	Num uint32
	// s
	Dwell float64
	// s
	Delay float64
	// Hz
	Freq float64
	// rad
	Phase float64
}

func (a *Adc) Duration(TimeRaster) float64 {
	return a.Delay + float64(a.Num)*a.Dwell
}
