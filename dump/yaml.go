package dump

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/pulseq/sequence"
)

type document struct {
	Version     string            `yaml:"version"`
	Name        string            `yaml:"name,omitempty"`
	FOV         []float64         `yaml:"fov,flow,omitempty"`
	Raster      raster            `yaml:"raster"`
	Duration    float64           `yaml:"duration"`
	Definitions map[string]string `yaml:"definitions,omitempty"`
	Signature   *signature        `yaml:"signature,omitempty"`
	Blocks      []block           `yaml:"blocks"`
	RFs         []rf              `yaml:"rfs,omitempty"`
	Gradients   []gradient        `yaml:"gradients,omitempty"`
	ADCs        []adc             `yaml:"adcs,omitempty"`
	Shapes      []shape           `yaml:"shapes,omitempty"`
	Extensions  *extensions       `yaml:"extensions,omitempty"`
}

type raster struct {
	Grad  float64 `yaml:"grad"`
	RF    float64 `yaml:"rf"`
	ADC   float64 `yaml:"adc"`
	Block float64 `yaml:"block"`
}

type signature struct {
	Type string `yaml:"type"`
	Hash string `yaml:"hash"`
}

type block struct {
	ID       uint32  `yaml:"id"`
	Duration float64 `yaml:"duration"`
	RF       int     `yaml:"rf,omitempty"`
	GX       int     `yaml:"gx,omitempty"`
	GY       int     `yaml:"gy,omitempty"`
	GZ       int     `yaml:"gz,omitempty"`
	ADC      int     `yaml:"adc,omitempty"`
	Ext      uint32  `yaml:"ext,omitempty"`
}

type rf struct {
	ID         int     `yaml:"id"`
	Amp        float64 `yaml:"amp"`
	Phase      float64 `yaml:"phase"`
	Delay      float64 `yaml:"delay"`
	Freq       float64 `yaml:"freq"`
	AmpShape   int     `yaml:"amp_shape"`
	PhaseShape int     `yaml:"phase_shape"`
	TimeShape  int     `yaml:"time_shape,omitempty"`
}

type gradient struct {
	ID        int     `yaml:"id"`
	Type      string  `yaml:"type"`
	Amp       float64 `yaml:"amp"`
	Delay     float64 `yaml:"delay"`
	Shape     int     `yaml:"shape,omitempty"`
	TimeShape int     `yaml:"time_shape,omitempty"`
	Rise      float64 `yaml:"rise,omitempty"`
	Flat      float64 `yaml:"flat,omitempty"`
	Fall      float64 `yaml:"fall,omitempty"`
}

type adc struct {
	ID    int     `yaml:"id"`
	Num   uint32  `yaml:"num"`
	Dwell float64 `yaml:"dwell"`
	Delay float64 `yaml:"delay"`
	Freq  float64 `yaml:"freq"`
	Phase float64 `yaml:"phase"`
}

type shape struct {
	ID      int `yaml:"id"`
	Samples int `yaml:"samples"`
}

type extensions struct {
	Refs  []extensionRef  `yaml:"refs,omitempty"`
	Specs []extensionSpec `yaml:"specs,omitempty"`
}

type extensionRef struct {
	ID     uint32 `yaml:"id"`
	SpecID uint32 `yaml:"spec_id"`
	ObjID  uint32 `yaml:"obj_id"`
	Next   uint32 `yaml:"next,omitempty"`
}

type extensionSpec struct {
	ID      uint32            `yaml:"id"`
	Name    string            `yaml:"name"`
	Objects map[uint32]string `yaml:"objects"`
}

// YAML writes seq as a YAML document. Events and shapes are numbered the
// same way as in Text; values are in SI units.
func YAML(w io.Writer, seq *sequence.Sequence) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(seq)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func newDocument(seq *sequence.Sequence) *document {
	c := newCatalog(seq)
	v := seq.Version

	doc := &document{
		Version: fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision),
		Raster: raster{
			Grad:  seq.TimeRaster.Grad,
			RF:    seq.TimeRaster.RF,
			ADC:   seq.TimeRaster.ADC,
			Block: seq.TimeRaster.Block,
		},
		Duration:    seq.Duration(),
		Definitions: seq.Definitions,
		Blocks:      make([]block, 0, len(seq.Blocks)),
	}
	if seq.Name != nil {
		doc.Name = *seq.Name
	}
	if seq.FOV != nil {
		doc.FOV = []float64{seq.FOV.X, seq.FOV.Y, seq.FOV.Z}
	}
	if seq.Signature != nil {
		doc.Signature = &signature{Type: seq.Signature.Type, Hash: seq.Signature.Hash}
	}

	for _, b := range seq.Blocks {
		doc.Blocks = append(doc.Blocks, block{
			ID:       b.ID,
			Duration: b.Duration,
			RF:       c.rf(b.RF),
			GX:       c.grad(b.GX),
			GY:       c.grad(b.GY),
			GZ:       c.grad(b.GZ),
			ADC:      c.adc(b.ADC),
			Ext:      b.Ext,
		})
	}
	for i, r := range c.rfs {
		doc.RFs = append(doc.RFs, rf{
			ID:         i + 1,
			Amp:        r.Amp,
			Phase:      r.Phase,
			Delay:      r.Delay,
			Freq:       r.Freq,
			AmpShape:   c.shape(r.AmpShape),
			PhaseShape: c.shape(r.PhaseShape),
			TimeShape:  c.shape(r.TimeShape),
		})
	}
	for i, g := range c.grads {
		out := gradient{ID: i + 1, Amp: g.Amplitude()}
		switch g := g.(type) {
		case *sequence.FreeGradient:
			out.Type = "free"
			out.Delay = g.Delay
			out.Shape = c.shape(g.Shape)
			out.TimeShape = c.shape(g.TimeShape)
		case *sequence.TrapGradient:
			out.Type = "trap"
			out.Delay = g.Delay
			out.Rise = g.Rise
			out.Flat = g.Flat
			out.Fall = g.Fall
		}
		doc.Gradients = append(doc.Gradients, out)
	}
	for i, a := range c.adcs {
		doc.ADCs = append(doc.ADCs, adc{
			ID:    i + 1,
			Num:   a.Num,
			Dwell: a.Dwell,
			Delay: a.Delay,
			Freq:  a.Freq,
			Phase: a.Phase,
		})
	}
	for i, s := range c.shapes {
		doc.Shapes = append(doc.Shapes, shape{ID: i + 1, Samples: s.Len()})
	}

	if ext := seq.Extensions; ext != nil {
		doc.Extensions = &extensions{}
		for _, r := range ext.Refs {
			doc.Extensions.Refs = append(doc.Extensions.Refs, extensionRef(r))
		}
		for _, spec := range ext.Specs {
			objects := make(map[uint32]string, len(spec.Instances))
			for _, o := range spec.Instances {
				objects[o.ID] = o.Data
			}
			doc.Extensions.Specs = append(doc.Extensions.Specs, extensionSpec{
				ID:      spec.ID,
				Name:    spec.Name,
				Objects: objects,
			})
		}
	}
	return doc
}
