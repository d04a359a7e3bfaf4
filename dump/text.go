package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/pulseq/sequence"
)

// Text writes a human readable listing of seq: metadata, the block table
// and one table per event kind. Events shared by several blocks are listed
// once and referenced by number.
func Text(w io.Writer, seq *sequence.Sequence) error {
	bw := bufio.NewWriter(w)
	c := newCatalog(seq)

	heading(bw, "METADATA")
	writeMetadata(bw, seq)

	heading(bw, "\nBLOCKS")
	fmt.Fprintln(bw, "#  ID   RF ( GX,  GY,  GZ) ADC | duration")
	for _, b := range seq.Blocks {
		fmt.Fprintf(bw, "[%4d] %s (%s, %s, %s) %s | %8.3f ms\n",
			b.ID,
			ref(c.rf(b.RF)),
			ref(c.grad(b.GX)),
			ref(c.grad(b.GY)),
			ref(c.grad(b.GZ)),
			ref(c.adc(b.ADC)),
			b.Duration*1e3)
	}

	heading(bw, "\n\nRFS")
	fmt.Fprintln(bw, "#  ID       amp { ID}    phase { ID}    delay     freq { TIME_ID}")
	fmt.Fprintln(bw, "#          [Hz]          [rad]     [ms]    [kHz]")
	for i, rf := range c.rfs {
		fmt.Fprintf(bw, "[%4d] %8.3f {%s} %8.3f {%s} %8.3f %8.3f {%s}\n",
			i+1,
			rf.Amp,
			ref(c.shape(rf.AmpShape)),
			rf.Phase,
			ref(c.shape(rf.PhaseShape)),
			rf.Delay*1e3,
			rf.Freq/1e3,
			ref(c.shape(rf.TimeShape)))
	}

	heading(bw, "\n\nGRADIENTS")
	fmt.Fprintln(bw, "#  ID  F    delay      amp { ID} { TIME_ID}")
	fmt.Fprintln(bw, "#  ID  T    delay      amp (    rise,     flat,     fall)")
	fmt.Fprintln(bw, "#            [ms]  [kHz/m] (    [ms],     [ms],     [ms])")
	for i, g := range c.grads {
		switch g := g.(type) {
		case *sequence.FreeGradient:
			fmt.Fprintf(bw, "[%4d] F %8.3f %8.3f {%s} {%s}\n",
				i+1,
				g.Delay*1e3,
				g.Amp/1e3,
				ref(c.shape(g.Shape)),
				ref(c.shape(g.TimeShape)))
		case *sequence.TrapGradient:
			fmt.Fprintf(bw, "[%4d] T %8.3f %8.3f (%8.3f, %8.3f, %8.3f)\n",
				i+1,
				g.Delay*1e3,
				g.Amp/1e3,
				g.Rise*1e3,
				g.Flat*1e3,
				g.Fall*1e3)
		}
	}

	heading(bw, "\n\nADCS")
	fmt.Fprintln(bw, "#  ID   num    dwell    delay     freq    phase")
	fmt.Fprintln(bw, "#               [us]     [ms]     [Hz]    [rad]")
	for i, adc := range c.adcs {
		fmt.Fprintf(bw, "[%4d] %4d %8.3f %8.3f %8.3f %8.3f\n",
			i+1,
			adc.Num,
			adc.Dwell*1e6,
			adc.Delay*1e3,
			adc.Freq,
			adc.Phase)
	}

	heading(bw, "\n\nSHAPES")
	fmt.Fprintln(bw, "#  ID     num")
	for i, s := range c.shapes {
		fmt.Fprintf(bw, "[%4d] %6d\n", i+1, s.Len())
	}

	return bw.Flush()
}

func heading(w io.Writer, title string) {
	name := strings.TrimLeft(title, "\n")
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(name)))
}

func writeMetadata(w io.Writer, seq *sequence.Sequence) {
	v := seq.Version
	version := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
	if v.RevSuppl != "" {
		version += "." + v.RevSuppl
	}
	fmt.Fprintf(w, "version:      %s\n", version)

	if seq.Name != nil {
		fmt.Fprintf(w, "name:         '%s'\n", *seq.Name)
	} else {
		fmt.Fprintln(w, "name:         ?")
	}
	if seq.FOV != nil {
		fmt.Fprintf(w, "fov:          (%g, %g, %g)\n", seq.FOV.X, seq.FOV.Y, seq.FOV.Z)
	} else {
		fmt.Fprintln(w, "fov:          ?")
	}
	fmt.Fprintf(w, "grad_raster:  %g\n", seq.TimeRaster.Grad)
	fmt.Fprintf(w, "rf_raster:    %g\n", seq.TimeRaster.RF)
	fmt.Fprintf(w, "adc_raster:   %g\n", seq.TimeRaster.ADC)
	fmt.Fprintf(w, "block_raster: %g\n", seq.TimeRaster.Block)
	fmt.Fprintf(w, "duration:     %g s\n", seq.Duration())
}

// ref formats a catalog number, with "-" for an empty slot.
func ref(id int) string {
	if id == 0 {
		return "  -"
	}
	return fmt.Sprintf("%3d", id)
}
