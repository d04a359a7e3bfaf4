package sequence

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/pulseq/errors"
	"github.com/wippyai/pulseq/section"
)

const (
	defName = "Name"
	defFOV  = "FOV"
)

// metadata is the typed view of a [DEFINITIONS] section.
type metadata struct {
	name   *string
	fov    *FOV
	raster TimeRaster
	rest   map[string]string
}

// normalizeDefinitions extracts the well-known keys and keeps everything
// else verbatim. Raster times are mandatory from 1.4 on and defaulted before.
func normalizeDefinitions(version section.Version, defs section.Definitions) (*metadata, error) {
	rest := make(map[string]string, len(defs))
	for _, d := range defs {
		if _, dup := rest[d.Key]; dup {
			return nil, errors.NonUniqueDefinition(d.Key)
		}
		rest[d.Key] = d.Value
	}

	md := &metadata{rest: rest}
	mandatory := version.Minor >= 4

	rasters := []struct {
		key      string
		dst      *float64
		fallback float64
	}{
		{errors.DefGradientRaster, &md.raster.Grad, DefaultGradRaster},
		{errors.DefRFRaster, &md.raster.RF, DefaultRFRaster},
		{errors.DefADCRaster, &md.raster.ADC, DefaultADCRaster},
		{errors.DefBlockRaster, &md.raster.Block, DefaultBlockRaster},
	}
	for _, r := range rasters {
		value, ok := rest[r.key]
		if !ok {
			if mandatory {
				return nil, errors.MissingDefinition(r.key)
			}
			*r.dst = r.fallback
			continue
		}
		f, err := parseDefinitionFloat(r.key, value)
		if err != nil {
			return nil, err
		}
		*r.dst = f
		delete(rest, r.key)
	}

	if value, ok := rest[defFOV]; ok {
		fields := strings.Fields(value)
		if len(fields) != 3 {
			return nil, errors.WrongValueCount(defFOV, len(fields), 3)
		}
		var xyz [3]float64
		for i, f := range fields {
			v, err := parseDefinitionFloat(defFOV, f)
			if err != nil {
				return nil, err
			}
			xyz[i] = v
		}
		md.fov = &FOV{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		delete(rest, defFOV)
	}

	if value, ok := rest[defName]; ok {
		name := value
		md.name = &name
		delete(rest, defName)
	}

	return md, nil
}

func parseDefinitionFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errors.ParseFloat(0, key, value, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errors.ParseFloat(0, key, value, nil)
	}
	return f, nil
}
