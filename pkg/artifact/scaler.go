package artifact

import (
	"fmt"
	"math"
)

const (
	ScalerKindStandard = "standard"
	ScalerKindMinMax   = "minmax"
)

type scalerDocument struct {
	Kind         string    `json:"kind" yaml:"kind" validate:"required,oneof=standard minmax"`
	FeatureNames []string  `json:"feature_names,omitempty" yaml:"feature_names,omitempty"`
	Mean         []float64 `json:"mean,omitempty" yaml:"mean,omitempty" validate:"required_if=Kind standard"`
	Min          []float64 `json:"min,omitempty" yaml:"min,omitempty" validate:"required_if=Kind minmax"`
	Scale        []float64 `json:"scale" yaml:"scale" validate:"required,min=1"`
}

// affineScaler applies x*mul + add per column. Both standard and min-max
// scaling reduce to this form.
type affineScaler struct {
	kind  string
	names []string
	mul   []float64
	add   []float64
}

// DecodeScaler parses a serialized scaler. name is only used to pick the
// encoding and for error messages.
func DecodeScaler(name string, b []byte) (Scaler, error) {
	var doc scalerDocument
	if err := decodeDocument(name, b, &doc); err != nil {
		return nil, err
	}
	n := len(doc.Scale)
	if doc.FeatureNames != nil && len(doc.FeatureNames) != n {
		return nil, fmt.Errorf("scaler %s: %d feature names for %d columns", name, len(doc.FeatureNames), n)
	}
	for field, vals := range map[string][]float64{"scale": doc.Scale, "mean": doc.Mean, "min": doc.Min} {
		if i := firstNonFinite(vals); i >= 0 {
			return nil, fmt.Errorf("scaler %s: %s[%d] is not finite", name, field, i)
		}
	}

	s := &affineScaler{
		kind:  doc.Kind,
		names: doc.FeatureNames,
		mul:   make([]float64, n),
		add:   make([]float64, n),
	}
	switch doc.Kind {
	case ScalerKindStandard:
		if len(doc.Mean) != n {
			return nil, fmt.Errorf("scaler %s: %d means for %d columns", name, len(doc.Mean), n)
		}
		for i := 0; i < n; i++ {
			scale := doc.Scale[i]
			// constant columns are fitted with a zero variance
			if scale == 0 {
				scale = 1
			}
			s.mul[i] = 1 / scale
			s.add[i] = -doc.Mean[i] / scale
		}
	case ScalerKindMinMax:
		if len(doc.Min) != n {
			return nil, fmt.Errorf("scaler %s: %d mins for %d columns", name, len(doc.Min), n)
		}
		copy(s.mul, doc.Scale)
		copy(s.add, doc.Min)
	}
	return s, nil
}

func (s *affineScaler) Transform(x []float64) ([]float64, error) {
	if err := checkLen(x, len(s.mul)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*s.mul[i] + s.add[i]
	}
	return out, nil
}

func (s *affineScaler) NumFeatures() int {
	return len(s.mul)
}

func (s *affineScaler) FeatureNames() []string {
	if s.names == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *affineScaler) String() string {
	return s.kind
}

// firstNonFinite returns the index of the first NaN or infinite entry, or -1.
func firstNonFinite(vals []float64) int {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
