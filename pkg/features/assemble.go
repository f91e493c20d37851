package features

import "github.com/solarcast/solarcast/pkg/types"

// Assemble builds the feature vector in types.FeatureColumns order. Readings
// are not range checked; negative irradiation passes through as-is.
func Assemble(irradiation, moduleTemperature, ambientTemperature float64, tp types.TimeParts) types.FeatureVector {
	return types.FeatureVector{
		irradiation,
		moduleTemperature,
		ambientTemperature,
		float64(tp.Hour),
		float64(tp.Day),
		float64(tp.Month),
		float64(tp.DayOfWeek),
	}
}

// FromInput decomposes the timestamp of in and assembles its feature vector.
func FromInput(in types.RawInput) (types.FeatureVector, error) {
	tp, err := Decompose(in.Timestamp)
	if err != nil {
		return types.FeatureVector{}, err
	}
	return Assemble(in.IrradiationWM2, in.ModuleTemperatureC, in.AmbientTemperatureC, tp), nil
}
