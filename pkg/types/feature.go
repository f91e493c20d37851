package types

// Column names of the feature vector, in the order the scaler and model were
// fitted on. Reordering these silently produces wrong predictions.
const (
	ColumnIrradiation        = "IRRADIATION"
	ColumnModuleTemperature  = "MODULE_TEMPERATURE"
	ColumnAmbientTemperature = "AMBIENT_TEMPERATURE"
	ColumnHour               = "HOUR"
	ColumnDay                = "DAY"
	ColumnMonth              = "MONTH"
	ColumnDayOfWeek          = "DAY_OF_WEEK"
)

// NumFeatures is the length of every FeatureVector.
const NumFeatures = 7

// FeatureColumns lists the column names in vector order.
var FeatureColumns = [NumFeatures]string{
	ColumnIrradiation,
	ColumnModuleTemperature,
	ColumnAmbientTemperature,
	ColumnHour,
	ColumnDay,
	ColumnMonth,
	ColumnDayOfWeek,
}

// RawInput is a single prediction request as supplied by the user.
type RawInput struct {
	IrradiationWM2      float64 `json:"irradiation"`        // W/m²
	ModuleTemperatureC  float64 `json:"moduleTemperature"`  // °C
	AmbientTemperatureC float64 `json:"ambientTemperature"` // °C
	Timestamp           string  `json:"timestamp"`          // YYYY-MM-DD HH:MM
}

// TimeParts holds the calendar components derived from a timestamp.
type TimeParts struct {
	Hour      int `json:"hour"`      // 0-23
	Day       int `json:"day"`       // 1-31
	Month     int `json:"month"`     // 1-12
	DayOfWeek int `json:"dayOfWeek"` // 0=Monday ... 6=Sunday
}

// FeatureVector is the ordered model input. Index i holds FeatureColumns[i].
type FeatureVector [NumFeatures]float64

// Slice returns a copy of the vector as a slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v[:])
	return out
}

// Named returns the vector keyed by column name, mostly for logging.
func (v FeatureVector) Named() map[string]float64 {
	m := make(map[string]float64, NumFeatures)
	for i, name := range FeatureColumns {
		m[name] = v[i]
	}
	return m
}
