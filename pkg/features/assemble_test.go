package features

import (
	"testing"

	"github.com/solarcast/solarcast/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	tp := types.TimeParts{Hour: 14, Day: 18, Month: 7, DayOfWeek: 4}

	v := Assemble(500, 25, 20, tp)
	assert.Equal(t, types.FeatureVector{500, 25, 20, 14, 18, 7, 4}, v)

	// same inputs always give the same order
	assert.Equal(t, v, Assemble(500, 25, 20, tp))

	t.Run("no plausibility checks", func(t *testing.T) {
		v := Assemble(-100, -40, 85, types.TimeParts{Day: 1, Month: 1})
		assert.Equal(t, types.FeatureVector{-100, -40, 85, 0, 1, 1, 0}, v)
	})
}

func TestFromInput(t *testing.T) {
	v, err := FromInput(types.RawInput{
		IrradiationWM2:      500,
		ModuleTemperatureC:  25,
		AmbientTemperatureC: 20,
		Timestamp:           "2025-07-18 14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, types.FeatureVector{500, 25, 20, 14, 18, 7, 4}, v)

	_, err = FromInput(types.RawInput{Timestamp: "2025-13-01 10:00"})
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
