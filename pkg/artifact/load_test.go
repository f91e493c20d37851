package artifact

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/solarcast/solarcast/pkg/storage"
	"github.com/solarcast/solarcast/pkg/storage/storagemock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return b
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("file provider", func(t *testing.T) {
		set, err := Load(ctx, storage.NewFileProvider("testdata"), "model.json", "scaler.json")
		require.NoError(t, err)
		require.NotNil(t, set)
		assert.Equal(t, 7, set.Scaler().NumFeatures())
		assert.Equal(t, 7, set.Model().NumFeatures())
		assert.Equal(t, "scaler=scaler.json(7) model=model.json(7)", set.String())
	})

	t.Run("yaml artifacts", func(t *testing.T) {
		set, err := Load(ctx, storage.NewFileProvider("testdata"), "linear.yaml", "scaler.yaml")
		require.NoError(t, err)
		assert.NotNil(t, set)
	})

	t.Run("missing scaler", func(t *testing.T) {
		set, err := Load(ctx, storage.NewFileProvider("testdata"), "model.json", "nope.json")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, set)
	})

	t.Run("missing model", func(t *testing.T) {
		set, err := Load(ctx, storage.NewFileProvider("testdata"), "nope.json", "scaler.json")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Nil(t, set)
	})

	t.Run("corrupt model", func(t *testing.T) {
		p := &storagemock.MockProvider{}
		p.On("Get", mock.Anything, "scaler.json").Return(readTestdata(t, "scaler.json"), nil)
		p.On("Get", mock.Anything, "model.json").Return([]byte("\x80\x04\x95pickle"), nil)

		set, err := Load(ctx, p, "model.json", "scaler.json")
		assert.ErrorContains(t, err, "failed to decode model")
		assert.Nil(t, set)
		p.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		p := &storagemock.MockProvider{}
		p.On("Get", mock.Anything, "scaler.json").Return(nil, errors.New("unavailable"))

		_, err := Load(ctx, p, "model.json", "scaler.json")
		assert.ErrorContains(t, err, "unavailable")
		p.AssertNotCalled(t, "Get", mock.Anything, "model.json")
	})

	t.Run("feature count mismatch", func(t *testing.T) {
		p := &storagemock.MockProvider{}
		p.On("Get", mock.Anything, "scaler.json").Return(readTestdata(t, "scaler.json"), nil)
		p.On("Get", mock.Anything, "model.json").Return([]byte(`{"kind":"linear","n_features":6,"coef":[1,1,1,1,1,1]}`), nil)

		_, err := Load(ctx, p, "model.json", "scaler.json")
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("nan mean fails at startup", func(t *testing.T) {
		p := &storagemock.MockProvider{}
		p.On("Get", mock.Anything, "scaler.yaml").Return([]byte(`kind: standard
mean: [.nan, 25, 20, 12, 15, 6, 3]
scale: [250, 10, 5, 6, 8, 3, 2]
`), nil)

		set, err := Load(ctx, p, "model.json", "scaler.yaml")
		assert.ErrorContains(t, err, "mean[0] is not finite")
		assert.Nil(t, set)
		p.AssertNotCalled(t, "Get", mock.Anything, "model.json")
	})

	t.Run("column order mismatch", func(t *testing.T) {
		p := &storagemock.MockProvider{}
		p.On("Get", mock.Anything, "scaler.json").Return([]byte(`{
			"kind": "standard",
			"feature_names": ["MODULE_TEMPERATURE", "IRRADIATION", "AMBIENT_TEMPERATURE", "HOUR", "DAY", "MONTH", "DAY_OF_WEEK"],
			"mean": [0, 0, 0, 0, 0, 0, 0],
			"scale": [1, 1, 1, 1, 1, 1, 1]
		}`), nil)
		p.On("Get", mock.Anything, "model.json").Return(readTestdata(t, "model.json"), nil)

		_, err := Load(ctx, p, "model.json", "scaler.json")
		assert.ErrorContains(t, err, "scaler column 0 is MODULE_TEMPERATURE")
	})
}

type nanModel struct{}

func (nanModel) Predict(x []float64) (float64, error) {
	return 0 / zero, nil
}

func (nanModel) NumFeatures() int {
	return 7
}

var zero float64

func TestSelfCheckNonFinite(t *testing.T) {
	scaler, err := DecodeScaler("scaler.json", readTestdata(t, "scaler.json"))
	require.NoError(t, err)

	err = NewSet(scaler, nanModel{}).SelfCheck()
	assert.ErrorContains(t, err, "model probe returned NaN")
}
