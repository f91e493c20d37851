package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/levenlabs/go-lflag"
	"github.com/solarcast/solarcast/pkg/log"
	"github.com/solarcast/solarcast/pkg/storage"
	"github.com/solarcast/solarcast/pkg/types"
)

// Configured registers the artifact location flags and loads both artifacts
// from p once flags are parsed. Any load failure panics so the process never
// starts with a partial set.
func Configured(p storage.Provider) *Set {
	modelName := lflag.String("artifact-model", "solar_power_generation_forecasting_model.json", "Name of the serialized regression model in storage")
	scalerName := lflag.String("artifact-scaler", "scaler.json", "Name of the serialized feature scaler in storage")

	set := &Set{}

	lflag.Do(func() {
		ctx := context.Background()
		loaded, err := Load(ctx, p, *modelName, *scalerName)
		if err != nil {
			panic(fmt.Sprintf("artifact load failed: %v", err))
		}
		*set = *loaded
		log.Ctx(ctx).InfoContext(ctx, "artifacts loaded", slog.String("artifacts", set.String()))
	})

	return set
}

// Load fetches, decodes and checks the model and scaler. It returns either a
// complete Set or an error, never a partially initialized Set.
func Load(ctx context.Context, p storage.Provider, modelName, scalerName string) (*Set, error) {
	scalerBytes, err := p.Get(ctx, scalerName)
	if err != nil {
		return nil, fmt.Errorf("failed to get scaler: %w", err)
	}
	scaler, err := DecodeScaler(scalerName, scalerBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode scaler: %w", err)
	}

	modelBytes, err := p.Get(ctx, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	model, err := DecodeModel(modelName, modelBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	set := &Set{
		scaler:     scaler,
		model:      model,
		scalerName: scalerName,
		modelName:  modelName,
	}
	if err := set.SelfCheck(); err != nil {
		return nil, err
	}
	return set, nil
}

// SelfCheck verifies that both artifacts accept the feature vector this
// program assembles and that the scaler's fit-time column order matches
// types.FeatureColumns when the scaler records it.
func (s *Set) SelfCheck() error {
	if n := s.scaler.NumFeatures(); n != types.NumFeatures {
		return fmt.Errorf("%w: scaler expects %d features, vector has %d", ErrShapeMismatch, n, types.NumFeatures)
	}
	if n := s.model.NumFeatures(); n != types.NumFeatures {
		return fmt.Errorf("%w: model expects %d features, vector has %d", ErrShapeMismatch, n, types.NumFeatures)
	}
	if names := s.scaler.FeatureNames(); names != nil {
		for i, name := range names {
			if name != types.FeatureColumns[i] {
				return fmt.Errorf("scaler column %d is %s, expected %s", i, name, types.FeatureColumns[i])
			}
		}
	}

	// run a zero vector through both so a broken artifact fails now rather
	// than on the first request
	var probe types.FeatureVector
	scaled, err := s.scaler.Transform(probe.Slice())
	if err != nil {
		return fmt.Errorf("scaler probe failed: %w", err)
	}
	y, err := s.model.Predict(scaled)
	if err != nil {
		return fmt.Errorf("model probe failed: %w", err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("model probe returned %v", y)
	}
	return nil
}
