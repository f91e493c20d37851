// Package predict turns raw readings and a timestamp into a DC power
// estimate using the loaded artifacts.
package predict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/pkg/features"
	"github.com/solarcast/solarcast/pkg/log"
	"github.com/solarcast/solarcast/pkg/types"
)

// Stage names the artifact that rejected a vector.
type Stage string

const (
	StageScale Stage = "scale"
	StageModel Stage = "model"
)

// InferenceError means the loaded artifacts could not evaluate a vector. It
// points at an artifact/schema mismatch, not at bad user input.
type InferenceError struct {
	Stage Stage
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed at %s: %v", e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Pipeline is safe for concurrent use; it only reads the artifact set.
type Pipeline struct {
	artifacts *artifact.Set
}

// New returns a Pipeline over a loaded artifact set.
func New(artifacts *artifact.Set) *Pipeline {
	return &Pipeline{artifacts: artifacts}
}

// Infer scales v and runs the model on it.
func (p *Pipeline) Infer(ctx context.Context, v types.FeatureVector) (float64, error) {
	return p.infer(ctx, v.Slice())
}

func (p *Pipeline) infer(ctx context.Context, x []float64) (y float64, err error) {
	stage := StageScale
	defer func() {
		if r := recover(); r != nil {
			err = &InferenceError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	scaled, err := p.artifacts.Scaler().Transform(x)
	if err != nil {
		return 0, &InferenceError{Stage: stage, Err: err}
	}

	stage = StageModel
	y, err = p.artifacts.Model().Predict(scaled)
	if err != nil {
		return 0, &InferenceError{Stage: stage, Err: err}
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &InferenceError{Stage: stage, Err: fmt.Errorf("non-finite prediction %v", y)}
	}
	log.Ctx(ctx).DebugContext(ctx, "inference complete", slog.Any("scaled", scaled), slog.Float64("prediction", y))
	return y, nil
}

// Predict runs the whole pipeline for one request. Failures are returned as
// an error Result, never as a panic.
func (p *Pipeline) Predict(ctx context.Context, in types.RawInput) types.Result {
	v, err := features.FromInput(in)
	if err != nil {
		log.Ctx(ctx).InfoContext(ctx, "rejected timestamp", slog.String("timestamp", in.Timestamp), slog.Any("error", err))
		return resultFromError(err)
	}
	log.Ctx(ctx).DebugContext(ctx, "assembled features", slog.Any("features", v.Named()))

	y, err := p.Infer(ctx, v)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "inference failed",
			slog.Any("error", err),
			slog.Int("features", types.NumFeatures),
		)
		return resultFromError(err)
	}
	return types.OK(y)
}

func resultFromError(err error) types.Result {
	var pe *features.ParseError
	if errors.As(err, &pe) {
		return types.Failure(types.ErrorReasonParse, fmt.Sprintf("Invalid date format. Please use %s", features.TimestampFormat))
	}
	return types.Failure(types.ErrorReasonInference, err.Error())
}
