// Package artifact holds the fitted scaler and regression model that the
// prediction pipeline applies. Both are produced by an offline training
// process; this package only decodes and evaluates them.
package artifact

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when a vector's length differs from what an
// artifact was fitted on.
var ErrShapeMismatch = errors.New("feature count mismatch")

// Scaler normalizes a feature vector using statistics learned at fit time.
type Scaler interface {
	// Transform returns a new scaled vector. The input is never modified.
	Transform(x []float64) ([]float64, error)
	// NumFeatures is the vector length the scaler was fitted on.
	NumFeatures() int
	// FeatureNames returns the fit-time column order, or nil if unknown.
	FeatureNames() []string
}

// Model maps a scaled feature vector to a scalar prediction.
type Model interface {
	Predict(x []float64) (float64, error)
	NumFeatures() int
}

// Set is the immutable pair of artifacts shared by every prediction.
type Set struct {
	scaler     Scaler
	model      Model
	scalerName string
	modelName  string
}

// NewSet wraps an already decoded scaler and model.
func NewSet(scaler Scaler, model Model) *Set {
	return &Set{scaler: scaler, model: model}
}

func (s *Set) Scaler() Scaler {
	return s.scaler
}

func (s *Set) Model() Model {
	return s.model
}

// String describes the set for logs.
func (s *Set) String() string {
	return fmt.Sprintf("scaler=%s(%d) model=%s(%d)", s.scalerName, s.scaler.NumFeatures(), s.modelName, s.model.NumFeatures())
}

func checkLen(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("%w: got %d features, expected %d", ErrShapeMismatch, len(x), want)
	}
	return nil
}
