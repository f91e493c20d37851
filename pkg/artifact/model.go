package artifact

import (
	"fmt"
	"math"
)

const (
	ModelKindForest = "forest"
	ModelKindLinear = "linear"
)

type treeDocument struct {
	ChildrenLeft  []int     `json:"children_left" yaml:"children_left" validate:"required,min=1"`
	ChildrenRight []int     `json:"children_right" yaml:"children_right" validate:"required,min=1"`
	Feature       []int     `json:"feature" yaml:"feature" validate:"required,min=1"`
	Threshold     []float64 `json:"threshold" yaml:"threshold" validate:"required,min=1"`
	Value         []float64 `json:"value" yaml:"value" validate:"required,min=1"`
}

type modelDocument struct {
	Kind      string         `json:"kind" yaml:"kind" validate:"required,oneof=forest linear"`
	NFeatures int            `json:"n_features" yaml:"n_features" validate:"required,gte=1"`
	Trees     []treeDocument `json:"trees,omitempty" yaml:"trees,omitempty" validate:"required_if=Kind forest,dive"`
	Coef      []float64      `json:"coef,omitempty" yaml:"coef,omitempty" validate:"required_if=Kind linear"`
	Intercept float64        `json:"intercept,omitempty" yaml:"intercept,omitempty"`
}

// DecodeModel parses a serialized regression model. Every structural
// problem is reported here so a loaded model can only fail on input shape.
func DecodeModel(name string, b []byte) (Model, error) {
	var doc modelDocument
	if err := decodeDocument(name, b, &doc); err != nil {
		return nil, err
	}
	switch doc.Kind {
	case ModelKindForest:
		f := &forest{nFeatures: doc.NFeatures, trees: make([]tree, 0, len(doc.Trees))}
		for i, td := range doc.Trees {
			t, err := newTree(td, doc.NFeatures)
			if err != nil {
				return nil, fmt.Errorf("model %s: tree %d: %w", name, i, err)
			}
			f.trees = append(f.trees, t)
		}
		return f, nil
	case ModelKindLinear:
		if len(doc.Coef) != doc.NFeatures {
			return nil, fmt.Errorf("model %s: %d coefficients for %d features", name, len(doc.Coef), doc.NFeatures)
		}
		if i := firstNonFinite(append([]float64{doc.Intercept}, doc.Coef...)); i >= 0 {
			return nil, fmt.Errorf("model %s: coefficients are not finite", name)
		}
		return &linear{coef: doc.Coef, intercept: doc.Intercept}, nil
	}
	return nil, fmt.Errorf("model %s: unknown kind %s", name, doc.Kind)
}

// forest averages the output of its trees, like a random forest regressor.
type forest struct {
	nFeatures int
	trees     []tree
}

func (f *forest) Predict(x []float64) (float64, error) {
	if err := checkLen(x, f.nFeatures); err != nil {
		return 0, err
	}
	var sum float64
	for i := range f.trees {
		sum += f.trees[i].eval(x)
	}
	return sum / float64(len(f.trees)), nil
}

func (f *forest) NumFeatures() int {
	return f.nFeatures
}

func (f *forest) String() string {
	return fmt.Sprintf("forest[%d]", len(f.trees))
}

// tree is a binary regression tree in flat array form. Node 0 is the root and
// a node is a leaf when its left child is -1.
type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	value     []float64
}

const leaf = -1

func newTree(td treeDocument, nFeatures int) (tree, error) {
	n := len(td.ChildrenLeft)
	if len(td.ChildrenRight) != n || len(td.Feature) != n || len(td.Threshold) != n || len(td.Value) != n {
		return tree{}, fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := td.ChildrenLeft[i], td.ChildrenRight[i]
		if l == leaf {
			if r != leaf {
				return tree{}, fmt.Errorf("node %d has only a right child", i)
			}
			if v := td.Value[i]; math.IsNaN(v) || math.IsInf(v, 0) {
				return tree{}, fmt.Errorf("leaf %d value is not finite", i)
			}
			continue
		}
		// a NaN threshold sends every input right
		if th := td.Threshold[i]; math.IsNaN(th) || math.IsInf(th, 0) {
			return tree{}, fmt.Errorf("node %d threshold is not finite", i)
		}
		// children always come after their parent, so evaluation terminates
		if l <= i || l >= n || r <= i || r >= n {
			return tree{}, fmt.Errorf("node %d has invalid children %d, %d", i, l, r)
		}
		if f := td.Feature[i]; f < 0 || f >= nFeatures {
			return tree{}, fmt.Errorf("node %d splits on feature %d of %d", i, f, nFeatures)
		}
	}
	return tree{
		left:      td.ChildrenLeft,
		right:     td.ChildrenRight,
		feature:   td.Feature,
		threshold: td.Threshold,
		value:     td.Value,
	}, nil
}

func (t *tree) eval(x []float64) float64 {
	node := 0
	for t.left[node] != leaf {
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.value[node]
}

type linear struct {
	coef      []float64
	intercept float64
}

func (l *linear) Predict(x []float64) (float64, error) {
	if err := checkLen(x, len(l.coef)); err != nil {
		return 0, err
	}
	y := l.intercept
	for i, c := range l.coef {
		y += c * x[i]
	}
	return y, nil
}

func (l *linear) NumFeatures() int {
	return len(l.coef)
}

func (l *linear) String() string {
	return "linear"
}
