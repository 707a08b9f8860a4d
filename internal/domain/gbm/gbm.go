package gbm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Feature indices in the artifact's fixed input vector.
const (
	featureLatitude  = 0
	featureLongitude = 1
	featureMonth     = 2
	featureCount     = 3
)

// Node is one decision node in a boosted tree. Internal nodes split on
// x[Feature] <= Threshold (left) versus > Threshold (right); leaves carry the
// raw log-odds contribution in Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

// Tree is a single estimator in the ensemble, nodes indexed from the root at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// document is the on-disk JSON shape exported by the offline trainer.
type document struct {
	Version      int      `json:"version"`
	Features     []string `json:"features"`
	InitRaw      float64  `json:"init_raw"`
	LearningRate float64  `json:"learning_rate"`
	Trees        []Tree   `json:"trees"`
}

// Model is a loaded scoring artifact. It is immutable after Load/Parse and
// therefore safe for concurrent Score calls without locking.
type Model struct {
	trees        []Tree
	initRaw      float64
	learningRate float64
}

// Load reads and validates a model artifact from disk. A failure here is fatal
// to the service: nothing can be scored without a loaded artifact.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadModel, path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadModel, path, err)
	}
	return m, nil
}

// Parse decodes and validates a model artifact from raw JSON.
func Parse(data []byte) (*Model, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &Model{
		trees:        doc.Trees,
		initRaw:      doc.InitRaw,
		learningRate: doc.LearningRate,
	}, nil
}

// validate rejects artifacts that could not have come from the trainer.
// Child links must point forward so traversal always terminates.
func validate(doc *document) error {
	if len(doc.Features) != featureCount ||
		doc.Features[featureLatitude] != "latitude" ||
		doc.Features[featureLongitude] != "longitude" ||
		doc.Features[featureMonth] != "month" {
		return fmt.Errorf("%w: features must be [latitude longitude month], got %v", ErrInvalidModel, doc.Features)
	}
	if doc.LearningRate <= 0 {
		return fmt.Errorf("%w: learning_rate must be positive, got %g", ErrInvalidModel, doc.LearningRate)
	}
	if len(doc.Trees) == 0 {
		return fmt.Errorf("%w: no trees", ErrInvalidModel)
	}
	for ti, tree := range doc.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d has no nodes", ErrInvalidModel, ti)
		}
		for ni, n := range tree.Nodes {
			if n.Leaf {
				continue
			}
			if n.Feature < 0 || n.Feature >= featureCount {
				return fmt.Errorf("%w: tree %d node %d: feature index %d out of range", ErrInvalidModel, ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Left >= len(tree.Nodes) || n.Right <= ni || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("%w: tree %d node %d: child index out of range", ErrInvalidModel, ti, ni)
			}
		}
	}
	return nil
}

// Score evaluates the ensemble for one location and month. The result is the
// sigmoid of the accumulated raw leaf values, so it is always in [0,1].
func (m *Model) Score(ctx context.Context, lat, lon float64, month int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrScore, err)
	}

	x := [featureCount]float64{lat, lon, float64(month)}
	raw := m.initRaw
	for _, tree := range m.trees {
		raw += m.learningRate * evaluate(&tree, x)
	}
	return sigmoid(raw), nil
}

// TreeCount reports the ensemble size for stats and metrics.
func (m *Model) TreeCount() int {
	return len(m.trees)
}

// evaluate walks one tree to its leaf. Termination is guaranteed by the
// forward-index rule enforced in validate.
func evaluate(tree *Tree, x [featureCount]float64) float64 {
	i := 0
	for {
		n := tree.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func sigmoid(raw float64) float64 {
	return 1 / (1 + math.Exp(-raw))
}
