// Package dice models a single fair or weighted die.
package dice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lost-woods/dice/src/rng"
)

const (
	MinSides = 1
	MaxSides = 100
)

// ErrConfiguration marks a die that cannot be built from the given sides or weights.
var ErrConfiguration = errors.New("invalid dice configuration")

// Kind tags which variant a Die is.
type Kind int

const (
	Fair Kind = iota
	Weighted
)

func (k Kind) String() string {
	switch k {
	case Fair:
		return "fair"
	case Weighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// Die is immutable once built. The zero value is not a valid die.
type Die struct {
	kind  Kind
	sides int

	// weighted only
	weights    []float64
	cumulative []float64
}

func NewFair(sides int) (Die, error) {
	if err := checkSides(sides); err != nil {
		return Die{}, err
	}
	return Die{kind: Fair, sides: sides}, nil
}

// NewWeighted builds a die where weights[i] is the probability of face i+1.
// The weights must sum to exactly 1 when added left to right.
func NewWeighted(sides int, weights []float64) (Die, error) {
	if err := checkSides(sides); err != nil {
		return Die{}, err
	}
	if len(weights) != sides {
		return Die{}, fmt.Errorf("%w: %d weights for %d sides", ErrConfiguration, len(weights), sides)
	}

	w := make([]float64, sides)
	cum := make([]float64, sides)
	var sum float64
	for i, x := range weights {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return Die{}, fmt.Errorf("%w: weight %d is %v", ErrConfiguration, i+1, x)
		}
		w[i] = x
		sum += x
		cum[i] = sum
	}
	if sum != 1 {
		return Die{}, fmt.Errorf("%w: weights sum to %v, not 1", ErrConfiguration, sum)
	}

	return Die{kind: Weighted, sides: sides, weights: w, cumulative: cum}, nil
}

func checkSides(sides int) error {
	if sides < MinSides || sides > MaxSides {
		return fmt.Errorf("%w: number of sides should be between %d and %d, got %d",
			ErrConfiguration, MinSides, MaxSides, sides)
	}
	return nil
}

func (d Die) Kind() Kind { return d.kind }
func (d Die) Sides() int { return d.sides }

// Weights returns a copy of the face probabilities, or nil for a fair die.
func (d Die) Weights() []float64 {
	if d.kind != Weighted {
		return nil
	}
	return append([]float64(nil), d.weights...)
}

// Roll returns a face in [1, Sides()] drawn from src.
func (d Die) Roll(src io.Reader) (int, error) {
	switch d.kind {
	case Fair:
		v, err := rng.UniformInt32(src, nil, 1, d.sides)
		if err != nil {
			return 0, err
		}
		return int(v), nil
	case Weighted:
		u, err := rng.Float64(src, nil)
		if err != nil {
			return 0, err
		}
		return d.pick(u), nil
	default:
		return 0, fmt.Errorf("dice: roll on unknown kind %d", d.kind)
	}
}

// pick maps u in [0,1) onto a face: the first face whose cumulative weight
// exceeds u*total. Zero-weight faces are never chosen.
func (d Die) pick(u float64) int {
	total := d.cumulative[len(d.cumulative)-1]
	target := u * total
	i := sort.Search(len(d.cumulative), func(i int) bool { return d.cumulative[i] > target })
	if i >= d.sides {
		i = d.sides - 1
	}
	return i + 1
}

func (d Die) String() string {
	return fmt.Sprintf("%d-sided dice", d.sides)
}

// GoString renders "Dice(6)" or "WeightedDice(sides=2, weights=[0.25, 0.75])".
func (d Die) GoString() string {
	if d.kind == Weighted {
		parts := make([]string, len(d.weights))
		for i, w := range d.weights {
			parts[i] = strconv.FormatFloat(w, 'g', -1, 64)
		}
		return fmt.Sprintf("WeightedDice(sides=%d, weights=[%s])", d.sides, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("Dice(%d)", d.sides)
}

func (d Die) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string    `json:"kind"`
		Sides   int       `json:"sides"`
		Weights []float64 `json:"weights,omitempty"`
	}{d.kind.String(), d.sides, d.weights})
}
