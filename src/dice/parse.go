package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a die spec: "6" or "d6" is a fair d6, and
// "6:0.1,0.8,0.1,0,0,0" is a weighted d6.
func Parse(spec string) (Die, error) {
	s := strings.TrimSpace(spec)
	sidesPart, weightsPart, weighted := strings.Cut(s, ":")

	sidesPart = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(sidesPart)), "d")
	sides, err := strconv.Atoi(sidesPart)
	if err != nil {
		return Die{}, fmt.Errorf("%w: invalid sides in %q", ErrConfiguration, spec)
	}
	if !weighted {
		return NewFair(sides)
	}

	weights, err := ParseWeights(weightsPart)
	if err != nil {
		return Die{}, fmt.Errorf("%w in %q", err, spec)
	}
	return NewWeighted(sides, weights)
}

// ParseWeights reads a comma separated list of face probabilities.
func ParseWeights(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	weights := make([]float64, 0, len(fields))
	for _, f := range fields {
		w, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid weight %q", ErrConfiguration, f)
		}
		weights = append(weights, w)
	}
	return weights, nil
}
