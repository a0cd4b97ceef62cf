package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lost-woods/dice/src/dice"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		kind    dice.Kind
		sides   int
		weights []float64
	}{
		{"6", dice.Fair, 6, nil},
		{"d20", dice.Fair, 20, nil},
		{" D99 ", dice.Fair, 99, nil},
		{"6:0.1,0.8,0.1,0,0,0", dice.Weighted, 6, []float64{0.1, 0.8, 0.1, 0, 0, 0}},
		{"d2: 0.5, 0.5", dice.Weighted, 2, []float64{0.5, 0.5}},
	}
	for _, tc := range cases {
		d, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.kind, d.Kind(), tc.in)
		assert.Equal(t, tc.sides, d.Sides(), tc.in)
		assert.Equal(t, tc.weights, d.Weights(), tc.in)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "d", "x6", "0", "101", "3:a,b,c", "2:0.5", "2:0.9,0.9"} {
		_, err := dice.Parse(in)
		assert.ErrorIs(t, err, dice.ErrConfiguration, in)
	}
}
