package rng_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/lost-woods/dice/src/rng"
)

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestUniformInt32_PerfectUniformWhenRangeDivides2Pow32(t *testing.T) {
	// Range size 256 divides 2^32, so no rejection is needed and distribution is perfect over 65536 draws.
	r := &uint32CounterReader{next: 0}
	counts := make([]int, 256)

	for i := 0; i < 65536; i++ {
		v, err := rng.UniformInt32(r, nil, 0, 255)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[int(v)]++
	}

	for i := 0; i < 256; i++ {
		if counts[i] != 256 {
			t.Fatalf("value %d count=%d want=256", i, counts[i])
		}
	}
}

func TestUniformInt32_RetriesOnRejectedValues(t *testing.T) {
	// For range size 10: limit = 4294967290, so 0xFFFFFFFA..0xFFFFFFFF are rejected.
	rejected := []byte{0xFF, 0xFF, 0xFF, 0xFA}
	accepted := []byte{0x00, 0x00, 0x00, 0x00}
	r := &scriptedReader{chunks: [][]byte{rejected, accepted}}

	v, err := rng.UniformInt32(r, nil, 0, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("got %d want 0", v)
	}
}

func TestUniformInt32_DieFaces(t *testing.T) {
	r := &uint32CounterReader{next: 0}
	for _, sides := range []int{1, 2, 6, 13, 20, 99, 100} {
		for i := 0; i < 1000; i++ {
			v, err := rng.UniformInt32(r, nil, 1, sides)
			if err != nil {
				t.Fatalf("sides=%d unexpected error: %v", sides, err)
			}
			if v < 1 || int(v) > sides {
				t.Fatalf("sides=%d got out-of-range %d", sides, v)
			}
		}
	}
}

func TestUniformInt32_DistributionSanity_NonDivisorRanges(t *testing.T) {
	ranges := []int{6, 13, 20, 99}
	draws := 300000

	for _, k := range ranges {
		r := &uint32CounterReader{next: 0}
		counts := make([]int, k)

		for i := 0; i < draws; i++ {
			v, err := rng.UniformInt32(r, nil, 0, k-1)
			if err != nil {
				t.Fatalf("range=%d unexpected error: %v", k, err)
			}
			counts[int(v)]++
		}

		expected := float64(draws) / float64(k)
		tol := expected * 0.015
		for i, c := range counts {
			if abs(float64(c)-expected) > tol {
				t.Fatalf("range=%d value=%d count=%d expected≈%.1f", k, i, c, expected)
			}
		}
	}
}

func TestUniformInt32_ExhaustedSourceMarksUnhealthy(t *testing.T) {
	h := rng.NewHealth()
	h.Set(true, "")

	_, err := rng.UniformInt32(bytes.NewReader([]byte{1, 2}), h, 1, 6)
	if !errors.Is(err, rng.ErrSourceRead) {
		t.Fatalf("got %v want ErrSourceRead", err)
	}
	if ok, _, _ := h.Snapshot(); ok {
		t.Fatalf("health should be false after a failed read")
	}
}

func TestUniformInt32_RejectsInvertedRange(t *testing.T) {
	if _, err := rng.UniformInt32(&uint32CounterReader{}, nil, 6, 1); err == nil {
		t.Fatalf("expected error for min > max")
	}
}

func TestFloat64_Bounds(t *testing.T) {
	var zero, max [8]byte
	binary.BigEndian.PutUint64(max[:], ^uint64(0))
	r := &scriptedReader{chunks: [][]byte{zero[:], max[:]}}

	lo, err := rng.Float64(r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lo != 0 {
		t.Fatalf("got %v want 0", lo)
	}

	hi, err := rng.Float64(r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hi >= 1 || hi < 0.999999 {
		t.Fatalf("got %v want just below 1", hi)
	}
}

func TestFloat64_ShortSource(t *testing.T) {
	if _, err := rng.Float64(bytes.NewReader([]byte{1, 2, 3}), nil); !errors.Is(err, rng.ErrSourceRead) {
		t.Fatalf("got %v want ErrSourceRead", err)
	}
}
