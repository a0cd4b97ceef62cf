package rng_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lost-woods/dice/src/rng"
)

var uuidV4Re = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestOpen_PseudoIsDeterministicForSeed(t *testing.T) {
	a, err := rng.Open(rng.Options{Kind: rng.KindPseudo, Seed: 42})
	require.NoError(t, err)
	b, err := rng.Open(rng.Options{Kind: rng.KindPseudo, Seed: 42})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		x, err := rng.UniformInt32(a.Reader, a.Health, 1, 100)
		require.NoError(t, err)
		y, err := rng.UniformInt32(b.Reader, b.Health, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
	assert.NoError(t, a.Close())
}

func TestOpen_DefaultsToPseudo(t *testing.T) {
	src, err := rng.Open(rng.Options{})
	require.NoError(t, err)
	assert.Equal(t, rng.KindPseudo, src.Kind)

	ok, _, _ := src.Health.Snapshot()
	assert.True(t, ok)
}

func TestOpen_Crypto(t *testing.T) {
	src, err := rng.Open(rng.Options{Kind: rng.KindCrypto})
	require.NoError(t, err)
	require.NoError(t, rng.HealthCheckRNG(src.Reader, nil))
}

func TestOpen_SerialRequiresDevice(t *testing.T) {
	_, err := rng.Open(rng.Options{Kind: rng.KindSerial})
	assert.Error(t, err)

	_, err = rng.Open(rng.Options{Kind: rng.KindSerial, Serial: rng.SerialConfig{Device: "/dev/null", Baud: 0}})
	assert.Error(t, err)
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := rng.Open(rng.Options{Kind: "lava-lamp"})
	assert.Error(t, err)
}

func TestNewUUIDv4FromRNG(t *testing.T) {
	id, err := rng.NewUUIDv4FromRNG(&uint32CounterReader{next: 1})
	require.NoError(t, err)
	assert.Regexp(t, uuidV4Re, id)
}
