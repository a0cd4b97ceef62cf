package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"
)

// Kind names an entropy source.
type Kind string

const (
	KindPseudo Kind = "pseudo"
	KindCrypto Kind = "crypto"
	KindSerial Kind = "serial"
)

// Options selects and configures the entropy source.
type Options struct {
	Kind   Kind
	Seed   int64 // pseudo only; 0 draws a seed from crypto/rand
	Serial SerialConfig
}

// Source is an opened entropy stream. Reader is safe for concurrent use.
type Source struct {
	Kind   Kind
	Reader io.Reader
	Health *Health

	closer io.Closer
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NewPseudoSource returns a ChaCha8 stream. Equal non-zero seeds yield equal streams.
func NewPseudoSource(seed int64) (io.Reader, error) {
	var key [32]byte
	if seed == 0 {
		if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
			return nil, fmt.Errorf("seeding pseudo source: %w", err)
		}
	} else {
		binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	}
	return mrand.NewChaCha8(key), nil
}

// Open builds the source described by opts. Every source comes back wrapped in
// a LockedReader and with a Health that reflects its initial state.
func Open(opts Options) (*Source, error) {
	switch opts.Kind {
	case KindPseudo, "":
		r, err := NewPseudoSource(opts.Seed)
		if err != nil {
			return nil, err
		}
		return newStaticSource(KindPseudo, r), nil
	case KindCrypto:
		return newStaticSource(KindCrypto, rand.Reader), nil
	case KindSerial:
		p, h, err := NewSerialRNG(opts.Serial)
		if err != nil {
			return nil, err
		}
		return &Source{Kind: KindSerial, Reader: NewLockedReader(p), Health: h, closer: p}, nil
	default:
		return nil, fmt.Errorf("unknown rng source %q", opts.Kind)
	}
}

func newStaticSource(kind Kind, r io.Reader) *Source {
	h := NewHealth()
	h.Set(true, "")
	return &Source{Kind: kind, Reader: NewLockedReader(r), Health: h}
}
