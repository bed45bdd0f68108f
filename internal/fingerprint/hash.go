package fingerprint

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Size is the number of bits produced by Compute.
const Size = 64

// Invalid is returned by Distance when two hashes cannot be compared.
const Invalid = -1

var (
	// ErrMissingInput is returned when an image or hash was not supplied.
	ErrMissingInput = errors.New("fingerprint: missing input")

	// ErrLengthMismatch is returned when two hashes have different lengths.
	ErrLengthMismatch = errors.New("fingerprint: length mismatch")

	// ErrDecode is returned when the image bytes cannot be decoded.
	ErrDecode = errors.New("fingerprint: decode image")
)

// Hash is an ordered bit sequence of at most 64 bits. The zero value is an
// absent hash.
type Hash struct {
	bits uint64
	size int
}

// New builds a hash from the low size bits of v. The most significant of
// those bits is the first bit of the sequence.
func New(v uint64, size int) (Hash, error) {
	if size <= 0 || size > Size {
		return Hash{}, fmt.Errorf("fingerprint: invalid size %d", size)
	}
	if size < Size {
		v &= (uint64(1) << size) - 1
	}
	return Hash{bits: v, size: size}, nil
}

// Parse reads the textual form produced by Hash.String.
func Parse(s string) (Hash, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Hash{}, ErrMissingInput
	}
	if len(s) > Size {
		return Hash{}, fmt.Errorf("fingerprint: hash longer than %d bits", Size)
	}
	var v uint64
	for i, r := range s {
		v <<= 1
		switch r {
		case '1':
			v |= 1
		case '0':
		default:
			return Hash{}, fmt.Errorf("fingerprint: invalid bit %q at %d", r, i)
		}
	}
	return Hash{bits: v, size: len(s)}, nil
}

// Len reports the number of bits in the hash.
func (h Hash) Len() int { return h.size }

// IsZero reports whether the hash is absent.
func (h Hash) IsZero() bool { return h.size == 0 }

// Uint64 returns the bits right-aligned.
func (h Hash) Uint64() uint64 { return h.bits }

// String renders the hash as a string of '0' and '1' characters, first bit first.
func (h Hash) String() string {
	var b strings.Builder
	b.Grow(h.size)
	for i := h.size - 1; i >= 0; i-- {
		if h.bits&(uint64(1)<<i) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Distance returns the Hamming distance between a and b. When either hash is
// absent or their lengths differ it returns Invalid together with the cause.
func Distance(a, b Hash) (int, error) {
	if a.IsZero() || b.IsZero() {
		return Invalid, ErrMissingInput
	}
	if a.size != b.size {
		return Invalid, ErrLengthMismatch
	}
	return bits.OnesCount64(a.bits ^ b.bits), nil
}

// Matches reports whether distance is an accepted match under threshold.
// Invalid distances never match.
func Matches(distance, threshold int) bool {
	return distance >= 0 && distance <= threshold
}
