package pathoram

import (
	"crypto/rand"
	"math/big"
)

// LeafSource supplies uniform integers in [0, n) for leaf assignment.
// The output must be unpredictable to whoever observes the storage access
// pattern. *math/rand/v2.Rand satisfies it and is meant for tests only.
type LeafSource interface {
	IntN(n int) int
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

// IntN returns a cryptographically random integer in [0, n).
func (CryptoSource) IntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return int(v.Int64())
}
