package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GeneratePIN returns a random 4-digit numeric pickup PIN. PINs are drawn
// independently per order; uniqueness across concurrently READY orders is
// not guaranteed.
func GeneratePIN() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken.
		panic("failed to generate pickup PIN: " + err.Error())
	}
	return fmt.Sprintf("%04d", n.Int64())
}
