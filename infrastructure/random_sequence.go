package infrastructure

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
)

// RandomSequenceSource draws winning sequences from crypto/rand
type RandomSequenceSource struct{}

// NewRandomSequenceSource creates a new random sequence source
func NewRandomSequenceSource() interfaces.WinningSequenceSource {
	return &RandomSequenceSource{}
}

// Draw returns a uniformly random digit sequence
func (s *RandomSequenceSource) Draw() (string, error) {
	var b strings.Builder
	for i := 0; i < entities.SequenceDigits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to draw random digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
