package simplepush

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// hashGenerator derives boundary tokens by hashing UUID randomness together
// with a nanosecond time component. The hex alphabet cannot produce the
// "--" prefix reserved for the assembler's framing lines.
type hashGenerator struct{}

// NewBoundaryGenerator returns the default boundary generator.
func NewBoundaryGenerator() BoundaryGenerator {
	return hashGenerator{}
}

func (hashGenerator) Generate() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", uuid.NewString(), time.Now().UnixNano())))
	return hex.EncodeToString(sum[:20])
}
