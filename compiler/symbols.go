package compiler

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// weightSymbol derives a stable, unique identifier for a weight table from
// its content: the same model compiled twice emits the same constant name,
// while two distinct weight tables never collide (barring a collision in
// the first 8 bytes of the SHA-256 digest, the part the name encodes). base58 keeps the result a valid, readable Go identifier with
// no padding characters to strip.
func weightSymbol(prefix string, raw []byte, index int) string {
	h := sha256.Sum256(append([]byte(fmt.Sprintf("%s#%d:", prefix, index)), raw...))
	return fmt.Sprintf("_%s%s", prefix, base58.Encode(h[:8]))
}
