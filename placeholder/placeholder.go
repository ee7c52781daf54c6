// Package placeholder generates the temporary tokens inserted into the
// buffer while a title fetch is in flight. Several fetches can be live at
// once, so every token must be textually distinct from every other token and
// from anything the user might type, while staying readable.
package placeholder

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Mode selects how tokens are disambiguated.
type Mode int

const (
	// Suffix appends a visible four-character random tag after a '#'
	// separator.
	Suffix Mode = iota

	// ZeroWidth interleaves zero-width characters at random positions and
	// counts, so concurrent tokens render identically but compare distinct.
	// Removal relies on exact-string matching.
	ZeroWidth
)

// Generator produces placeholder tokens for a base phrase.
type Generator struct {
	Base string
	Mode Mode
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var zeroWidthRunes = []rune{'​', '‌', '‍'}

// New returns a fresh token.
func (g Generator) New() string {
	if g.Mode == ZeroWidth {
		return interleave(g.Base)
	}
	return g.Base + "#" + randomTag(4)
}

func randomTag(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[randInt(len(suffixAlphabet))]
	}
	return string(b)
}

// interleave follows every rune of the base with one to three zero-width
// characters.
func interleave(base string) string {
	var sb strings.Builder
	for _, r := range base {
		sb.WriteRune(r)
		for n := randInt(3) + 1; n > 0; n-- {
			sb.WriteRune(zeroWidthRunes[randInt(len(zeroWidthRunes))])
		}
	}
	return sb.String()
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
