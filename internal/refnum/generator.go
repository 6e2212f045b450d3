// Package refnum generates the human-shareable reference numbers assigned
// to applications at creation.
package refnum

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Prefix tags every reference number issued by this system.
const Prefix = "GB"

const (
	suffixLen   = 5
	suffixSpace = 36 * 36 * 36 * 36 * 36 // 36^suffixLen
	digits      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generator produces reference numbers of the form GB<unix-ms><5 base36
// chars>. The suffix walks a randomly-seeded counter through the base36
// space, so values generated within the same millisecond are still
// pairwise distinct until the space wraps.
type Generator struct {
	mu      sync.Mutex
	counter uint64
	now     func() time.Time
}

// New creates a Generator with a cryptographically random starting offset.
func New() *Generator {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// Fall back to the clock; uniqueness is still enforced by the
		// storage layer's constraint.
		binary.BigEndian.PutUint64(seed[:], uint64(time.Now().UnixNano()))
	}
	return &Generator{
		counter: binary.BigEndian.Uint64(seed[:]) % suffixSpace,
		now:     time.Now,
	}
}

// Generate returns the next reference number.
func (g *Generator) Generate() string {
	g.mu.Lock()
	n := g.counter
	g.counter = (g.counter + 1) % suffixSpace
	ms := g.now().UnixMilli()
	g.mu.Unlock()

	return Prefix + strconv.FormatInt(ms, 10) + encodeSuffix(n)
}

// encodeSuffix renders n as a fixed-width uppercase base36 string.
func encodeSuffix(n uint64) string {
	var b [suffixLen]byte
	for i := suffixLen - 1; i >= 0; i-- {
		b[i] = digits[n%36]
		n /= 36
	}
	return string(b[:])
}

// IsValid reports whether s matches the generator's output format.
func IsValid(s string) bool {
	if !strings.HasPrefix(s, Prefix) {
		return false
	}
	body := s[len(Prefix):]
	if len(body) <= suffixLen {
		return false
	}
	ts, suffix := body[:len(body)-suffixLen], body[len(body)-suffixLen:]
	for _, c := range ts {
		if c < '0' || c > '9' {
			return false
		}
	}
	for _, c := range suffix {
		if !strings.ContainsRune(digits, c) {
			return false
		}
	}
	return true
}
