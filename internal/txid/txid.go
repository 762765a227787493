// Package txid builds human-traceable donation transaction identifiers of
// the form PREFIX_YYYYMMDDHHMMSS_XXXXXX.
//
// Ids are not guaranteed unique. Three random bytes give 16.7M suffixes per
// second, and the store does not enforce uniqueness.
package txid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	DefaultPrefix = "TXN"
	timeLayout    = "20060102150405"
	randomBytes   = 3
)

type Generator struct {
	Prefix string
	Now    func() time.Time
	Rand   io.Reader
}

func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{Prefix: prefix, Now: time.Now, Rand: rand.Reader}
}

func (g *Generator) Next() (string, error) {
	buf := make([]byte, randomBytes)
	if _, err := io.ReadFull(g.Rand, buf); err != nil {
		return "", fmt.Errorf("txid: read random bytes: %w", err)
	}
	stamp := g.Now().UTC().Format(timeLayout)
	return g.Prefix + "_" + stamp + "_" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// New generates an id with the given prefix, DefaultPrefix when empty.
func New(prefix string) (string, error) {
	return NewGenerator(prefix).Next()
}
