package txid

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"
)

var shape = regexp.MustCompile(`^TXN_\d{14}_[0-9A-F]{6}$`)

func TestNewShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := New("")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !shape.MatchString(id) {
			t.Fatalf("id %q does not match %s", id, shape)
		}
	}
}

func TestNextIsDeterministicWithFixedInputs(t *testing.T) {
	g := &Generator{
		Prefix: "GIFT",
		Now:    func() time.Time { return time.Date(2024, 3, 9, 7, 5, 2, 999, time.FixedZone("x", 3*3600)) },
		Rand:   bytes.NewReader([]byte{0x0a, 0xbc, 0xff}),
	}
	id, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	// timestamp is rendered in UTC
	if want := "GIFT_20240309040502_0ABCFF"; id != want {
		t.Errorf("id = %q, want %q", id, want)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestNextPropagatesRandomFailure(t *testing.T) {
	g := NewGenerator("")
	g.Rand = failingReader{}
	if _, err := g.Next(); err == nil {
		t.Fatal("expected error from failing random source")
	}
}

// Collisions within one second are possible by construction. With 10k draws
// from 2^24 suffixes about three are expected, so only a gross excess fails.
func TestCollisionsWithinOneSecondAreRare(t *testing.T) {
	frozen := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewGenerator(DefaultPrefix)
	g.Now = func() time.Time { return frozen }

	seen := make(map[string]struct{}, 10000)
	collisions := 0
	for i := 0; i < 10000; i++ {
		id, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if _, dup := seen[id]; dup {
			collisions++
		}
		seen[id] = struct{}{}
	}
	if collisions > 25 {
		t.Errorf("%d collisions in 10000 ids", collisions)
	}
}
