package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestSnowflakeMonotonic(t *testing.T) {
	gen, err := NewSnowflakeWithNode(7)
	if err != nil {
		t.Fatalf("NewSnowflakeWithNode() error = %v", err)
	}

	prev := gen.Generate()
	for range 1000 {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("ids not increasing: %d then %d", prev, next)
		}
		prev = next
	}
}

func TestSnowflakeRejectsNodeOutOfRange(t *testing.T) {
	if _, err := NewSnowflakeWithNode(1024); err == nil {
		t.Fatal("expected error for node 1024")
	}
}

func TestUUIDVersion7(t *testing.T) {
	id := NewUUID().Generate()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("uuid.Parse(%q) error = %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("version = %d, want 7", parsed.Version())
	}
}
