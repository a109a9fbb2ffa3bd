package uuid

import (
	"sort"
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNew(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("New() returned unparsable %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
}

func TestNew_TimeOrdered(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = New()
	}
	if !sort.StringsAreSorted(ids) {
		t.Error("expected successive UUIDv7 values to sort in creation order")
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid(New()) {
		t.Error("generated ID should be valid")
	}
	if !IsValid("550e8400-e29b-41d4-a716-446655440000") {
		t.Error("v4 UUID should be valid")
	}
	for _, s := range []string{"", "not-a-uuid", "550e8400-e29b-41d4-a716"} {
		if IsValid(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
