package idgen_test

import (
	"sort"
	"testing"

	"nfscan/internal/idgen"
)

func TestNewTaskIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := idgen.NewTaskID()
		if id == "" {
			t.Fatal("expected non-empty task id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate task id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewItemIDMonotonic(t *testing.T) {
	ids := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		ids = append(ids, idgen.NewItemID())
	}
	if !sort.StringsAreSorted(ids) {
		t.Fatal("expected item ids to sort in generation order")
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate item id %q", id)
		}
		seen[id] = struct{}{}
	}
}
