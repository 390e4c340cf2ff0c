package link

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckAvailableIsDeterministic(t *testing.T) {
	name1, ok1 := CheckAvailable()
	name2, ok2 := CheckAvailable()
	if ok1 != ok2 || name1 != name2 {
		t.Fatalf("CheckAvailable() is not stable across calls: (%q,%v) vs (%q,%v)", name1, ok1, name2, ok2)
	}
	if ok1 {
		found := false
		for _, n := range knownLinkers {
			if n == name1 {
				found = true
			}
		}
		if !found {
			t.Fatalf("CheckAvailable() returned %q, not one of %v", name1, knownLinkers)
		}
	}
}

// TestLinkFailsOnMissingObject doesn't require a linker to be installed:
// whether or not one is present, linking a nonexistent object file must
// fail, either because no linker was found or because the linker itself
// rejects the missing input.
func TestLinkFailsOnMissingObject(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "does-not-exist.o")
	out := filepath.Join(dir, "a.out")
	if err := Link(obj, out, nil); err == nil {
		t.Fatal("Link on a missing object file should return an error")
	}
	if _, err := os.Stat(out); err == nil {
		t.Fatal("Link should not produce an output file when it fails")
	}
}
