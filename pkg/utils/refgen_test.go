package utils

import (
	"strings"
	"testing"
)

func TestUUIDRefGenerator(t *testing.T) {
	gen := NewUUIDRefGenerator()

	ref := gen.NewReference("MOV")
	if !strings.HasPrefix(ref, "MOV-") {
		t.Errorf("reference missing prefix: %q", ref)
	}
	if len(ref) != len("MOV-")+12 {
		t.Errorf("reference length = %d, want %d: %q", len(ref), len("MOV-")+12, ref)
	}
	if ref != strings.ToUpper(ref) {
		t.Errorf("reference not uppercase: %q", ref)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		r := gen.NewReference("RSV")
		if seen[r] {
			t.Fatalf("duplicate reference generated: %q", r)
		}
		seen[r] = true
	}
}
