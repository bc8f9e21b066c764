package metrics

import (
	"strings"
	"testing"
)

func TestTakeMemorySnapshot(t *testing.T) {
	t.Parallel()

	snap := TakeMemorySnapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemorySnapshot_Summary(t *testing.T) {
	t.Parallel()

	before := MemorySnapshot{NumGC: 3}
	after := MemorySnapshot{HeapAlloc: 3 << 20, Sys: 10 << 20, NumGC: 5}

	got := after.Summary(before)
	for _, want := range []string{"heap 3.0 MiB", "sys 10.0 MiB", "2 GC cycles"} {
		if !strings.Contains(got, want) {
			t.Errorf("Summary() = %q, missing %q", got, want)
		}
	}
}
