package metrics

import (
	"fmt"
	"runtime"
)

// MemorySnapshot holds a point-in-time reading of the Go runtime.
type MemorySnapshot struct {
	HeapAlloc   uint64 // bytes in use
	Sys         uint64 // bytes obtained from the OS
	NumGC       uint32 // completed GC cycles
	HeapObjects uint64 // live heap objects
}

// TakeMemorySnapshot reads the current runtime memory statistics.
func TakeMemorySnapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		HeapObjects: m.HeapObjects,
	}
}

// Summary renders the snapshot relative to an earlier one, for the verbose
// end-of-run report.
func (s MemorySnapshot) Summary(before MemorySnapshot) string {
	return fmt.Sprintf("heap %s, sys %s, %d GC cycles during run",
		mib(s.HeapAlloc), mib(s.Sys), s.NumGC-before.NumGC)
}

func mib(b uint64) string {
	return fmt.Sprintf("%.1f MiB", float64(b)/(1<<20))
}
