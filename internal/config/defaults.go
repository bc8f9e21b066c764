package config

import "runtime"

// chartCount is the number of independent chart renderers the report runs.
const chartCount = 6

// EstimateRenderWorkers picks a default chart rendering concurrency from the
// number of CPUs. There is no point in more workers than charts.
func EstimateRenderWorkers() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 1:
		return 1 // Render sequentially
	case numCPU >= chartCount:
		return chartCount
	default:
		return numCPU
	}
}
