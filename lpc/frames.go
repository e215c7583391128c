package lpc

import (
	"runtime"
	"sync"
)

// AnalyzeFrames runs Analyze over independent windows with up to workers
// goroutines. Results are returned in input order. workers <= 0 uses
// GOMAXPROCS.
func AnalyzeFrames(frames [][]float64, order int, workers int) []Result {
	results := make([]Result, len(frames))
	if len(frames) == 0 {
		return results
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(frames) {
		workers = len(frames)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = Analyze(frames[idx], order)
			}
		}()
	}

	for idx := range frames {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}
