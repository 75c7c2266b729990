// Command sortbench-target is a concrete Target Runner Contract
// implementation (spec.md §6): invoked once per OA row x repetition, it
// sorts a generated dataset with the requested algorithm and worker count
// under the requested noise data pattern, then emits the timing result as
// the sentinel-prefixed JSON payload the engine's runner.ProcessRunner
// expects on stdout.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

const sentinel = "v^v^v^RESULT^v^v^v"

type sortAlgorithm string

const (
	algoQuickSort sortAlgorithm = "quicksort"
	algoRadixSort sortAlgorithm = "radixsort"
)

type dataPattern string

const (
	patternRandom         dataPattern = "random"
	patternSorted         dataPattern = "sorted"
	patternReverseSorted  dataPattern = "reversesorted"
	patternManyDuplicates dataPattern = "manyduplicates"
	patternNearlySorted   dataPattern = "nearlysorted"
)

func generateData(size int, pattern dataPattern) []int {
	data := make([]int, size)
	switch pattern {
	case patternSorted:
		for i := range data {
			data[i] = i
		}
	case patternReverseSorted:
		for i := range data {
			data[i] = size - i
		}
	case patternManyDuplicates:
		for i := range data {
			data[i] = rand.Intn(100)
		}
	case patternNearlySorted:
		for i := range data {
			data[i] = i
		}
		for i := 0; i < size/10; i++ {
			a := rand.Intn(size)
			b := rand.Intn(size)
			data[a], data[b] = data[b], data[a]
		}
	default: // patternRandom and unrecognized values
		for i := range data {
			data[i] = rand.Intn(1_000_000)
		}
	}
	return data
}

func isSorted(arr []int) bool {
	for i := 1; i < len(arr); i++ {
		if arr[i] < arr[i-1] {
			return false
		}
	}
	return true
}

func main() {
	workers := flag.Int("workers", 4, "worker count (control factor MaxWorkers)")
	algorithm := flag.String("algorithm", string(algoQuickSort), "quicksort | radixsort (control factor Algorithm)")
	pattern := flag.String("pattern", string(patternRandom), "input data pattern (noise factor DataPattern)")
	size := flag.Int("size", 2_000_000, "element count")
	flag.Parse()

	data := generateData(*size, dataPattern(*pattern))

	start := time.Now()
	switch sortAlgorithm(*algorithm) {
	case algoRadixSort:
		ParallelRadixSort(data, *workers)
	default:
		ParallelQuickSort(data, *workers)
	}
	elapsed := time.Since(start)

	if !isSorted(data) {
		fmt.Fprintln(os.Stderr, "sortbench-target: output is not sorted")
		os.Exit(1)
	}

	fmt.Println(sentinel)
	fmt.Printf("{\"result\": {\"durationMicros\": %d}}\n", elapsed.Microseconds())
}
