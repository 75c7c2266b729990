package main

import "sync"

// ParallelRadixSort sorts arr in place, LSD-first, base 256, used as the
// alternate MaxWorkers-varying algorithm under test.
func ParallelRadixSort(arr []int, workers int) {
	if len(arr) <= 1 {
		return
	}

	minVal := arr[0]
	for _, v := range arr {
		if v < minVal {
			minVal = v
		}
	}

	offset := 0
	if minVal < 0 {
		offset = -minVal
		for i := range arr {
			arr[i] += offset
		}
	}

	maxVal := arr[0]
	for _, v := range arr {
		if v > maxVal {
			maxVal = v
		}
	}

	const base = 256
	for exp := 1; maxVal/exp > 0; exp *= base {
		parallelCountingSort(arr, exp, base, workers)
	}

	if offset > 0 {
		for i := range arr {
			arr[i] -= offset
		}
	}
}

func parallelCountingSort(arr []int, exp, base, workers int) {
	n := len(arr)
	output := make([]int, n)

	chunkSize := (n + workers - 1) / workers
	localCounts := make([][]int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			counts := make([]int, base)
			start := workerID * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}
			if start > n {
				start = n
			}

			for i := start; i < end; i++ {
				digit := (arr[i] / exp) % base
				counts[digit]++
			}

			localCounts[workerID] = counts
		}(w)
	}
	wg.Wait()

	globalCount := make([]int, base)
	for w := 0; w < workers; w++ {
		for digit := 0; digit < base; digit++ {
			globalCount[digit] += localCounts[w][digit]
		}
	}

	for i := 1; i < base; i++ {
		globalCount[i] += globalCount[i-1]
	}

	for i := n - 1; i >= 0; i-- {
		digit := (arr[i] / exp) % base
		globalCount[digit]--
		output[globalCount[digit]] = arr[i]
	}

	copy(arr, output)
}
