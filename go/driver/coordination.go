// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type consumerResult int

const (
	consumeContinue consumerResult = iota
	consumeAbort
)

// input is a single buffer consumed by one session.
type input struct {
	name string
	data []byte
}

// worker processes inputs on a single goroutine. Workers own their session
// and thus their oracles, so they never share state with each other.
type worker func(input input) consumerResult

// processInputs distributes the inputs produced by the given producer among
// numJobs workers. The producer is expected to stop as soon as the abort
// flag is set, which happens if any worker requests to abort. Progress is
// reported periodically through the given print function.
func processInputs(
	produce func(inputs chan<- input, abort *atomic.Bool),
	newWorker func() (worker, error),
	printProgress func(relativeTime time.Duration, rate float64, current int64),
	numJobs int,
) error {
	// Workers are created upfront, such that configuration issues surface
	// before any goroutine is started.
	workers := make([]worker, 0, numJobs)
	for i := 0; i < numJobs; i++ {
		worker, err := newWorker()
		if err != nil {
			return fmt.Errorf("failed to create worker: %w", err)
		}
		workers = append(workers, worker)
	}

	var inputCounter atomic.Int64
	var abort atomic.Bool

	done := make(chan bool)
	printerDone := make(chan bool)
	go func() {
		defer close(printerDone)
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		startTime := time.Now()
		lastTime := startTime
		lastCounter := int64(0)

		checkTimingAndPrint := func(now time.Time) {
			cur := inputCounter.Load()

			diffCounter := cur - lastCounter
			diffTime := now.Sub(lastTime)

			lastTime = now
			lastCounter = cur

			relativeTime := now.Sub(startTime)
			rate := float64(diffCounter) / diffTime.Seconds()
			printProgress(relativeTime, rate, cur)
		}

		for {
			select {
			case <-done:
				checkTimingAndPrint(time.Now())
				return
			case now := <-ticker.C:
				checkTimingAndPrint(now)
			}
		}
	}()

	var workersDone sync.WaitGroup
	workersDone.Add(len(workers))
	inputs := make(chan input, 10*numJobs)
	for _, worker := range workers {
		go func() {
			defer workersDone.Done()
			for input := range inputs {
				if abort.Load() {
					continue // drain the channel
				}
				inputCounter.Add(1)
				if worker(input) == consumeAbort {
					abort.Store(true)
				}
			}
		}()
	}

	produce(inputs, &abort)
	close(inputs)
	workersDone.Wait()

	close(done)
	<-printerDone
	return nil
}
