package andersen

import (
	"container/heap"
	"math"
	"sync"
	"time"

	"github.com/irssa/ptranalysis/ir"
)

// ParallelStats mirrors the per-thread summary the original prints under
// PRINT_STATS: how many tasks a worker processed, and the distribution of
// their sizes (basic-block counts) and wall-clock times.
type ParallelStats struct {
	ThreadID    int
	TaskCount   int
	TotalTime   time.Duration
	MaxTime     time.Duration
	MaxTimeSize int
	MeanSize    float64
	VarSize     float64
	MeanTimeUs  float64
	VarTimeUs   float64
}

func (s ParallelStats) StdDevSize() float64   { return math.Sqrt(s.VarSize) }
func (s ParallelStats) StdDevTimeUs() float64 { return math.Sqrt(s.VarTimeUs) }

type task struct {
	fn   *ir.Function
	size int // basic-block count: both the scheduling priority and the reported "size"
}

// taskQueue is a max-heap ordered by descending size. The original's
// priority_queue<TaskInfo> compares by size the same way, so the biggest
// functions are handed to a worker first and a long tail of small ones
// doesn't leave the pool idle waiting on one straggler at the end.
type taskQueue []task

func (q taskQueue) Len() int           { return len(q) }
func (q taskQueue) Less(i, j int) bool { return q[i].size > q[j].size }
func (q taskQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(task)) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ParallelResult is the outcome of Parallel mode: the same per-function
// results Intra would produce, plus one ParallelStats entry per worker.
type ParallelResult struct {
	PerFunction map[*ir.Function]*Result
	Stats       []ParallelStats
}

// Parallel runs the same per-function analysis as Intra, but distributes the
// functions across nThreads persistent worker goroutines draining a shared
// priority queue. This mirrors the original's fixed std::thread pool over a
// mutex-guarded std::priority_queue<TaskInfo>: a persistent pool pulling
// work items is a different concurrency shape than a bounded-concurrency
// semaphore, so it is built from sync.Mutex/sync.WaitGroup and goroutines
// rather than a semaphore-based limiter.
func Parallel(mod *ir.Module, nThreads int) *ParallelResult {
	if nThreads < 1 {
		nThreads = 1
	}

	reg := buildRegistry(mod)

	var q taskQueue
	for _, fn := range mod.Functions {
		if fn.IsDeclaration() {
			continue
		}
		q = append(q, task{fn: fn, size: len(fn.Blocks)})
	}
	heap.Init(&q)

	var qmu sync.Mutex
	var resmu sync.Mutex
	results := make(map[*ir.Function]*Result)
	stats := make([]ParallelStats, nThreads)

	var wg sync.WaitGroup
	wg.Add(nThreads)
	for tid := 0; tid < nThreads; tid++ {
		go func(tid int) {
			defer wg.Done()
			stats[tid] = runWorker(tid, mod, reg, &qmu, &q, &resmu, results)
		}(tid)
	}
	wg.Wait()

	return &ParallelResult{PerFunction: results, Stats: stats}
}

func runWorker(
	tid int,
	mod *ir.Module,
	reg map[int]ir.Value,
	qmu *sync.Mutex,
	q *taskQueue,
	resmu *sync.Mutex,
	results map[*ir.Function]*Result,
) ParallelStats {
	start := time.Now()
	st := ParallelStats{ThreadID: tid}

	var totalSize, totalSizeSq int
	var totalTimeUs, totalTimeSqUs int64

	for {
		qmu.Lock()
		if q.Len() == 0 {
			qmu.Unlock()
			break
		}
		t := heap.Pop(q).(task)
		qmu.Unlock()

		sub := time.Now()
		r := analyzeFunction(mod, reg, t.fn)
		elapsed := time.Since(sub)

		resmu.Lock()
		results[t.fn] = r
		resmu.Unlock()

		st.TaskCount++
		totalSize += t.size
		totalSizeSq += t.size * t.size
		us := elapsed.Microseconds()
		totalTimeUs += us
		totalTimeSqUs += us * us
		if elapsed > st.MaxTime {
			st.MaxTime = elapsed
			st.MaxTimeSize = t.size
		}
	}

	st.TotalTime = time.Since(start)
	if st.TaskCount > 0 {
		n := float64(st.TaskCount)
		st.MeanSize = float64(totalSize) / n
		st.VarSize = float64(totalSizeSq)/n - st.MeanSize*st.MeanSize
		st.MeanTimeUs = float64(totalTimeUs) / n
		st.VarTimeUs = float64(totalTimeSqUs)/n - st.MeanTimeUs*st.MeanTimeUs
	}
	return st
}
