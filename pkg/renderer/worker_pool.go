package renderer

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // For deterministic ordering
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID   int
	WorkerID int
	Stats    TileStats
	Duration time.Duration
	Error    error
}

// WorkerPool renders tiles of one pass in parallel. Every tile covers a
// disjoint region of the shared pixel buffer, so workers write without locking.
type WorkerPool struct {
	ctx         context.Context
	renderer    *TileRenderer
	pixels      []uint32
	width       int
	seed        int64
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// maxTiles bounds the queues so that every task of a pass can be submitted
// before any result is read.
func NewWorkerPool(ctx context.Context, renderer *TileRenderer, pixels []uint32, width int, seed int64, maxTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		ctx:         ctx,
		renderer:    renderer,
		pixels:      pixels,
		width:       width,
		seed:        seed,
		taskQueue:   make(chan TileTask, maxTiles),
		resultQueue: make(chan TileResult, maxTiles),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for id := 0; id < wp.numWorkers; id++ {
		wp.wg.Add(1)
		go wp.run(id)
	}
}

// Stop closes the task queue and waits for all workers to finish
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run(workerID int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		start := time.Now()
		stats, err := wp.renderer.RenderTileBounds(wp.ctx, task.Tile.Bounds, wp.pixels, wp.width, task.Tile.NewRandom(wp.seed))

		wp.resultQueue <- TileResult{
			TaskID:   task.TaskID,
			WorkerID: workerID,
			Stats:    stats,
			Duration: time.Since(start),
			Error:    err,
		}
	}
}
