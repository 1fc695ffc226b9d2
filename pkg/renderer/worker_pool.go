package renderer

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spoax/raytracer/pkg/scene"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // Index of the tile in the grid
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// WorkerPool manages parallel tile rendering. Workers run under an errgroup
// whose context is derived from the one passed to Start.
type WorkerPool struct {
	scene       *scene.Scene
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int

	group     *errgroup.Group
	ctx       context.Context
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewWorkerPool creates a worker pool with room for queueSize outstanding
// tasks. numWorkers <= 0 uses the CPU count.
func NewWorkerPool(sc *scene.Scene, queueSize, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	queueSize = max(1, queueSize)

	return &WorkerPool{
		scene:       sc,
		taskQueue:   make(chan TileTask, queueSize),
		resultQueue: make(chan TileResult, queueSize),
		numWorkers:  numWorkers,
	}
}

// Start launches the workers. Calls after the first are no-ops.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.startOnce.Do(func() {
		wp.group, wp.ctx = errgroup.WithContext(ctx)
		for i := 0; i < wp.numWorkers; i++ {
			tileRenderer := NewTileRenderer(wp.scene)
			wp.group.Go(func() error {
				return wp.run(tileRenderer)
			})
		}
	})
}

// Stop shuts down the workers and waits for them to exit. It returns the
// first worker error, which is the context error if the pool was cancelled.
func (wp *WorkerPool) Stop() error {
	var err error
	wp.stopOnce.Do(func() {
		close(wp.taskQueue)
		if wp.group != nil {
			err = wp.group.Wait()
		}
		close(wp.resultQueue)
	})
	return err
}

// SubmitTask queues a tile task, giving up if ctx is cancelled first
func (wp *WorkerPool) SubmitTask(ctx context.Context, task TileTask) error {
	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetResult waits for a completed tile result
func (wp *WorkerPool) GetResult(ctx context.Context) (TileResult, error) {
	var poolDone <-chan struct{}
	if wp.ctx != nil {
		poolDone = wp.ctx.Done()
	}

	select {
	case result := <-wp.resultQueue:
		return result, nil
	case <-ctx.Done():
		return TileResult{}, ctx.Err()
	case <-poolDone:
		return TileResult{}, wp.ctx.Err()
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run(tileRenderer *TileRenderer) error {
	for {
		if err := wp.ctx.Err(); err != nil {
			return err
		}

		select {
		case <-wp.ctx.Done():
			return wp.ctx.Err()
		case task, ok := <-wp.taskQueue:
			if !ok {
				return nil
			}

			tileRenderer.raytracer.MergeSamplingConfig(scene.SamplingConfig{
				SamplesPerPixel: task.TargetSamples,
			})

			// Tiles never overlap, so writing to the shared stats array is safe
			stats := tileRenderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Sampler, task.TargetSamples)
			wp.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
		}
	}
}
