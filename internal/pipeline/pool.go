package pipeline

import (
	"context"
	"sync"

	"planetmesh/internal/parallel"
	"planetmesh/pkg/mesh"

	"github.com/alitto/pond/v2"
)

// BuildJob represents a mesh build request
type BuildJob struct {
	ID     string
	Config Config
	// Result channel - will be sent the result when done
	ResultChan chan BuildResult
}

// BuildResult contains the result of a build
type BuildResult struct {
	ID    string
	Mesh  *mesh.Data
	Error error
}

// WorkerPool runs whole builds on a fixed set of goroutines. The parallel
// stages of every build share one stage pool.
type WorkerPool struct {
	jobQueue chan BuildJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stages   pond.Pool
}

// NewWorkerPool creates a pool of build workers. Stage parallelism is sized
// to the CPU count regardless of workers.
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan BuildJob, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
		stages:   parallel.NewPool(0),
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// SubmitJob submits a build job to the pool
// Returns true if job was submitted successfully, false if the queue is full
// or the pool is shutting down
func (p *WorkerPool) SubmitJob(job BuildJob) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued, ctx is done
// or the pool shuts down. It reports whether the job was queued.
func (p *WorkerPool) SubmitJobBlocking(ctx context.Context, job BuildJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-ctx.Done():
		return false
	case <-p.ctx.Done():
		return false
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			cfg := job.Config
			if cfg.Pool == nil {
				cfg.Pool = p.stages
			}
			data, err := Build(p.ctx, cfg)

			result := BuildResult{
				ID:    job.ID,
				Mesh:  data,
				Error: err,
			}

			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. Queued jobs that have not started are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.stages.StopAndWait()
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}

// Workers returns the number of build goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}
