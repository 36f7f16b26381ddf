package runner

import (
	"context"
	"sync"

	"github.com/cybertec-postgresql/sqlpreparse/internal/discovery"
)

// WorkerPool manages parallel pre-parsing
type WorkerPool struct {
	executor   *Executor
	maxWorkers int
}

// NewWorkerPool creates a new worker pool for parallel pre-parsing
func NewWorkerPool(executor *Executor, maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		executor:   executor,
		maxWorkers: maxWorkers,
	}
}

// ExecuteParallel pre-parses statements with the configured concurrency
// limit. Outcomes are returned in statement order.
func (wp *WorkerPool) ExecuteParallel(ctx context.Context, statements []discovery.Statement) []*Outcome {
	numStatements := len(statements)
	if numStatements == 0 {
		return nil
	}

	// If only one worker or one statement, fall back to sequential execution
	if wp.maxWorkers == 1 || numStatements == 1 {
		return wp.executor.ExecuteBatch(ctx, statements)
	}

	workers := min(wp.maxWorkers, numStatements)
	wp.executor.log.Debug("Starting parallel pre-parse with %d workers for %d statements", workers, numStatements)

	jobs := make(chan *job, numStatements)
	results := make(chan *result, numStatements)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go wp.worker(ctx, i, jobs, results, &wg)
	}

	for i := range statements {
		jobs <- &job{
			statement: &statements[i],
			index:     i,
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]*Outcome, numStatements)
	for r := range results {
		outcomes[r.index] = r.outcome
		if r.outcome.Status == OutcomeFailed {
			wp.executor.log.Debug("[FAIL] %s:%d (worker %d)", r.outcome.Statement.File, r.outcome.Statement.Line, r.workerID)
		}
	}

	// Workers stop on cancellation; statements they never picked up are cancelled
	for i, o := range outcomes {
		if o == nil {
			outcomes[i] = cancelled(&statements[i], ctx.Err())
		}
	}

	return outcomes
}

// job represents a single statement to pre-parse
type job struct {
	statement *discovery.Statement
	index     int
}

// result carries an outcome back to the collecting goroutine
type result struct {
	outcome  *Outcome
	index    int
	workerID int
}

// worker processes jobs with its own pre-parser
func (wp *WorkerPool) worker(ctx context.Context, workerID int, jobs <-chan *job, results chan<- *result, wg *sync.WaitGroup) {
	defer wg.Done()

	pp := wp.executor.NewPreParser()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			results <- &result{
				outcome:  wp.executor.Execute(ctx, j.statement, pp),
				index:    j.index,
				workerID: workerID,
			}
		}
	}
}
