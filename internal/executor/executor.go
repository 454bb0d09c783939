package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/vk/crossforge/internal/builder"
	"github.com/vk/crossforge/internal/ctxlog"
	"github.com/vk/crossforge/internal/target"
)

// result is one leaf's outcome, reported back over the results channel.
type result struct {
	target   string
	artifact builder.Artifact
	skipped  bool
	err      error
}

// Executor fans leaf builds out over a bounded worker pool. Leaves are
// independent: each worker composes a fresh Effective configuration per
// leaf, so the pool needs no shared mutable state and no locking.
type Executor struct {
	registry *target.Registry
	builder  *builder.Builder
	workers  int
	failFast bool
}

// New creates an executor. A non-positive worker count falls back to the
// number of available processing units.
func New(reg *target.Registry, b *builder.Builder, workers int, failFast bool) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Executor{registry: reg, builder: b, workers: workers, failFast: failFast}
}

// Build resolves a name to one leaf or a group's members and builds them.
func (e *Executor) Build(ctx context.Context, name string) ([]builder.Artifact, error) {
	if e.registry.IsGroup(name) {
		leaves, err := e.registry.Expand(name)
		if err != nil {
			return nil, err
		}
		return e.BuildTargets(ctx, leaves)
	}
	if _, err := e.registry.Lookup(name); err != nil {
		return nil, err
	}
	return e.BuildTargets(ctx, []string{name})
}

// BuildTargets builds the given leaves concurrently. By default every leaf
// is attempted and all failures are reported together at the end; in
// fail-fast mode the first failure cancels the leaves not yet started.
// Returned artifacts follow the input order.
func (e *Executor) BuildTargets(ctx context.Context, names []string) ([]builder.Artifact, error) {
	logger := ctxlog.FromContext(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string)
	results := make(chan result, len(names))

	var wg sync.WaitGroup
	workers := min(e.workers, len(names))
	for workerID := 0; workerID < workers; workerID++ {
		workerID := workerID
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.worker(ctx, jobs, results, cancel, workerID)
		}()
	}

	go func() {
		defer close(jobs)
		for _, name := range names {
			select {
			case jobs <- name:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	byTarget := make(map[string]result, len(names))
	for res := range results {
		byTarget[res.target] = res
	}

	var artifacts []builder.Artifact
	var errs []error
	for _, name := range names {
		res, attempted := byTarget[name]
		switch {
		case !attempted || res.skipped:
			logger.Warn("Leaf skipped.", "target", name)
		case res.err != nil:
			errs = append(errs, res.err)
		default:
			artifacts = append(artifacts, res.artifact)
		}
	}

	if len(errs) > 0 {
		return artifacts, fmt.Errorf("%d of %d leaf builds failed: %w", len(errs), len(names), errors.Join(errs...))
	}
	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return artifacts, err
	}
	return artifacts, nil
}

// worker is the processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, jobs <-chan string, results chan<- result, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for name := range jobs {
		workerLogger := logger.With("workerID", workerID, "target", name)

		if ctx.Err() != nil {
			results <- result{target: name, skipped: true}
			continue
		}

		workerLogger.Debug("Worker picked up leaf target.")
		eff, err := e.registry.Compose(name)
		if err == nil {
			var artifact builder.Artifact
			artifact, err = e.builder.Build(ctx, eff)
			if err == nil {
				workerLogger.Debug("Leaf build succeeded.", "artifact", artifact.Path)
				results <- result{target: name, artifact: artifact}
				continue
			}
		}

		workerLogger.Error("Leaf build failed.", "error", err)
		results <- result{target: name, err: err}
		if e.failFast {
			cancel()
		}
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}
