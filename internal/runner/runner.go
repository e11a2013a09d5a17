package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"plateflow/internal/converter"
	"plateflow/internal/logging"
	"plateflow/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Outcome is the result of one conversion process.
type Outcome struct {
	Job      converter.Job
	ExitCode int
	Err      error
	Duration time.Duration
}

// Completed reports whether the process finished with exit status zero.
func (o Outcome) Completed() bool { return o.Err == nil }

// Result partitions a batch by process outcome, both halves in input order.
type Result struct {
	Completed []Outcome
	Failed    []Outcome
}

// CompletedJobs returns the jobs whose processes succeeded.
func (r Result) CompletedJobs() []converter.Job {
	jobs := make([]converter.Job, 0, len(r.Completed))
	for _, outcome := range r.Completed {
		jobs = append(jobs, outcome.Job)
	}
	return jobs
}

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithMaxParallel caps concurrently running processes. Zero means unbounded.
func WithMaxParallel(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxParallel = n
		}
	}
}

// WithTimeout bounds each process. Zero means no per-process deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// Runner fans conversion jobs out to external tool processes and waits for
// all of them.
type Runner struct {
	binary      string
	maxParallel int
	timeout     time.Duration
	exec        Executor
	logger      *slog.Logger
}

// New constructs a runner for the given conversion binary.
func New(binary string, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if binary == "" {
		return nil, errors.New("conversion binary required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := &Runner{
		binary: binary,
		exec:   commandExecutor{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Execute runs one process per job and waits for every process to exit. A
// non-zero exit fails only that job; siblings keep running. Context
// cancellation propagates to every process.
func (r *Runner) Execute(ctx context.Context, jobs []converter.Job) Result {
	outcomes := make([]Outcome, len(jobs))

	var semaphore chan struct{}
	if r.maxParallel > 0 {
		semaphore = make(chan struct{}, r.maxParallel)
	}

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job converter.Job) {
			defer wg.Done()
			if semaphore != nil {
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
			}
			outcomes[i] = r.runOne(ctx, job)
		}(i, job)
	}
	wg.Wait()

	var result Result
	for _, outcome := range outcomes {
		if outcome.Completed() {
			result.Completed = append(result.Completed, outcome)
		} else {
			result.Failed = append(result.Failed, outcome)
		}
	}
	return result
}

func (r *Runner) runOne(ctx context.Context, job converter.Job) Outcome {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logger := r.logger.With(
		logging.String(logging.FieldShot, job.Shot),
		logging.String("script", job.ScriptPath),
	)
	logger.Info("starting conversion process")

	started := time.Now()
	err := r.exec.Run(runCtx, r.binary, []string{"-t", job.ScriptPath})
	outcome := Outcome{
		Job:      job,
		Err:      err,
		Duration: time.Since(started),
	}

	switch {
	case err == nil:
		logger.Info("conversion process completed",
			logging.Duration("elapsed", outcome.Duration))
	default:
		outcome.ExitCode = exitCode(err)
		if deadlineExceeded(runCtx, err) {
			outcome.Err = fmt.Errorf("conversion timed out after %s: %w", r.timeout, err)
		} else {
			outcome.Err = fmt.Errorf("%w: %s", services.ErrExternalTool, err)
		}
		logger.Warn("conversion process failed",
			logging.Int("exit_code", outcome.ExitCode),
			logging.Error(outcome.Err))
	}
	return outcome
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func deadlineExceeded(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.Run()
}
