package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"plateflow/internal/converter"
	"plateflow/internal/services"
)

type fakeExecutor struct {
	mu       sync.Mutex
	calls    [][]string
	active   int
	peak     int
	failWhen func(args []string) error
	delay    time.Duration
	run      func(ctx context.Context, args []string) error
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{binary}, args...))
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if f.run != nil {
		return f.run(ctx, args)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.failWhen != nil {
		return f.failWhen(args)
	}
	return nil
}

func jobsNamed(shots ...string) []converter.Job {
	jobs := make([]converter.Job, 0, len(shots))
	for _, shot := range shots {
		jobs = append(jobs, converter.Job{Shot: shot, ScriptPath: "/tmp/" + shot + ".toml"})
	}
	return jobs
}

func TestExecutePartitionsByExitStatus(t *testing.T) {
	exec := &fakeExecutor{failWhen: func(args []string) error {
		if strings.Contains(args[1], "bad") {
			return errors.New("exit status 1")
		}
		return nil
	}}
	r, err := New("converttool", nil, WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}

	result := r.Execute(context.Background(), jobsNamed("good_a", "bad_b", "good_c"))
	if len(result.Completed) != 2 || len(result.Failed) != 1 {
		t.Fatalf("completed %d failed %d", len(result.Completed), len(result.Failed))
	}
	if result.Completed[0].Job.Shot != "good_a" || result.Completed[1].Job.Shot != "good_c" {
		t.Errorf("completed order %v", result.CompletedJobs())
	}
	if result.Failed[0].Job.Shot != "bad_b" {
		t.Errorf("failed %v", result.Failed[0].Job.Shot)
	}
	if !errors.Is(result.Failed[0].Err, services.ErrExternalTool) {
		t.Errorf("err = %v", result.Failed[0].Err)
	}
}

func TestExecutePassesScriptFlag(t *testing.T) {
	exec := &fakeExecutor{}
	r, err := New("converttool", nil, WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}

	r.Execute(context.Background(), jobsNamed("abc_0010"))
	if len(exec.calls) != 1 {
		t.Fatalf("calls = %v", exec.calls)
	}
	call := exec.calls[0]
	if call[0] != "converttool" || call[1] != "-t" || call[2] != "/tmp/abc_0010.toml" {
		t.Errorf("call = %v", call)
	}
}

func TestExecuteHonorsMaxParallel(t *testing.T) {
	exec := &fakeExecutor{delay: 20 * time.Millisecond}
	r, err := New("converttool", nil, WithExecutor(exec), WithMaxParallel(2))
	if err != nil {
		t.Fatal(err)
	}

	r.Execute(context.Background(), jobsNamed("a", "b", "c", "d", "e"))
	if exec.peak > 2 {
		t.Errorf("peak concurrency %d", exec.peak)
	}
}

func TestExecuteTimeoutFailsJobOnly(t *testing.T) {
	exec := &fakeExecutor{
		run: func(ctx context.Context, args []string) error {
			if strings.Contains(args[1], "fast") {
				return nil
			}
			// blocks until the per-job deadline fires
			<-ctx.Done()
			return ctx.Err()
		},
	}
	r, err := New("converttool", nil, WithExecutor(exec), WithTimeout(30*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	result := r.Execute(context.Background(), jobsNamed("slow_a", "fast_b"))
	if len(result.Failed) != 1 || result.Failed[0].Job.Shot != "slow_a" {
		t.Fatalf("failed = %v", result.Failed)
	}
	if !strings.Contains(result.Failed[0].Err.Error(), "timed out") {
		t.Errorf("err = %v", result.Failed[0].Err)
	}
	if len(result.Completed) != 1 || result.Completed[0].Job.Shot != "fast_b" {
		t.Fatalf("completed = %v", result.CompletedJobs())
	}
}

func TestExecuteEmptyBatch(t *testing.T) {
	r, err := New("converttool", nil, WithExecutor(&fakeExecutor{}))
	if err != nil {
		t.Fatal(err)
	}
	result := r.Execute(context.Background(), nil)
	if len(result.Completed) != 0 || len(result.Failed) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("", nil); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
