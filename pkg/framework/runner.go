package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Runner.Wait after a second stop signal.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// NameOf returns the name of a Named, or fallback.
func NameOf(v interface{}, fallback string) string {
	if named, ok := v.(Named); ok {
		return named.Name()
	}
	return fallback
}

// Runner runs Runnables in goroutines sharing one context.
// The first Runnable to stop cancels the rest.
type Runner struct {
	Context context.Context

	cancel  context.CancelFunc
	started int
	results chan error
	forced  chan struct{}
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner derived from ctx.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{results: make(chan error), forced: make(chan struct{})}
	r.Context, r.cancel = context.WithCancel(ctx)
	return r
}

// HandleSignals stops on CtrlC or SIGTERM, and gives up waiting on
// the second one.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		glog.Infof("%v: stopping", sig)
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.forced)
	}()
	return r
}

// Stop cancels all Runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// Go spawns Runnables.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		name := NameOf(runnable, fmt.Sprintf("#%d", r.started))
		r.started++
		go r.run(name, runnable)
	}
	return r
}

func (r *Runner) run(name string, runnable Runnable) {
	glog.V(4).Infof("Runner[%s] started", name)
	err := runnable.Run(r.Context)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		glog.V(4).Infof("Runner[%s] stopped", name)
		err = nil
	default:
		glog.Errorf("Runner[%s] failed: %v", name, err)
		err = fmt.Errorf("%s: %w", name, err)
	}
	r.cancel()
	r.results <- err
}

// Wait waits until all Runnables stop and aggregates their errors.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for ; r.started > 0; r.started-- {
		select {
		case <-r.forced:
			return ErrForcedExit
		case err := <-r.results:
			errs.Add(err)
		}
	}
	return errs.Aggregate()
}

// RunWithCloser runs a blocking fn which doesn't accept a context, like
// http.Server.Serve. closer is closed when ctx is done to unblock fn, or
// after fn returns otherwise. It returns context.Canceled in the first
// case.
func RunWithCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	select {
	case err := <-done:
		closer.Close()
		return err
	case <-ctx.Done():
		closer.Close()
		<-done
		return context.Canceled
	}
}
