package service

import (
	"context"
	"sync"
	"time"

	"agora/internal/observability"
	"agora/internal/repository"
)

// Reconciler recomputes denormalized counters from their source sets, once
// or periodically.
type Reconciler struct {
	users    repository.UserRepository
	contents repository.ContentRepository
	interval time.Duration
	quit     chan struct{}
	doneCh   chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewReconciler creates a Reconciler that ticks every interval once started.
func NewReconciler(users repository.UserRepository, contents repository.ContentRepository, interval time.Duration) *Reconciler {
	return &Reconciler{
		users:    users,
		contents: contents,
		interval: interval,
		quit:     make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Reconcile repairs follower, following, like and comment counters and
// returns how many rows were corrected.
func (r *Reconciler) Reconcile(ctx context.Context) (int64, error) {
	users, err := r.users.ReconcileFollowCounts(ctx)
	if err != nil {
		return 0, err
	}
	observability.CounterCorrections.WithLabelValues("user").Add(float64(users))

	contents, err := r.contents.ReconcileCounts(ctx)
	if err != nil {
		return users, err
	}
	observability.CounterCorrections.WithLabelValues("content").Add(float64(contents))

	return users + contents, nil
}

// Start launches the reconciler in a background goroutine. Only the first
// call has effect, and none after Stop.
func (r *Reconciler) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		go r.run(ctx)
	})
}

// Stop signals the reconciler to stop and returns immediately. It is safe to
// call more than once. Call Done() to wait for it to exit.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.quit)
	})
	// Never started: nothing will close doneCh.
	r.startOnce.Do(func() {
		close(r.doneCh)
	})
}

// Done returns a channel that is closed when the reconciler has fully stopped.
func (r *Reconciler) Done() <-chan struct{} {
	return r.doneCh
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.doneCh)

	interval := r.interval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context) {
	l := observability.Component("reconciler")
	fixed, err := r.Reconcile(ctx)
	if err != nil {
		l.Error().Err(err).Msg("counter reconciliation failed")
		return
	}
	if fixed > 0 {
		l.Info().Int64("corrected", fixed).Msg("counter reconciliation complete")
		return
	}
	l.Debug().Msg("counters consistent")
}
