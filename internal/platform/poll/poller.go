package poll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/premhub/premier-hub/internal/platform/logging"
)

var (
	ErrAlreadyStarted = errors.New("poller already started")
	ErrStopped        = errors.New("poller is stopped")
)

// Fetcher loads one snapshot of the polled resource.
type Fetcher[T any] func(ctx context.Context) (T, error)

type Config struct {
	// Interval between fetches. The first fetch fires immediately on Start.
	Interval time.Duration
	// MaxConsecutiveFailures stops the poller after this many failed
	// fetches in a row. Zero means retry forever.
	MaxConsecutiveFailures int
	Logger                 *logging.Logger
}

// Poller repeatedly fetches a resource on a fixed interval and hands each
// snapshot to OnUpdate. At most one fetch is in flight at a time: a tick
// that fires while the previous fetch is still running is skipped. Fetch
// errors go to OnError and do not stop the loop.
//
// After Stop returns, neither callback fires again; a fetch that was
// mid-flight when Stop was called has its result discarded. Callbacks must
// not call Stop and should return promptly.
type Poller[T any] struct {
	fetch    Fetcher[T]
	onUpdate func(T)
	onError  func(error)
	interval time.Duration
	maxFails int
	logger   *logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool

	// consecutive failures, touched only by the run goroutine
	fails int
}

func New[T any](cfg Config, fetch Fetcher[T], onUpdate func(T), onError func(error)) *Poller[T] {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Poller[T]{
		fetch:    fetch,
		onUpdate: onUpdate,
		onError:  onError,
		interval: interval,
		maxFails: cfg.MaxConsecutiveFailures,
		logger:   logger,
	}
}

func (p *Poller[T]) Start(ctx context.Context) error {
	if p.fetch == nil {
		return errors.New("poller fetcher is required")
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrStopped
	}
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.started = true
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.run(runCtx)
	return nil
}

// Stop halts polling. Safe to call multiple times and before Start.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done is closed once the polling goroutine has exited. Nil before Start.
func (p *Poller[T]) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Poller[T]) run(ctx context.Context) {
	defer close(p.done)

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
			// Drop the tick that may have accrued while the fetch was
			// running: skip-if-busy, never two fetches in flight.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	snapshot, err := p.fetch(ctx)
	if ctx.Err() != nil {
		// Stopped while the fetch was in flight; discard the result.
		return
	}
	if err != nil {
		p.fails++
		p.deliverError(err)
		if p.maxFails > 0 && p.fails >= p.maxFails {
			p.logger.Warn("poller stopping after consecutive failures",
				"failures", p.fails,
			)
			p.Stop()
		}
		return
	}

	p.fails = 0
	p.deliverUpdate(snapshot)
}

func (p *Poller[T]) deliverUpdate(snapshot T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.onUpdate == nil {
		return
	}
	p.onUpdate(snapshot)
}

func (p *Poller[T]) deliverError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.onError == nil {
		return
	}
	p.onError(err)
}
