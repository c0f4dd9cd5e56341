// Package poller watches a video's transcoding job until it finishes.
//
// A Poller runs at most one job at a time. Each tick queries the job status:
//
//	COMPLETED                -> resolve with the payload
//	FAILED                   -> fail with ErrConversionFailed
//	anything else, or error  -> attempts++, retry after Interval,
//	                            fail with ErrMaxAttempts once attempts == MaxAttempts
//
// Starting a new job cancels the pending one. Responses that arrive for a job
// that is no longer current are ignored.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/logging"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxAttempts = 60
)

var (
	ErrMaxAttempts      = errors.New("max attempts reached")
	ErrConversionFailed = errors.New("conversion failed")
	ErrPollCancelled    = errors.New("polling cancelled")
)

// State is the classified status of a conversion job.
type State int

const (
	StateUnknown State = iota
	StatePending
	StateInProgress
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInProgress:
		return "in-progress"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Classify maps a backend status onto a State. CANCELLED and unrecognised
// values are unknown, which keeps the job polling.
func Classify(s models.ConversionStatus) State {
	switch s {
	case models.ConversionPending:
		return StatePending
	case models.ConversionInProgress:
		return StateInProgress
	case models.ConversionCompleted:
		return StateCompleted
	case models.ConversionFailed:
		return StateFailed
	default:
		return StateUnknown
	}
}

// StatusFunc fetches the current status of a job. A nil status with a nil
// error counts as "no data".
type StatusFunc func(ctx context.Context, videoID string) (*models.ConversionProgress, error)

// Result is the outcome of a finished job.
type Result struct {
	Status   *models.ConversionProgress
	Err      error
	Attempts int
}

// Job is one polling run.
type Job struct {
	p     *Poller
	ctx   context.Context
	id    string
	done  chan struct{}
	timer Timer

	// guarded by p.mu
	attempts int
	queries  int
	state    State
	result   Result
}

func (j *Job) VideoID() string { return j.id }

// Done is closed when the job resolves, fails or is cancelled.
func (j *Job) Done() <-chan struct{} { return j.done }

// Result is valid after Done is closed.
func (j *Job) Result() Result {
	j.p.mu.Lock()
	defer j.p.mu.Unlock()
	return j.result
}

// Queries returns the number of status responses processed so far.
func (j *Job) Queries() int {
	j.p.mu.Lock()
	defer j.p.mu.Unlock()
	return j.queries
}

// State returns the last classified state.
func (j *Job) State() State {
	j.p.mu.Lock()
	defer j.p.mu.Unlock()
	return j.state
}

// Cancel stops the job if it is still the current one.
func (j *Job) Cancel() {
	j.p.mu.Lock()
	defer j.p.mu.Unlock()
	if j.p.current == j {
		j.p.cancelLocked()
	}
}

type Poller struct {
	query       StatusFunc
	clock       Clock
	interval    time.Duration
	maxAttempts int
	log         logging.Logger
	onProgress  func(videoID string, status models.ConversionProgress)

	mu      sync.Mutex
	current *Job
}

type Option func(*Poller)

func WithClock(c Clock) Option { return func(p *Poller) { p.clock = c } }

// WithInterval sets the delay between ticks. Negative values mean zero.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d < 0 {
			d = 0
		}
		p.interval = d
	}
}

// WithMaxAttempts bounds the number of non-terminal responses. Values below 1 mean 1.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n < 1 {
			n = 1
		}
		p.maxAttempts = n
	}
}

func WithLogger(l logging.Logger) Option { return func(p *Poller) { p.log = l } }

// WithProgress registers a callback for every non-empty status response.
func WithProgress(f func(videoID string, status models.ConversionProgress)) Option {
	return func(p *Poller) { p.onProgress = f }
}

func New(query StatusFunc, opts ...Option) *Poller {
	p := &Poller{
		query:       query,
		clock:       RealClock{},
		interval:    DefaultInterval,
		maxAttempts: DefaultMaxAttempts,
		log:         logging.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Start cancels any running job and begins polling videoID. The first query
// is scheduled immediately; ctx is passed to every status query.
func (p *Poller) Start(ctx context.Context, videoID string) *Job {
	j := &Job{p: p, ctx: ctx, id: videoID, done: make(chan struct{}), state: StatePending}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelLocked()
	p.current = j
	j.timer = p.clock.AfterFunc(0, func() { p.tick(j) })
	return j
}

// Stop cancels the running job, if any. Its waiters get ErrPollCancelled.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

// Active returns the video id of the running job.
func (p *Poller) Active() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.id, true
}

// Poll runs a job to completion. Cancelling ctx stops the job.
func (p *Poller) Poll(ctx context.Context, videoID string) (*models.ConversionProgress, error) {
	j := p.Start(ctx, videoID)
	select {
	case <-j.Done():
		r := j.Result()
		return r.Status, r.Err
	case <-ctx.Done():
		j.Cancel()
		return nil, ctx.Err()
	}
}

func (p *Poller) isCurrent(j *Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current == j
}

// tick runs one status query for j. The progress callback is invoked
// outside the lock and only while j is still the current job.
func (p *Poller) tick(j *Job) {
	p.mu.Lock()
	if p.current != j {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	status, err := p.query(j.ctx, j.id)

	if status != nil && p.onProgress != nil && p.isCurrent(j) {
		p.onProgress(j.id, *status)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != j {
		p.log.Debug(j.ctx, "ignoring status for superseded job", "video_id", j.id)
		return
	}
	j.queries++

	if err != nil || status == nil {
		j.state = StateUnknown
		p.log.Debug(j.ctx, "status query returned nothing", "video_id", j.id, "error", err)
		p.retryLocked(j, err)
		return
	}

	j.state = Classify(status.Status)
	switch j.state {
	case StateCompleted:
		p.finishLocked(j, Result{Status: status})
	case StateFailed:
		err := ErrConversionFailed
		if status.Error != "" {
			err = fmt.Errorf("%w: %s", ErrConversionFailed, status.Error)
		}
		p.finishLocked(j, Result{Status: status, Err: err})
	default:
		p.retryLocked(j, nil)
	}
}

func (p *Poller) retryLocked(j *Job, lastErr error) {
	j.attempts++
	if j.attempts >= p.maxAttempts {
		err := ErrMaxAttempts
		if lastErr != nil {
			err = fmt.Errorf("%w: %w", ErrMaxAttempts, lastErr)
		}
		p.finishLocked(j, Result{Err: err})
		return
	}
	j.timer = p.clock.AfterFunc(p.interval, func() { p.tick(j) })
}

func (p *Poller) finishLocked(j *Job, r Result) {
	r.Attempts = j.attempts
	j.result = r
	if p.current == j {
		p.current = nil
	}
	close(j.done)
	if r.Err != nil {
		p.log.Debug(j.ctx, "polling finished", "video_id", j.id, "attempts", j.attempts, "error", r.Err)
	} else {
		p.log.Debug(j.ctx, "polling finished", "video_id", j.id, "attempts", j.attempts)
	}
}

func (p *Poller) cancelLocked() {
	j := p.current
	if j == nil {
		return
	}
	if j.timer != nil {
		j.timer.Stop()
	}
	p.finishLocked(j, Result{Err: ErrPollCancelled})
}
