package stores

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/poller"
	"github.com/dmitrijs2005/spillway/internal/logging"
)

// Result is the outcome of a store operation.
type Result[T any] struct {
	Success      bool
	Value        T
	Error        string
	Unauthorized bool
	Err          error
}

func succeed[T any](v T) Result[T] {
	return Result[T]{Success: true, Value: v}
}

// Pagination describes the page currently held by a search cache.
type Pagination struct {
	TotalResults int
	TotalPages   int
	CurrentPage  int
	PageSize     int
	HasNext      bool
	HasPrevious  bool
}

// Option configures a store.
type Option func(*options)

type options struct {
	log      logging.Logger
	pollOpts []poller.Option
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithPollerOptions configures the conversion poller of a VideoStore.
func WithPollerOptions(opts ...poller.Option) Option {
	return func(o *options) { o.pollOpts = append(o.pollOpts, opts...) }
}

func buildOptions(opts []Option) options {
	o := options{log: logging.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// base carries the loading and error state shared by every store.
type base struct {
	mu       sync.Mutex
	log      logging.Logger
	inflight int
	lastErr  string
}

func (b *base) begin() {
	b.mu.Lock()
	b.inflight++
	b.lastErr = ""
	b.mu.Unlock()
}

// endLocked must be called with mu held.
func (b *base) endLocked() {
	if b.inflight > 0 {
		b.inflight--
	}
}

// Loading reports whether any operation is in flight.
func (b *base) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inflight > 0
}

// LastError returns the message of the most recent failure.
func (b *base) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *base) ClearError() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastErr = ""
}

// Fail builds a failed Result from err. A server-provided message wins over
// fallback; network failures always use fallback.
func Fail[T any](err error, fallback string) Result[T] {
	msg := fallback
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Kind != client.KindNetwork && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return Result[T]{Error: msg, Unauthorized: client.IsUnauthorized(err), Err: err}
}

// failLocked records err as the store error and builds the failed Result.
// authMsg, when set, replaces the message for 401/403.
func failLocked[T any](ctx context.Context, b *base, err error, fallback, authMsg string) Result[T] {
	r := Fail[T](err, fallback)
	if r.Unauthorized && authMsg != "" {
		r.Error = authMsg
	}
	b.lastErr = r.Error
	b.log.Warn(ctx, fallback, "error", err, "unauthorized", r.Unauthorized)
	return r
}

func replaceByID[T any](items []T, id string, idOf func(T) string, v T) bool {
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = v
			return true
		}
	}
	return false
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0:0]
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

func prepend[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	return append(out, items...)
}

// cloneOrEmpty returns a copy that is never nil.
func cloneOrEmpty[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
