// Package paging holds the client-side cursor over one remotely paginated
// collection: the loaded page of items plus page, perPage and total.
package paging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/yungbote/payerdesk/internal/pkg/errors"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

const DefaultPerPage = 50

// ErrSuperseded is returned by a reload whose result arrived after a newer
// reload of the same collection had been issued. Its result is discarded.
var ErrSuperseded = errors.New("reload superseded")

// Loader fetches one page from the remote store.
type Loader[T any] func(ctx context.Context, page, perPage int) (items []T, total int, err error)

// KeyFunc returns an item's identity within a page.
type KeyFunc[T any] func(T) string

type Status int

const (
	StatusIdle Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// View is a copy of a collection's visible state.
type View[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int
}

// Collection is safe for concurrent use. Items change only through a reload
// (Load, Reload, GoToPage) or through the in-place Patch and Remove used after
// an acknowledged mutation.
type Collection[T any] struct {
	name string
	key  KeyFunc[T]
	load Loader[T]
	log  *logger.Logger

	mu      sync.Mutex
	page    int
	perPage int
	total   int
	items   []T
	status  Status
	lastErr error
	seq     uint64
}

func New[T any](name string, perPage int, key KeyFunc[T], load Loader[T], log *logger.Logger) *Collection[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Collection[T]{
		name:    name,
		key:     key,
		load:    load,
		log:     log.With("collection", name),
		page:    1,
		perPage: perPage,
		items:   make([]T, 0),
	}
}

func (c *Collection[T]) Name() string { return c.name }

// Load fetches the current page (page 1 for a fresh collection).
func (c *Collection[T]) Load(ctx context.Context) error {
	return c.reload(ctx, c.Page())
}

// Reload refetches the current page without a bounds check, which is how a
// stale page gets corrected from server truth.
func (c *Collection[T]) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// GoToPage loads page p. It fails with ErrOutOfRange, without calling the
// loader or touching state, when p is outside [1, MaxPage()].
func (c *Collection[T]) GoToPage(ctx context.Context, p int) error {
	maxPage := c.MaxPage()
	if p < 1 || p > maxPage {
		return fmt.Errorf("%w: %s page %d not in [1,%d]", pkgerrors.ErrOutOfRange, c.name, p, maxPage)
	}
	return c.reload(ctx, p)
}

func (c *Collection[T]) reload(ctx context.Context, p int) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	perPage := c.perPage
	c.mu.Unlock()

	items, total, err := c.load(ctx, p, perPage)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Debug("Discarding superseded page load", "page", p)
		return fmt.Errorf("%w: %s page %d", ErrSuperseded, c.name, p)
	}
	if err != nil {
		c.status = StatusFailed
		c.lastErr = err
		c.log.Error("Page load failed", "page", p, "per_page", perPage, "error", err)
		return fmt.Errorf("%w: %s page %d: %w", pkgerrors.ErrFetchFailed, c.name, p, err)
	}
	if total < 0 {
		total = 0
	}
	c.items = c.dedupe(items)
	c.page = p
	c.total = total
	c.status = StatusReady
	c.lastErr = nil
	c.log.Debug("Page loaded", "page", p, "items", len(c.items), "total", total)
	return nil
}

// dedupe keeps the first item for each key.
func (c *Collection[T]) dedupe(items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := c.key(it)
		if _, ok := seen[k]; ok {
			c.log.Warn("Dropping duplicate item in page", "key", k)
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// AdjustTotal shifts total by delta (floored at zero). It never reloads, so
// the current page may end up past MaxPage until the next navigation.
func (c *Collection[T]) AdjustTotal(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total += delta
	if c.total < 0 {
		c.total = 0
	}
}

// MaxPage is max(1, ceil(total/perPage)).
func (c *Collection[T]) MaxPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxPageLocked()
}

func (c *Collection[T]) maxPageLocked() int {
	pages := (c.total + c.perPage - 1) / c.perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// Stale reports whether the current page lies beyond MaxPage.
func (c *Collection[T]) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page > c.maxPageLocked()
}

// Find returns the loaded item with key.
func (c *Collection[T]) Find(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if c.key(it) == key {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Contains(key string) bool {
	_, ok := c.Find(key)
	return ok
}

// Patch applies fn to the loaded item with key and reports whether it was found.
func (c *Collection[T]) Patch(key string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.key(c.items[i]) == key {
			fn(&c.items[i])
			return true
		}
	}
	return false
}

// Remove drops the loaded item with key and reports whether it was present.
// Total is left alone; pair it with AdjustTotal.
func (c *Collection[T]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.key(c.items[i]) == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Collection[T]) Snapshot() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return View[T]{Items: items, Page: c.page, PerPage: c.perPage, Total: c.total}
}

func (c *Collection[T]) Items() []T { return c.Snapshot().Items }

func (c *Collection[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Collection[T]) PerPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perPage
}

func (c *Collection[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Status reports whether the last reload succeeded; Err holds its error.
func (c *Collection[T]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
