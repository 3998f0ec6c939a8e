package imagery

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/vehicle-configurator/internal/logger"
)

// Crossfade gates the swap of the displayed photo behind a preload of the
// new one.  Only the most recently requested URL may become displayed; a
// preload that finishes after a newer request is dropped.
type Crossfade struct {
	preloader Preloader
	timeout   time.Duration
	onCommit  func()
	log       *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	displayed string
	requested string
}

// NewCrossfade builds a gate.  onCommit runs (outside the gate's lock)
// each time a preload commits or fails for the current request.  A nil
// preloader commits every request immediately.
func NewCrossfade(p Preloader, timeout time.Duration, log *logger.Logger, onCommit func()) *Crossfade {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Crossfade{
		preloader: p,
		timeout:   timeout,
		onCommit:  onCommit,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Request asks for url to become the displayed photo.  It never blocks on
// the network.  An empty url clears the display at once.
func (c *Crossfade) Request(url string) {
	c.mu.Lock()
	if url == c.requested {
		c.mu.Unlock()
		return
	}
	c.requested = url
	if url == c.displayed || url == "" || c.preloader == nil {
		c.displayed = url
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go c.preload(url)
}

func (c *Crossfade) preload(url string) {
	defer c.wg.Done()

	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(c.ctx, c.timeout)
		defer cancel()
	}
	err := c.preloader.Preload(ctx, url)

	c.mu.Lock()
	if c.requested != url {
		c.mu.Unlock()
		c.log.Debug("stale preload dropped", "url", url)
		return
	}
	if err != nil {
		// keep the old photo; a later request for the same url retries
		c.requested = c.displayed
		c.mu.Unlock()
		c.log.Warn("image preload failed", "url", url, "error", err)
	} else {
		c.displayed = url
		c.mu.Unlock()
	}
	if c.onCommit != nil {
		c.onCommit()
	}
}

// Displayed is the URL currently shown ("" for the placeholder).
func (c *Crossfade) Displayed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayed
}

// Transitioning reports whether a newer photo is still loading.
func (c *Crossfade) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requested != c.displayed
}

// Wait blocks until every in-flight preload has returned.
func (c *Crossfade) Wait() { c.wg.Wait() }

// Close cancels in-flight preloads and waits for them.
func (c *Crossfade) Close() {
	c.cancel()
	c.wg.Wait()
}
