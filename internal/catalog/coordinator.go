package catalog

import (
	"context"
	"sync"

	"medisupply/mobile/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Source identifies which data source the unified view currently trusts.
type Source string

const (
	SourceHTTP Source = "http"
	SourceFeed Source = "feed"
)

// View is the unified read model exposed to the UI. It is a value snapshot;
// the coordinator never hands out shared mutable state.
type View struct {
	Items     []domain.CatalogItem
	Meta      *domain.PageMeta
	Loading   bool
	Err       error
	Source    Source
	Connected bool
}

// Coordinator reconciles the HTTP catalog client and the live feed into one
// view. The feed is authoritative only while it is connected and has
// delivered at least one non-empty item list since connecting; otherwise the
// HTTP result is. The policy is re-evaluated synchronously on every state
// change from either source.
type Coordinator struct {
	fetcher  Fetcher
	feed     Feed
	onUpdate func(View)

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	filter domain.Filter
	gen    int
	closed bool

	httpPage    *domain.CatalogPage
	httpErr     error
	httpLoading bool

	feedState          ConnState
	feedPage           *domain.CatalogPage
	feedErr            error
	feedQualified      bool
	feedRefreshPending bool
}

// NewCoordinator wires both sources. feed may be nil when the live feed is
// disabled; the coordinator then runs HTTP-only.
func NewCoordinator(fetcher Fetcher, feed Feed, initial domain.Filter) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		fetcher:   fetcher,
		feed:      feed,
		ctx:       ctx,
		cancel:    cancel,
		filter:    initial,
		feedState: StateDisconnected,
	}
	if feed != nil {
		feed.OnPage(c.handleFeedPage)
		feed.OnStateChange(c.handleFeedState)
		feed.OnError(c.handleFeedError)
	}
	return c
}

// OnUpdate registers the callback invoked with a fresh View after every state
// change. Must be set before Start.
func (c *Coordinator) OnUpdate(fn func(View)) {
	c.onUpdate = fn
}

// Start kicks off the initial HTTP fetch and, when enabled, the feed
// connection. HTTP always runs so there is immediate, cacheable data even if
// the feed comes up later.
func (c *Coordinator) Start() {
	c.mu.Lock()
	filter := c.filter
	c.mu.Unlock()

	c.fetchAsync(filter, false)
	if c.feed != nil {
		c.feed.Send(filter)
		c.feed.Connect()
	}
}

// SetFilter propagates a filter change to both sources so a later hand-off
// between them is seamless. Setting an identical filter is a no-op: no
// refetch, no feed message.
func (c *Coordinator) SetFilter(filter domain.Filter) {
	c.mu.Lock()
	if c.closed || filter == c.filter {
		c.mu.Unlock()
		return
	}
	c.filter = filter
	c.feedRefreshPending = true
	c.mu.Unlock()

	c.fetchAsync(filter, false)
	if c.feed != nil {
		c.feed.Send(filter)
	}
}

// Refresh re-reads from the authoritative source. When the feed holds
// authority the filter is re-sent over the open connection; otherwise the
// HTTP fetch is re-issued bypassing the cache. A disconnected feed also gets
// a fresh connection attempt with its backoff budget reset.
func (c *Coordinator) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	filter := c.filter
	authoritative := c.feedAuthoritativeLocked()
	if authoritative {
		c.feedRefreshPending = true
	}
	c.mu.Unlock()

	if authoritative {
		c.feed.Refresh(filter)
		return
	}

	c.fetchAsync(filter, true)
	if c.feed != nil && c.feed.State() == StateDisconnected {
		c.feed.Refresh(filter)
	}
}

// Close tears down the feed connection and invalidates in-flight HTTP
// results. Safe to call more than once.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	c.mu.Unlock()

	c.cancel()
	if c.feed != nil {
		c.feed.Close()
	}
}

// View returns the current unified snapshot.
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Coordinator) viewLocked() View {
	view := View{Connected: c.feedState == StateConnected}

	if c.feedAuthoritativeLocked() {
		view.Source = SourceFeed
		view.Items = c.feedPage.Items
		view.Meta = &c.feedPage.Meta
		view.Err = c.feedErr
		return view
	}

	view.Source = SourceHTTP
	if c.httpPage != nil {
		view.Items = c.httpPage.Items
		view.Meta = &c.httpPage.Meta
	}
	view.Loading = c.httpLoading && c.httpPage == nil
	view.Err = c.httpErr
	if view.Err == nil && c.httpPage == nil && !view.Loading {
		// With nothing at all to show, an exhausted feed is worth surfacing.
		view.Err = c.feedErr
	}
	return view
}

func (c *Coordinator) feedAuthoritativeLocked() bool {
	return c.feedQualified && c.feedState == StateConnected && c.feedPage != nil
}

// fetchAsync issues the HTTP query under a fresh generation token. A response
// arriving after a newer request (or after Close) is discarded so the view
// never regresses to a superseded filter.
func (c *Coordinator) fetchAsync(filter domain.Filter, force bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.httpLoading = true
	c.mu.Unlock()
	c.publish()

	go func() {
		page, err := c.fetcher.FetchPage(c.ctx, filter, force)

		c.mu.Lock()
		if c.closed || gen != c.gen {
			c.mu.Unlock()
			log.Debugf("Discarding stale catalog response for page %d", filter.Page)
			return
		}
		c.httpLoading = false
		if err != nil {
			c.httpErr = err
		} else {
			c.httpPage = page
			c.httpErr = nil
		}
		c.mu.Unlock()
		c.publish()
	}()
}

// handleFeedPage records a pushed page. The feed qualifies for authority on
// its first non-empty item list after connecting; an explicitly refreshed
// feed that comes back empty hands authority back to HTTP.
func (c *Coordinator) handleFeedPage(page *domain.CatalogPage) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.feedPage = page
	c.feedErr = nil
	if len(page.Items) > 0 {
		c.feedQualified = true
	} else if c.feedRefreshPending {
		c.feedQualified = false
	}
	c.feedRefreshPending = false
	c.mu.Unlock()
	c.publish()
}

func (c *Coordinator) handleFeedState(state ConnState) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.feedState = state
	if state != StateConnected {
		// Authority requires data delivered on the current connection.
		c.feedQualified = false
		c.feedPage = nil
	}
	c.mu.Unlock()
	c.publish()
}

func (c *Coordinator) handleFeedError(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.feedErr = err
	c.mu.Unlock()
	c.publish()
}

func (c *Coordinator) publish() {
	if c.onUpdate == nil {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	view := c.viewLocked()
	c.mu.Unlock()
	c.onUpdate(view)
}
