package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"citypulse/geocode"
	"citypulse/models"

	"github.com/apex/log"
)

// ErrAddressNotFound is returned by CreateReport when forward geocoding
// finds no candidate for the typed address. Nothing is submitted; the form
// should surface the miss inline and stay open.
var ErrAddressNotFound = errors.New("address not found")

// State describes how a view should present the working set.
type State int

const (
	// StateLoading is the first load: no content yet, show a full page
	// loading indicator.
	StateLoading State = iota
	// StateRefreshing keeps existing content visible behind a
	// non-blocking indicator.
	StateRefreshing
	// StateIdle means the working set is settled.
	StateIdle
)

// Options tunes the controller's timers and collaborators.
type Options struct {
	// DebounceInterval is the quiet period after the last search/filter
	// change before a refetch fires.
	DebounceInterval time.Duration
	// HealthInterval is the liveness probe period.
	HealthInterval time.Duration
	// Geocoder resolves typed addresses on create. Optional; without it
	// address-only creation fails with ErrAddressNotFound.
	Geocoder geocode.Geocoder

	// OnReports receives every accepted working set update.
	OnReports func([]models.Report)
	// OnState receives loading/refreshing/idle transitions.
	OnState func(State)
	// OnConnectivity receives transitions of the liveness probe. The
	// false transition warrants a blocking modal; true clears it silently.
	OnConnectivity func(bool)
	// OnError receives non-fatal fetch errors.
	OnError func(error)
}

// Controller owns the client-side working set: the report list, selection,
// search text and categorical filters. It debounces filter changes,
// discards stale list responses, probes liveness on its own timer and
// applies upvotes optimistically.
type Controller struct {
	api  *Client
	opts Options

	mu       sync.Mutex
	reports  []models.Report
	selected *models.Report
	search   string
	category string
	status   string
	severity string

	loaded   bool
	debounce *time.Timer

	// Fetch generation guard: list responses older than the last applied
	// one are dropped, so a slow stale fetch can't overwrite newer state.
	dispatchedSeq uint64
	appliedSeq    uint64

	stopOnce sync.Once
	stop     chan struct{}
}

const (
	defaultDebounceInterval = 400 * time.Millisecond
	defaultHealthInterval   = 5 * time.Second
)

func NewController(api *Client, opts Options) *Controller {
	if opts.DebounceInterval <= 0 {
		opts.DebounceInterval = defaultDebounceInterval
	}
	if opts.HealthInterval <= 0 {
		opts.HealthInterval = defaultHealthInterval
	}
	return &Controller{
		api:  api,
		opts: opts,
		stop: make(chan struct{}),
	}
}

// Start performs the initial load and starts the liveness probe loop.
func (c *Controller) Start(ctx context.Context) {
	c.refreshNow(ctx)
	go c.healthLoop(ctx)
}

// Stop cancels the pending debounce and the probe loop.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
		c.mu.Lock()
		if c.debounce != nil {
			c.debounce.Stop()
		}
		c.mu.Unlock()
	})
}

// Reports returns a copy of the current working set.
func (c *Controller) Reports() []models.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Report, len(c.reports))
	copy(out, c.reports)
	return out
}

// Selected returns the report currently opened in the detail view, or nil.
func (c *Controller) Selected() *models.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	r := *c.selected
	return &r
}

// Select opens a report in the detail view.
func (c *Controller) Select(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.reports {
		if c.reports[i].ID == id {
			r := c.reports[i]
			c.selected = &r
			return
		}
	}
}

// ClearSelection closes the detail view.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

// SetSearch updates the free-text search and schedules a debounced refetch.
func (c *Controller) SetSearch(ctx context.Context, search string) {
	c.mu.Lock()
	c.search = search
	c.mu.Unlock()
	c.scheduleRefresh(ctx)
}

// SetCategoryFilter updates the category filter ("" means ALL).
func (c *Controller) SetCategoryFilter(ctx context.Context, category string) {
	c.mu.Lock()
	c.category = category
	c.mu.Unlock()
	c.scheduleRefresh(ctx)
}

// SetStatusFilter updates the status filter ("" means ALL).
func (c *Controller) SetStatusFilter(ctx context.Context, status string) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	c.scheduleRefresh(ctx)
}

// SetSeverityFilter updates the severity filter ("" means ALL).
func (c *Controller) SetSeverityFilter(ctx context.Context, severity string) {
	c.mu.Lock()
	c.severity = severity
	c.mu.Unlock()
	c.scheduleRefresh(ctx)
}

// scheduleRefresh resets the quiet-period timer; only the last pending
// refetch after the window fires.
func (c *Controller) scheduleRefresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.opts.DebounceInterval, func() {
		select {
		case <-c.stop:
			return
		default:
		}
		c.refreshNow(ctx)
	})
}

// Refresh refetches immediately with the current filter set, bypassing the
// debounce window.
func (c *Controller) Refresh(ctx context.Context) {
	c.refreshNow(ctx)
}

func (c *Controller) currentFilters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filters{
		Category: c.category,
		Status:   c.status,
		Severity: c.severity,
		Search:   c.search,
	}
}

func (c *Controller) refreshNow(ctx context.Context) {
	c.mu.Lock()
	c.dispatchedSeq++
	seq := c.dispatchedSeq
	loaded := c.loaded
	c.mu.Unlock()

	if loaded {
		c.notifyState(StateRefreshing)
	} else {
		c.notifyState(StateLoading)
	}

	reports, err := c.api.ListReports(ctx, c.currentFilters())
	if err != nil {
		log.Warnf("List fetch failed: %v", err)
		c.notifyState(StateIdle)
		if c.opts.OnError != nil {
			c.opts.OnError(err)
		}
		return
	}

	if c.applyReports(seq, reports) {
		if c.opts.OnReports != nil {
			c.opts.OnReports(reports)
		}
	}
	c.notifyState(StateIdle)
}

// applyReports installs a fetched working set unless a newer fetch already
// landed. Returns whether the set was accepted.
func (c *Controller) applyReports(seq uint64, reports []models.Report) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.appliedSeq {
		log.Infof("Discarding stale list response (seq %d < %d)", seq, c.appliedSeq)
		return false
	}
	c.appliedSeq = seq
	c.reports = reports
	c.loaded = true
	if c.selected != nil {
		c.selected = findReport(reports, c.selected.ID)
	}
	return true
}

func findReport(reports []models.Report, id int) *models.Report {
	for i := range reports {
		if reports[i].ID == id {
			r := reports[i]
			return &r
		}
	}
	return nil
}

func (c *Controller) notifyState(s State) {
	if c.opts.OnState != nil {
		c.opts.OnState(s)
	}
}

// Upvote increments a report's counter optimistically and persists it in
// the background. A persistence failure triggers a full reconciling
// refetch instead of a rollback; the counter is eventually consistent.
func (c *Controller) Upvote(ctx context.Context, id int) {
	c.mu.Lock()
	var upvotes int
	found := false
	for i := range c.reports {
		if c.reports[i].ID == id {
			c.reports[i].Upvotes++
			upvotes = c.reports[i].Upvotes
			found = true
			break
		}
	}
	if c.selected != nil && c.selected.ID == id {
		c.selected.Upvotes = upvotes
	}
	snapshot := make([]models.Report, len(c.reports))
	copy(snapshot, c.reports)
	c.mu.Unlock()

	if !found {
		return
	}
	if c.opts.OnReports != nil {
		c.opts.OnReports(snapshot)
	}

	go func() {
		patch := &models.UpdateReportRequest{Upvotes: &upvotes}
		if _, err := c.api.UpdateReport(ctx, id, patch); err != nil {
			log.Warnf("Upvote persist failed for report %d, refetching: %v", id, err)
			c.refreshNow(ctx)
		}
	}()
}

// CreateReportInput gathers the creation form fields. Location may be nil
// when the user typed an address instead of picking a point.
type CreateReportInput struct {
	Name          string
	Address       string
	Location      *models.Location
	Category      models.Category
	SeverityLevel models.SeverityLevel
	Images        []string
	Description   string
}

// CreateReport submits a new report, forward-geocoding the address first
// when no coordinates were resolved. A geocoding miss returns
// ErrAddressNotFound without submitting anything.
func (c *Controller) CreateReport(ctx context.Context, input CreateReportInput) (*models.Report, error) {
	location := input.Location
	if location == nil {
		if c.opts.Geocoder == nil {
			return nil, ErrAddressNotFound
		}
		res, err := c.opts.Geocoder.Forward(ctx, input.Address)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, ErrAddressNotFound
		}
		location = &models.Location{Lat: res.Lat, Lng: res.Lng}
	}

	created, err := c.api.CreateReport(ctx, &models.CreateReportRequest{
		Name:          input.Name,
		Location:      location,
		Address:       input.Address,
		Category:      input.Category,
		SeverityLevel: input.SeverityLevel,
		Images:        input.Images,
		Description:   input.Description,
	})
	if err != nil {
		return nil, err
	}

	c.refreshNow(ctx)
	return created, nil
}

// healthLoop probes liveness on a fixed interval, independent of list
// fetches, and reports connectivity transitions.
func (c *Controller) healthLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.HealthInterval)
	defer ticker.Stop()

	connected := true
	for {
		select {
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := c.api.Health(ctx)
			healthy := err == nil
			if healthy != connected {
				connected = healthy
				if !healthy {
					log.Warnf("Liveness probe failed: %v", err)
				} else {
					log.Info("Liveness probe recovered")
				}
				if c.opts.OnConnectivity != nil {
					c.opts.OnConnectivity(healthy)
				}
			}
		}
	}
}
