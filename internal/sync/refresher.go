// Package sync keeps the client's view of server state fresh. A
// Refresher polls tasks, categories, and locations on an interval,
// forwards geolocation watch updates, and delivers everything to the
// Bubble Tea runtime over a result channel. Each fetch carries a
// request tag; a result whose tag is no longer the latest issued for
// its resource is dropped, so a newly issued fetch always supersedes
// an older in-flight one regardless of response order.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"taskmaster-tui/internal/api"
	"taskmaster-tui/internal/geo"
	"taskmaster-tui/internal/model"
)

// Resource identifies a server-backed collection the refresher manages.
type Resource string

const (
	ResourceTasks      Resource = "tasks"
	ResourceCategories Resource = "categories"
	ResourceLocations  Resource = "locations"
)

// RefreshMsg is a tea.Msg delivered when a fetch completes. Exactly one
// of the payload slices is populated, matching Resource.
type RefreshMsg struct {
	Resource   Resource
	Tasks      []model.Task
	Categories []model.Category
	Locations  []model.Location
	Err        error
}

// PositionMsg is a tea.Msg delivered for every geolocation watch update.
type PositionMsg struct {
	Position geo.Position
	Err      error
}

// fetchTimeout bounds a single background fetch.
const fetchTimeout = 30 * time.Second

// Refresher orchestrates background polling and the position watch.
type Refresher struct {
	client   *api.Client
	provider geo.Provider

	interval time.Duration
	watch    bool

	resultCh  chan tea.Msg
	triggerCh chan Resource
	stopCh    chan struct{}
	cancel    context.CancelFunc

	mu        gosync.Mutex
	running   bool
	latest    map[Resource]string
	sortBy    string
	sortOrder string
}

// New creates a Refresher. provider may be nil when positioning is not
// configured; watch controls whether the position stream is started.
func New(client *api.Client, provider geo.Provider, interval time.Duration, watch bool) *Refresher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Refresher{
		client:    client,
		provider:  provider,
		interval:  interval,
		watch:     watch,
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan Resource, 16),
		stopCh:    make(chan struct{}),
		latest:    make(map[Resource]string),
		sortBy:    model.SortByCreatedAt,
		sortOrder: model.SortDesc,
	}
}

// SetTaskSort changes the sort parameters used for task fetches.
func (r *Refresher) SetTaskSort(sortBy, sortOrder string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sortBy = sortBy
	r.sortOrder = sortOrder
}

// Start launches the polling and watch goroutines and returns a
// subscription command that listens for results. A stopped Refresher
// can be started again (logout followed by a new login).
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	go r.pollLoop(stopCh)

	if r.watch && r.provider != nil {
		go r.watchLoop(ctx)
	}

	return r.waitForResult()
}

// Stop halts all background goroutines and tears down the position
// watch subscription.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	if r.cancel != nil {
		r.cancel()
	}
	r.running = false
}

// Refresh triggers an immediate fetch of a single resource.
func (r *Refresher) Refresh(res Resource) tea.Cmd {
	select {
	case r.triggerCh <- res:
	default:
		// Channel full; a refresh is already queued.
	}
	return nil
}

// RefreshAll triggers an immediate fetch of every resource.
func (r *Refresher) RefreshAll() tea.Cmd {
	for _, res := range []Resource{ResourceTasks, ResourceCategories, ResourceLocations} {
		r.Refresh(res)
	}
	return nil
}

// WaitForNextResult returns a tea.Cmd that waits for the next result.
// Call it again after processing each delivered message to keep the
// subscription alive.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}

func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}

// pollLoop fetches every resource immediately, then on each tick or
// manual trigger.
func (r *Refresher) pollLoop(stopCh <-chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.fetchAll()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			r.fetchAll()
		case res := <-r.triggerCh:
			go r.fetch(res)
		}
	}
}

func (r *Refresher) fetchAll() {
	for _, res := range []Resource{ResourceTasks, ResourceCategories, ResourceLocations} {
		go r.fetch(res)
	}
}

// fetch performs one tagged fetch of a resource. The tag is recorded as
// the latest for that resource before the request goes out; if another
// fetch for the same resource is issued while this one is in flight,
// this result is stale and gets dropped on completion.
func (r *Refresher) fetch(res Resource) {
	tag := uuid.NewString()

	r.mu.Lock()
	r.latest[res] = tag
	sortBy, sortOrder := r.sortBy, r.sortOrder
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	msg := RefreshMsg{Resource: res}
	switch res {
	case ResourceTasks:
		msg.Tasks, msg.Err = r.client.ListTasks(ctx, sortBy, sortOrder)
	case ResourceCategories:
		msg.Categories, msg.Err = r.client.ListCategories(ctx)
	case ResourceLocations:
		msg.Locations, msg.Err = r.client.ListLocations(ctx)
	default:
		return
	}

	r.mu.Lock()
	stale := r.latest[res] != tag
	r.mu.Unlock()
	if stale {
		return
	}

	r.send(msg)
}

// watchLoop forwards position updates from the provider until ctx is
// canceled.
func (r *Refresher) watchLoop(ctx context.Context) {
	ch, err := r.provider.Watch(ctx)
	if err != nil {
		r.send(PositionMsg{Err: err})
		return
	}

	for pos := range ch {
		r.send(PositionMsg{Position: pos})
	}
}

// send delivers a message without blocking the background goroutines.
func (r *Refresher) send(msg tea.Msg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if the channel is full; the next poll supersedes it.
	}
}
