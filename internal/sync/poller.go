package sync

import (
	"context"
	"log"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/model"
)

// SyncState represents the state of the background refresh loop.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus holds the refresh state of the bound folder.
type SyncStatus struct {
	Folder   model.Folder
	State    SyncState
	LastSync time.Time
	Error    error
}

// RefreshResultMsg is a tea.Msg sent when a background refresh completes.
type RefreshResultMsg struct {
	Folder     model.Folder
	Generation uint64
	Messages   []model.Message
	Err        error

	// AuthFailed is set when the backend rejected the session.
	AuthFailed bool
}

// Fetcher loads the messages of one folder.
type Fetcher interface {
	Messages(ctx context.Context, folder model.Folder) ([]model.Message, error)
}

const (
	defaultInterval = 60 * time.Second
	defaultTimeout  = 30 * time.Second
)

// Poller refreshes one folder on a fixed interval. Binding a new folder
// tears down the previous loop before the next one starts, so a tick can
// never refresh a folder that is no longer shown.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	timeout  time.Duration
	resultCh chan RefreshResultMsg

	mu     gosync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	status SyncStatus
}

// New creates a Poller. Non-positive durations fall back to 60s between
// ticks and 30s per fetch.
func New(f Fetcher, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Poller{
		fetcher:  f,
		interval: interval,
		timeout:  timeout,
		resultCh: make(chan RefreshResultMsg, 16),
	}
}

// Bind stops the current loop, if any, and starts refreshing folder.
// It returns the generation that results of the new loop carry.
func (p *Poller) Bind(folder model.Folder) uint64 {
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.done = done
	p.status = SyncStatus{Folder: folder, State: SyncIdle}
	p.mu.Unlock()

	go p.loop(ctx, folder, gen, done)
	return gen
}

// Stop halts the current loop and waits for it to exit. An in-flight
// fetch is cancelled and its result dropped.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Generation returns the generation of the current binding.
func (p *Poller) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// Status returns the refresh status of the bound folder.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) loop(ctx context.Context, folder model.Folder, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx, folder, gen)
		}
	}
}

// refresh performs one fetch and sends the result. Errors are logged and
// delivered; the loop keeps ticking regardless.
func (p *Poller) refresh(ctx context.Context, folder model.Folder, gen uint64) {
	p.setStatus(gen, SyncRunning, nil)

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msgs, err := p.fetcher.Messages(fetchCtx, folder)
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		log.Printf("poller: refreshing %s: %v", folder, err)
		p.setStatus(gen, SyncError, err)
		p.sendResult(RefreshResultMsg{
			Folder:     folder,
			Generation: gen,
			Err:        err,
			AuthFailed: api.IsAuthError(err),
		})
		return
	}

	p.setStatus(gen, SyncIdle, nil)
	p.sendResult(RefreshResultMsg{Folder: folder, Generation: gen, Messages: msgs})
}

// setStatus updates the status unless a newer binding replaced gen.
func (p *Poller) setStatus(gen uint64, state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return
	}
	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a result without blocking.
func (p *Poller) sendResult(msg RefreshResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		log.Printf("poller: dropping refresh of %s, result channel full", msg.Folder)
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. It should be issued again after each RefreshResultMsg.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return func() tea.Msg {
		return <-p.resultCh
	}
}
